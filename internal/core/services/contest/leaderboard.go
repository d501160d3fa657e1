package contest

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

// compareStanding orders by score desc, solve count desc, then time taken asc
// with an unset time sorting last.
func compareStanding(a, b *domain.Participant) int {
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}
	if len(a.ProblemsSolved) != len(b.ProblemsSolved) {
		if len(a.ProblemsSolved) > len(b.ProblemsSolved) {
			return -1
		}
		return 1
	}
	switch {
	case a.TimeTaken == nil && b.TimeTaken == nil:
		return 0
	case a.TimeTaken == nil:
		return 1
	case b.TimeTaken == nil:
		return -1
	case *a.TimeTaken < *b.TimeTaken:
		return -1
	case *a.TimeTaken > *b.TimeTaken:
		return 1
	}
	return 0
}

// RankParticipants orders scoring participants and assigns ranks 1..N. Equal
// keys keep registration order so the result is deterministic.
func RankParticipants(participants []*domain.Participant) []domain.LeaderboardEntry {
	ranked := make([]*domain.Participant, 0, len(participants))
	for _, p := range participants {
		if p.Score > 0 {
			ranked = append(ranked, p)
		}
	}
	slices.SortStableFunc(ranked, compareStanding)

	entries := make([]domain.LeaderboardEntry, len(ranked))
	for i, p := range ranked {
		entries[i] = domain.LeaderboardEntry{
			UserID:         p.UserID,
			Score:          p.Score,
			ProblemsSolved: len(p.ProblemsSolved),
			TimeTaken:      p.TimeTaken,
			Rank:           i + 1,
		}
	}
	return entries
}

// applyLeaderboard rewrites the cached leaderboard and each participant's rank.
// Participants without score are left unranked.
func applyLeaderboard(c *domain.Contest) {
	entries := RankParticipants(c.Participants)
	ranks := make(map[uuid.UUID]int, len(entries))
	for _, e := range entries {
		ranks[e.UserID] = e.Rank
	}
	for _, p := range c.Participants {
		if rank, ok := ranks[p.UserID]; ok {
			p.Rank = &rank
		} else {
			p.Rank = nil
		}
	}
	c.Leaderboard = entries
}

func (s *ContestService) RecomputeLeaderboard(ctx context.Context, contestID uuid.UUID) (*domain.Contest, error) {
	contest, err := s.mutate(ctx, contestID, func(c *domain.Contest) error {
		applyLeaderboard(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.LeaderboardRecomputed()
	return contest, nil
}

func (s *ContestService) GetLeaderboard(ctx context.Context, actor domain.Actor, contestID uuid.UUID) (*LeaderboardView, error) {
	contest, err := s.load(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, contest) {
		return nil, errs.ErrContestNotPublic
	}

	entries := contest.Leaderboard
	myRank := func(p *domain.Participant) *int { return p.Rank }
	if contest.HasUnrankedScores() {
		// Detached from ctx: waiters share this call.
		rebuilt, err, _ := s.leaderboardGroup.Do(contestID.String(), func() (interface{}, error) {
			return s.RecomputeLeaderboard(context.WithoutCancel(ctx), contestID)
		})
		if err != nil {
			s.logger.Warn("Failed to persist recomputed leaderboard, serving it uncached", "contestId", contestID, "error", err)
			entries = RankParticipants(contest.Participants)
			myRank = func(p *domain.Participant) *int {
				for _, e := range entries {
					if e.UserID == p.UserID {
						rank := e.Rank
						return &rank
					}
				}
				return nil
			}
		} else {
			contest = rebuilt.(*domain.Contest)
			entries = contest.Leaderboard
		}
	}

	view := &LeaderboardView{
		ContestID:         contest.ID,
		Status:            contest.DeriveStatus(s.clock.Now()),
		Leaderboard:       entries,
		TotalParticipants: len(contest.Participants),
	}
	if view.Leaderboard == nil {
		view.Leaderboard = []domain.LeaderboardEntry{}
	}
	if p := contest.Participant(actor.UserID); p != nil {
		score := p.Score
		view.MyScore = &score
		view.MyRank = myRank(p)
	}
	return view, nil
}
