package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a registered user's standing inside one contest.
type Participant struct {
	UserID         uuid.UUID       `json:"userId"`
	JoinedAt       time.Time       `json:"joinedAt"`
	Score          int             `json:"score"`
	ProblemsSolved []SolvedProblem `json:"problemsSolved"`
	Rank           *int            `json:"rank"`
	// TimeTaken is minutes from contest start to the first accepted solve.
	TimeTaken *int `json:"timeTaken"`
}

// SolvedProblem records the one scored solve of a problem, in solve order.
type SolvedProblem struct {
	ProblemID    uuid.UUID `json:"problemId"`
	SolvedAt     time.Time `json:"solvedAt"`
	SubmissionID uuid.UUID `json:"submissionId"`
	Points       int       `json:"points"`
}

// LeaderboardEntry is one ranked row of the cached leaderboard.
type LeaderboardEntry struct {
	UserID         uuid.UUID `json:"userId"`
	Score          int       `json:"score"`
	ProblemsSolved int       `json:"problemsSolved"`
	TimeTaken      *int      `json:"timeTaken"`
	Rank           int       `json:"rank"`
}

func NewParticipant(userID uuid.UUID, joinedAt time.Time) *Participant {
	return &Participant{
		UserID:         userID,
		JoinedAt:       joinedAt,
		ProblemsSolved: []SolvedProblem{},
	}
}

func (p *Participant) HasSolved(problemID uuid.UUID) bool {
	for _, s := range p.ProblemsSolved {
		if s.ProblemID == problemID {
			return true
		}
	}
	return false
}

// RecordSolve applies an accepted solve. timeTaken is only kept for the first solve.
func (p *Participant) RecordSolve(solve SolvedProblem, timeTaken int) {
	p.Score += solve.Points
	p.ProblemsSolved = append(p.ProblemsSolved, solve)
	if p.TimeTaken == nil {
		p.TimeTaken = &timeTaken
	}
}

func (p *Participant) Clone() *Participant {
	cp := *p
	cp.ProblemsSolved = append([]SolvedProblem{}, p.ProblemsSolved...)
	if p.Rank != nil {
		rank := *p.Rank
		cp.Rank = &rank
	}
	if p.TimeTaken != nil {
		taken := *p.TimeTaken
		cp.TimeTaken = &taken
	}
	return &cp
}
