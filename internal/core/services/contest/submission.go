package contest

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

// Submit gates a submission, judges it outside the contest lock and, when every
// hidden test passes, scores the solve and recomputes the leaderboard under the lock.
// The submission time is taken once when the request starts.
func (s *ContestService) Submit(ctx context.Context, actor domain.Actor, in SubmitInput) (*SubmitResult, error) {
	if err := in.Validate(); err != nil {
		return nil, errs.Validation(err)
	}
	now := s.clock.Now()

	contest, err := s.load(ctx, in.ContestID)
	if err != nil {
		return nil, err
	}
	participant := contest.Participant(actor.UserID)
	if participant == nil {
		return nil, errs.ErrNotParticipant
	}
	switch contest.DeriveStatus(now) {
	case domain.ContestStatusUpcoming:
		return nil, errs.ErrContestNotStarted
	case domain.ContestStatusEnded:
		return nil, errs.ErrContestEnded
	}
	if !contest.HasProblem(in.ProblemID) {
		return nil, errs.ErrProblemNotInSet
	}

	problem, err := s.problems.FindByID(ctx, in.ProblemID)
	if err != nil {
		s.logger.Error("Failed to load problem", "problemId", in.ProblemID, "error", err)
		return nil, fmt.Errorf("failed to load problem: %w", err)
	}
	if problem == nil {
		return nil, errs.ErrProblemNotFound
	}
	if participant.HasSolved(in.ProblemID) {
		return nil, errs.ErrAlreadySolved
	}

	language, err := s.languages.GetLanguage(ctx, in.Language)
	if err != nil {
		s.logger.Error("Failed to load language", "language", in.Language, "error", err)
		return nil, fmt.Errorf("failed to load language: %w", err)
	}
	if language == nil || !language.Active {
		return nil, errs.ErrUnknownLanguage
	}

	hidden := problem.HiddenTestCases()
	if len(hidden) == 0 {
		return nil, errs.ErrProblemNotGradable
	}

	started := s.clock.Now()
	result, err := s.executor.Evaluate(ctx, in.Code, language.JudgeLanguageID, hidden)
	s.metrics.JudgeLatency(s.clock.Now().Sub(started))
	if err != nil {
		s.metrics.JudgeFailed()
		s.logger.Warn("Evaluation failed", "contestId", in.ContestID, "problemId", in.ProblemID, "userId", actor.UserID, "error", err)
		if errs.KindOf(err) == errs.KindUpstream || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrJudgeUnavailable, err)
	}

	contestID := in.ContestID
	submission := domain.NewSubmission(actor.UserID, in.ProblemID, &contestID, in.Code, in.Language, result, now)
	out := &SubmitResult{
		Submission:      submission,
		TestCasesPassed: submission.TestCasesPassed,
		TestCasesTotal:  submission.TestCasesTotal,
		Runtime:         submission.RuntimeMs,
		Score:           participant.Score,
	}

	if !result.Accepted() {
		if err := s.submissions.Create(ctx, submission); err != nil {
			s.logger.Error("Failed to save submission", "submissionId", submission.ID, "error", err)
			return nil, fmt.Errorf("failed to save submission: %w", err)
		}
		s.metrics.SubmissionJudged(string(submission.Status))
		return out, nil
	}

	minutes := MinutesSince(contest.StartTime, now)
	points := s.scoring.Points(problem.BasePoints(), minutes)
	submission.PointsAwarded = points

	updated, err := s.mutate(ctx, in.ContestID, func(c *domain.Contest) error {
		p := c.Participant(actor.UserID)
		if p == nil {
			return errs.ErrNotParticipant
		}
		if p.HasSolved(in.ProblemID) {
			return errs.ErrAlreadySolved
		}
		p.RecordSolve(domain.SolvedProblem{
			ProblemID:    in.ProblemID,
			SolvedAt:     now,
			SubmissionID: submission.ID,
			Points:       points,
		}, minutes)
		applyLeaderboard(c)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.LeaderboardRecomputed()

	if err := s.submissions.Create(ctx, submission); err != nil {
		// The solve is already scored; the record is what failed.
		s.logger.Error("Failed to save accepted submission", "submissionId", submission.ID, "contestId", in.ContestID, "error", err)
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}
	s.metrics.SubmissionJudged(string(submission.Status))

	out.Accepted = true
	out.PointsAwarded = points
	if p := updated.Participant(actor.UserID); p != nil {
		out.Score = p.Score
	}

	s.logger.Info("Accepted submission scored",
		"contestId", in.ContestID,
		"problemId", in.ProblemID,
		"userId", actor.UserID,
		"points", points)
	return out, nil
}
