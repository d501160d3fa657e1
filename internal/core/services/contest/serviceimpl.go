package contest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

var _ IContestService = (*ContestService)(nil)

const (
	maxMutationAttempts = 3
	defaultPageSize     = 20
	maxPageSize         = 100
	submissionListLimit = 100
)

// ContestService implements IContestService
type ContestService struct {
	contests    secondary.ContestRepository
	problems    secondary.ProblemRepository
	submissions secondary.SubmissionRepository
	languages   secondary.LanguageRepository
	executor    secondary.CodeExecutor
	locker      secondary.ContestLocker
	logger      primary.Logger
	clock       primary.Clock
	metrics     primary.MetricsRecorder
	scoring     ScoringRule

	leaderboardGroup singleflight.Group
}

type Option func(*ContestService)

func WithClock(clock primary.Clock) Option {
	return func(s *ContestService) {
		s.clock = clock
	}
}

func WithScoring(rule ScoringRule) Option {
	return func(s *ContestService) {
		s.scoring = rule
	}
}

func WithMetrics(metrics primary.MetricsRecorder) Option {
	return func(s *ContestService) {
		s.metrics = metrics
	}
}

// NewContestService creates a new contest service
func NewContestService(
	contests secondary.ContestRepository,
	problems secondary.ProblemRepository,
	submissions secondary.SubmissionRepository,
	languages secondary.LanguageRepository,
	executor secondary.CodeExecutor,
	locker secondary.ContestLocker,
	logger primary.Logger,
	opts ...Option,
) *ContestService {
	s := &ContestService{
		contests:    contests,
		problems:    problems,
		submissions: submissions,
		languages:   languages,
		executor:    executor,
		locker:      locker,
		logger:      logger,
		clock:       primary.SystemClock,
		metrics:     primary.NopMetrics{},
		scoring:     DefaultScoringRule(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load fetches a contest and maps a missing row to ErrContestNotFound.
func (s *ContestService) load(ctx context.Context, contestID uuid.UUID) (*domain.Contest, error) {
	contest, err := s.contests.Get(ctx, contestID)
	if err != nil {
		s.logger.Error("Failed to load contest", "contestId", contestID, "error", err)
		return nil, fmt.Errorf("failed to load contest: %w", err)
	}
	if contest == nil {
		return nil, errs.ErrContestNotFound
	}
	return contest, nil
}

// mutate runs fn on a fresh copy of the contest under the contest lock and
// saves the result. A version conflict re-runs fn on newly loaded state.
func (s *ContestService) mutate(ctx context.Context, contestID uuid.UUID, fn func(c *domain.Contest) error) (*domain.Contest, error) {
	for attempt := 1; ; attempt++ {
		contest, err := s.mutateOnce(ctx, contestID, fn)
		if !errors.Is(err, errs.ErrVersionConflict) {
			return contest, err
		}
		if attempt >= maxMutationAttempts {
			s.logger.Warn("Giving up on contended contest", "contestId", contestID, "attempts", attempt)
			return nil, errs.ErrContestBusy
		}
		s.logger.Debug("Retrying contest mutation after version conflict", "contestId", contestID, "attempt", attempt)
	}
}

func (s *ContestService) mutateOnce(ctx context.Context, contestID uuid.UUID, fn func(c *domain.Contest) error) (*domain.Contest, error) {
	unlock, err := s.locker.Lock(ctx, contestID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.load(ctx, contestID)
	if err != nil {
		return nil, err
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	if err := s.contests.Save(ctx, working); err != nil {
		if errors.Is(err, errs.ErrVersionConflict) {
			return nil, err
		}
		s.logger.Error("Failed to save contest", "contestId", contestID, "error", err)
		return nil, fmt.Errorf("failed to save contest: %w", err)
	}
	return working, nil
}

func (s *ContestService) CreateContest(ctx context.Context, actor domain.Actor, in CreateContestInput) (*domain.Contest, error) {
	if !actor.IsPrivileged() {
		return nil, errs.ErrPrivilegeRequired
	}
	if err := in.Validate(); err != nil {
		return nil, errs.Validation(err)
	}

	now := s.clock.Now()
	if !in.StartTime.After(now) {
		return nil, errs.ErrStartNotInFuture
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, errs.ErrEndBeforeStart
	}
	if domain.DurationMinutes(in.StartTime, in.EndTime) != in.Duration {
		return nil, errs.ErrDurationMismatch
	}

	problemIDs := uniqueIDs(in.ProblemIDs)
	if err := s.ensureProblemsExist(ctx, problemIDs); err != nil {
		return nil, err
	}

	contest := &domain.Contest{
		ID:               uuid.New(),
		Name:             in.Name,
		Description:      in.Description,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		Duration:         in.Duration,
		MaxParticipants:  domain.DefaultMaxParticipants,
		IsPublic:         true,
		RegistrationOpen: true,
		ProblemIDs:       problemIDs,
		Participants:     []*domain.Participant{},
		Leaderboard:      []domain.LeaderboardEntry{},
		CreatedBy:        actor.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if in.MaxParticipants != nil {
		contest.MaxParticipants = *in.MaxParticipants
	}
	if in.IsPublic != nil {
		contest.IsPublic = *in.IsPublic
	}
	if in.RegistrationOpen != nil {
		contest.RegistrationOpen = *in.RegistrationOpen
	}
	contest.Status = contest.DeriveStatus(now)

	if err := s.contests.Create(ctx, contest); err != nil {
		s.logger.Error("Failed to create contest", "error", err)
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}

	s.logger.Info("Contest created", "contestId", contest.ID, "createdBy", actor.UserID, "problems", len(problemIDs))
	return contest, nil
}

func (s *ContestService) ensureProblemsExist(ctx context.Context, ids []uuid.UUID) error {
	found, err := s.problems.FindManyByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to look up problems", "error", err)
		return fmt.Errorf("failed to look up problems: %w", err)
	}
	if len(found) != len(ids) {
		return errs.ErrProblemNotFound
	}
	return nil
}

func (s *ContestService) ListContests(ctx context.Context, actor domain.Actor, in ListContestsInput) (*ContestPage, error) {
	if err := in.Validate(); err != nil {
		return nil, errs.Validation(err)
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultPageSize
	}

	now := s.clock.Now()
	filter := secondary.ContestFilter{
		Search:         in.Search,
		Sort:           secondary.ContestSort(in.Sort),
		IncludePrivate: actor.IsPrivileged(),
		Now:            now,
		Limit:          limit,
		Offset:         (page - 1) * limit,
	}
	if in.Status != "" {
		status := domain.ContestStatus(in.Status)
		filter.Status = &status
	}

	contests, total, err := s.contests.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list contests", "error", err)
		return nil, fmt.Errorf("failed to list contests: %w", err)
	}

	for _, c := range contests {
		c.Status = c.DeriveStatus(now)
	}

	return &ContestPage{
		Contests:   contests,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// canView reports whether a private contest is visible to the actor.
func canView(actor domain.Actor, contest *domain.Contest) bool {
	return contest.IsPublic || actor.IsPrivileged() || contest.Participant(actor.UserID) != nil
}

func (s *ContestService) GetContest(ctx context.Context, actor domain.Actor, contestID uuid.UUID) (*ContestDetail, error) {
	contest, err := s.load(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, contest) {
		return nil, errs.ErrContestNotPublic
	}

	now := s.clock.Now()
	contest.Status = contest.DeriveStatus(now)

	detail := &ContestDetail{
		Contest:       contest,
		TimeRemaining: int64(contest.TimeRemaining(now) / time.Second),
	}
	if p := contest.Participant(actor.UserID); p != nil {
		detail.IsRegistered = true
		detail.MyParticipation = p
	}
	return detail, nil
}

func (s *ContestService) UpdateContest(ctx context.Context, actor domain.Actor, contestID uuid.UUID, in UpdateContestInput) (*domain.Contest, error) {
	if !actor.IsPrivileged() {
		return nil, errs.ErrPrivilegeRequired
	}
	if err := in.Validate(); err != nil {
		return nil, errs.Validation(err)
	}

	var problemIDs []uuid.UUID
	if in.ProblemIDs != nil {
		problemIDs = uniqueIDs(*in.ProblemIDs)
		if err := s.ensureProblemsExist(ctx, problemIDs); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	contest, err := s.mutate(ctx, contestID, func(c *domain.Contest) error {
		if !now.Before(c.StartTime) && !actor.IsSuperAdmin() {
			return errs.ErrContestStarted
		}
		if in.ProblemIDs != nil {
			if len(c.Participants) > 0 {
				return errs.ErrProblemSetFrozen
			}
			c.ProblemIDs = problemIDs
		}
		if in.MaxParticipants != nil {
			if *in.MaxParticipants < len(c.Participants) {
				return errs.ErrCapacityTooLow
			}
			c.MaxParticipants = *in.MaxParticipants
		}
		if in.Name != nil {
			c.Name = *in.Name
		}
		if in.Description != nil {
			c.Description = *in.Description
		}
		if in.IsPublic != nil {
			c.IsPublic = *in.IsPublic
		}
		if in.RegistrationOpen != nil {
			c.RegistrationOpen = *in.RegistrationOpen
		}
		if in.StartTime != nil || in.EndTime != nil {
			start, end := c.StartTime, c.EndTime
			if in.StartTime != nil {
				start = *in.StartTime
			}
			if in.EndTime != nil {
				end = *in.EndTime
			}
			if !end.After(start) {
				return errs.ErrEndBeforeStart
			}
			c.StartTime, c.EndTime = start, end
			c.Duration = domain.DurationMinutes(start, end)
		}
		c.Status = c.DeriveStatus(now)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Contest updated", "contestId", contestID, "by", actor.UserID)
	return contest, nil
}

func (s *ContestService) DeleteContest(ctx context.Context, actor domain.Actor, contestID uuid.UUID) error {
	if !actor.IsPrivileged() {
		return errs.ErrPrivilegeRequired
	}

	unlock, err := s.locker.Lock(ctx, contestID)
	if err != nil {
		return err
	}
	defer unlock()

	contest, err := s.load(ctx, contestID)
	if err != nil {
		return err
	}
	if !s.clock.Now().Before(contest.StartTime) && !actor.IsSuperAdmin() {
		return errs.ErrContestStarted
	}

	if err := s.contests.Delete(ctx, contestID); err != nil {
		s.logger.Error("Failed to delete contest", "contestId", contestID, "error", err)
		return fmt.Errorf("failed to delete contest: %w", err)
	}

	deleted, err := s.submissions.DeleteMany(ctx, secondary.SubmissionFilter{ContestID: &contestID})
	if err != nil {
		s.logger.Error("Failed to delete contest submissions", "contestId", contestID, "error", err)
		return fmt.Errorf("failed to delete contest submissions: %w", err)
	}

	s.logger.Info("Contest deleted", "contestId", contestID, "by", actor.UserID, "submissionsDeleted", deleted)
	return nil
}

func (s *ContestService) ListUserContestSubmissions(ctx context.Context, actor domain.Actor, contestID uuid.UUID) ([]*domain.Submission, error) {
	contest, err := s.load(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if contest.Participant(actor.UserID) == nil && !actor.IsPrivileged() {
		return nil, errs.ErrNotParticipant
	}

	userID := actor.UserID
	submissions, err := s.submissions.FindMany(ctx, secondary.SubmissionFilter{
		UserID:    &userID,
		ContestID: &contestID,
		Limit:     submissionListLimit,
	})
	if err != nil {
		s.logger.Error("Failed to list submissions", "contestId", contestID, "error", err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
