package contest

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/codearena/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

type memContestRepo struct {
	mu       sync.Mutex
	contests map[uuid.UUID]*domain.Contest
	// conflicts makes the next N saves fail with a version conflict.
	conflicts int
	saves     int
}

func newMemContestRepo() *memContestRepo {
	return &memContestRepo{contests: map[uuid.UUID]*domain.Contest{}}
}

func (r *memContestRepo) Create(ctx context.Context, c *domain.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Version = 1
	r.contests[c.ID] = c.Clone()
	return nil
}

func (r *memContestRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contests[id]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (r *memContestRepo) Save(ctx context.Context, c *domain.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts > 0 {
		r.conflicts--
		return errs.ErrVersionConflict
	}
	stored, ok := r.contests[c.ID]
	if !ok || stored.Version != c.Version {
		return errs.ErrVersionConflict
	}
	c.Version++
	r.contests[c.ID] = c.Clone()
	r.saves++
	return nil
}

func (r *memContestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.contests, id)
	return nil
}

func (r *memContestRepo) List(ctx context.Context, f secondary.ContestFilter) ([]*domain.Contest, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*domain.Contest, 0)
	for _, c := range r.contests {
		if !f.IncludePrivate && !c.IsPublic {
			continue
		}
		if f.Status != nil && c.DeriveStatus(f.Now) != *f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Name+" "+c.Description), strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, c.Clone())
	}
	total := len(matched)
	if f.Offset >= len(matched) {
		return []*domain.Contest{}, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func (r *memContestRepo) ListStaleStatus(ctx context.Context, now time.Time, limit int) ([]*domain.Contest, error) {
	return nil, nil
}

func (r *memContestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContestStatus) error {
	return nil
}

func (r *memContestRepo) stored(id uuid.UUID) *domain.Contest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.contests[id]; ok {
		return c.Clone()
	}
	return nil
}

type memProblemRepo struct {
	problems map[uuid.UUID]*domain.Problem
}

func (r *memProblemRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Problem, error) {
	return r.problems[id], nil
}

func (r *memProblemRepo) FindManyByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Problem, error) {
	out := make([]*domain.Problem, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.problems[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type memSubmissionRepo struct {
	mu          sync.Mutex
	submissions []*domain.Submission
}

func (r *memSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = append(r.submissions, s)
	return nil
}

func matches(s *domain.Submission, f secondary.SubmissionFilter) bool {
	if f.UserID != nil && s.UserID != *f.UserID {
		return false
	}
	if f.ContestID != nil && (s.ContestID == nil || *s.ContestID != *f.ContestID) {
		return false
	}
	if f.ProblemID != nil && s.ProblemID != *f.ProblemID {
		return false
	}
	return true
}

func (r *memSubmissionRepo) FindMany(ctx context.Context, f secondary.SubmissionFilter) ([]*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Submission, 0)
	for i := len(r.submissions) - 1; i >= 0; i-- {
		if matches(r.submissions[i], f) {
			out = append(out, r.submissions[i])
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memSubmissionRepo) DeleteMany(ctx context.Context, f secondary.SubmissionFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.submissions[:0]
	var deleted int64
	for _, s := range r.submissions {
		if matches(s, f) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	r.submissions = kept
	return deleted, nil
}

func (r *memSubmissionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.submissions)
}

type memLanguageRepo struct{}

func (memLanguageRepo) GetLanguage(ctx context.Context, name string) (*domain.Language, error) {
	switch name {
	case "cpp":
		return &domain.Language{Name: "cpp", JudgeLanguageID: 54, Active: true}, nil
	case "cobol":
		return &domain.Language{Name: "cobol", JudgeLanguageID: 77, Active: false}, nil
	}
	return nil, nil
}

func (memLanguageRepo) GetActiveLanguages(ctx context.Context) ([]*domain.Language, error) {
	return []*domain.Language{{Name: "cpp", JudgeLanguageID: 54, Active: true}}, nil
}

func (memLanguageRepo) SaveLanguage(ctx context.Context, l *domain.Language) error {
	return nil
}

// fakeExecutor passes every test unless verdict or err is set.
type fakeExecutor struct {
	verdict domain.Verdict
	err     error
	calls   int32
}

func (e *fakeExecutor) Evaluate(ctx context.Context, code string, languageID int, tcs []domain.TestCase) (*domain.ExecutionResult, error) {
	atomic.AddInt32(&e.calls, 1)
	if e.err != nil {
		return nil, e.err
	}
	verdict := e.verdict
	if verdict == "" {
		verdict = domain.VerdictMatched
	}
	results := make([]domain.TestCaseResult, len(tcs))
	for i, tc := range tcs {
		results[i] = domain.TestCaseResult{TestCaseID: tc.ID, Verdict: verdict, ExecutionTimeMs: 10, MemoryKB: 512}
	}
	return &domain.ExecutionResult{TestCaseResults: results}, nil
}

func (e *fakeExecutor) callCount() int {
	return int(atomic.LoadInt32(&e.calls))
}

type mutexLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func (l *mutexLocker) Lock(ctx context.Context, id uuid.UUID) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	if l.locks == nil {
		l.locks = map[uuid.UUID]*sync.Mutex{}
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type harness struct {
	svc         *ContestService
	contests    *memContestRepo
	problems    *memProblemRepo
	submissions *memSubmissionRepo
	executor    *fakeExecutor
	clock       *fixedClock
}

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newHarness() *harness {
	h := &harness{
		contests:    newMemContestRepo(),
		problems:    &memProblemRepo{problems: map[uuid.UUID]*domain.Problem{}},
		submissions: &memSubmissionRepo{},
		executor:    &fakeExecutor{},
		clock:       &fixedClock{now: baseTime},
	}
	h.svc = NewContestService(
		h.contests,
		h.problems,
		h.submissions,
		memLanguageRepo{},
		h.executor,
		&mutexLocker{},
		logging.NewNopLogger(),
		WithClock(h.clock),
	)
	return h
}

func (h *harness) addProblem(points *int) uuid.UUID {
	id := uuid.New()
	h.problems.problems[id] = &domain.Problem{
		ID:     id,
		Title:  "problem",
		Points: points,
		TestCases: []domain.TestCase{
			{ID: uuid.New(), ProblemID: id, Input: "1 2", ExpectedOutput: "3", IsHidden: false},
			{ID: uuid.New(), ProblemID: id, Input: "2 2", ExpectedOutput: "4", IsHidden: true},
			{ID: uuid.New(), ProblemID: id, Input: "5 5", ExpectedOutput: "10", IsHidden: true},
		},
	}
	return id
}

// seedContest stores a contest that starts one hour after baseTime and runs 60 minutes.
func (h *harness) seedContest(mutators ...func(c *domain.Contest)) *domain.Contest {
	start := baseTime.Add(time.Hour)
	c := &domain.Contest{
		ID:               uuid.New(),
		Name:             "Weekly",
		StartTime:        start,
		EndTime:          start.Add(time.Hour),
		Duration:         60,
		MaxParticipants:  domain.DefaultMaxParticipants,
		IsPublic:         true,
		RegistrationOpen: true,
		ProblemIDs:       []uuid.UUID{h.addProblem(nil)},
		Participants:     []*domain.Participant{},
		Leaderboard:      []domain.LeaderboardEntry{},
		CreatedBy:        uuid.New(),
		Status:           domain.ContestStatusUpcoming,
		CreatedAt:        baseTime,
		UpdatedAt:        baseTime,
	}
	for _, m := range mutators {
		m(c)
	}
	_ = h.contests.Create(context.Background(), c)
	return c
}

func user() domain.Actor {
	return domain.Actor{UserID: uuid.New(), Username: "user", Role: domain.RoleUser}
}

func admin() domain.Actor {
	return domain.Actor{UserID: uuid.New(), Username: "admin", Role: domain.RoleAdmin}
}

func superAdmin() domain.Actor {
	return domain.Actor{UserID: uuid.New(), Username: "root", Role: domain.RoleSuperAdmin}
}

func intPtr(n int) *int {
	return &n
}
