package contest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matryer/is"

	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

func createInput(h *harness) CreateContestInput {
	start := baseTime.Add(24 * time.Hour)
	return CreateContestInput{
		Name:       "Spring Cup",
		StartTime:  start,
		EndTime:    start.Add(90 * time.Minute),
		Duration:   90,
		ProblemIDs: []uuid.UUID{h.addProblem(nil), h.addProblem(intPtr(200))},
	}
}

func TestCreateContest(t *testing.T) {
	is := is.New(t)
	h := newHarness()
	in := createInput(h)
	in.ProblemIDs = append(in.ProblemIDs, in.ProblemIDs[0])
	actor := admin()

	c, err := h.svc.CreateContest(context.Background(), actor, in)
	is.NoErr(err)
	is.Equal(len(c.ProblemIDs), 2) // duplicates dropped
	is.Equal(c.MaxParticipants, domain.DefaultMaxParticipants)
	is.True(c.IsPublic)
	is.True(c.RegistrationOpen)
	is.Equal(c.Status, domain.ContestStatusUpcoming)
	is.Equal(c.CreatedBy, actor.UserID)
	is.True(h.contests.stored(c.ID) != nil)
}

func TestCreateContestDurationInvariant(t *testing.T) {
	for _, declared := range []int{89, 90, 91, 1, 0} {
		h := newHarness()
		in := createInput(h)
		in.Duration = declared

		_, err := h.svc.CreateContest(context.Background(), admin(), in)
		if declared == 90 {
			is.New(t).NoErr(err)
			continue
		}
		is.New(t).Equal(err, errs.ErrDurationMismatch)
	}
}

func TestCreateContestShorterThanAMinute(t *testing.T) {
	is := is.New(t)
	h := newHarness()
	in := createInput(h)
	in.EndTime = in.StartTime.Add(30 * time.Second)
	in.Duration = 0

	created, err := h.svc.CreateContest(context.Background(), admin(), in)
	is.NoErr(err)
	is.Equal(created.Duration, 0)

	in.Duration = 1
	_, err = h.svc.CreateContest(context.Background(), admin(), in)
	is.Equal(err, errs.ErrDurationMismatch)

	in.Duration = -1
	_, err = h.svc.CreateContest(context.Background(), admin(), in)
	is.Equal(errs.KindOf(err), errs.KindValidation)
}

func TestCreateContestRejections(t *testing.T) {
	tests := []struct {
		name  string
		actor domain.Actor
		edit  func(in *CreateContestInput)
		want  error
		kind  errs.Kind
	}{
		{name: "not privileged", actor: user(), want: errs.ErrPrivilegeRequired, kind: errs.KindForbidden},
		{name: "missing name", actor: admin(), edit: func(in *CreateContestInput) { in.Name = "" }, kind: errs.KindValidation},
		{name: "no problems", actor: admin(), edit: func(in *CreateContestInput) { in.ProblemIDs = nil }, kind: errs.KindValidation},
		{name: "zero capacity", actor: admin(), edit: func(in *CreateContestInput) { in.MaxParticipants = intPtr(0) }, kind: errs.KindValidation},
		{
			name:  "start in the past",
			actor: admin(),
			edit: func(in *CreateContestInput) {
				in.StartTime = baseTime.Add(-time.Hour)
				in.EndTime = baseTime.Add(30 * time.Minute)
			},
			want: errs.ErrStartNotInFuture,
			kind: errs.KindValidation,
		},
		{
			name:  "start equals now",
			actor: admin(),
			edit: func(in *CreateContestInput) {
				in.StartTime = baseTime
				in.EndTime = baseTime.Add(90 * time.Minute)
			},
			want: errs.ErrStartNotInFuture,
			kind: errs.KindValidation,
		},
		{name: "end before start", actor: admin(), edit: func(in *CreateContestInput) { in.EndTime = in.StartTime }, want: errs.ErrEndBeforeStart, kind: errs.KindValidation},
		{name: "unknown problem", actor: admin(), edit: func(in *CreateContestInput) { in.ProblemIDs = append(in.ProblemIDs, uuid.New()) }, want: errs.ErrProblemNotFound, kind: errs.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			h := newHarness()
			in := createInput(h)
			if tt.edit != nil {
				tt.edit(&in)
			}

			_, err := h.svc.CreateContest(context.Background(), tt.actor, in)
			is.True(err != nil)
			if tt.want != nil {
				is.Equal(err, tt.want)
			}
			is.Equal(errs.KindOf(err), tt.kind)
		})
	}
}

func TestGetContest(t *testing.T) {
	is := is.New(t)
	h := newHarness()
	me := user()
	c := h.seedContest(func(c *domain.Contest) {
		c.Participants = []*domain.Participant{domain.NewParticipant(me.UserID, baseTime)}
	})

	detail, err := h.svc.GetContest(context.Background(), me, c.ID)
	is.NoErr(err)
	is.Equal(detail.Contest.Status, domain.ContestStatusUpcoming)
	is.Equal(detail.TimeRemaining, int64(3600))
	is.True(detail.IsRegistered)

	h.clock.Set(c.StartTime.Add(45 * time.Minute))
	detail, err = h.svc.GetContest(context.Background(), user(), c.ID)
	is.NoErr(err)
	is.Equal(detail.Contest.Status, domain.ContestStatusLive)
	is.Equal(detail.TimeRemaining, int64(15*60))
	is.True(!detail.IsRegistered)

	h.clock.Set(c.EndTime.Add(time.Second))
	detail, err = h.svc.GetContest(context.Background(), me, c.ID)
	is.NoErr(err)
	is.Equal(detail.Contest.Status, domain.ContestStatusEnded)
	is.Equal(detail.TimeRemaining, int64(0))

	_, err = h.svc.GetContest(context.Background(), me, uuid.New())
	is.Equal(err, errs.ErrContestNotFound)
}

func TestGetPrivateContest(t *testing.T) {
	is := is.New(t)
	h := newHarness()
	c := h.seedContest(func(c *domain.Contest) { c.IsPublic = false })

	_, err := h.svc.GetContest(context.Background(), user(), c.ID)
	is.Equal(err, errs.ErrContestNotPublic)

	_, err = h.svc.GetContest(context.Background(), admin(), c.ID)
	is.NoErr(err)
}

func TestListContests(t *testing.T) {
	is := is.New(t)
	h := newHarness()
	h.seedContest(func(c *domain.Contest) { c.Name = "Go Sprint" })
	h.seedContest(func(c *domain.Contest) { c.Name = "Hidden"; c.IsPublic = false })
	h.seedContest(func(c *domain.Contest) {
		c.Name = "Past"
		c.StartTime = baseTime.Add(-3 * time.Hour)
		c.EndTime = baseTime.Add(-2 * time.Hour)
		c.Status = domain.ContestStatusUpcoming // stale label
	})

	page, err := h.svc.ListContests(context.Background(), user(), ListContestsInput{})
	is.NoErr(err)
	is.Equal(page.Total, 2)
	is.Equal(page.Page, 1)
	is.Equal(page.Limit, defaultPageSize)
	is.Equal(page.TotalPages, 1)

	page, err = h.svc.ListContests(context.Background(), admin(), ListContestsInput{})
	is.NoErr(err)
	is.Equal(page.Total, 3)

	page, err = h.svc.ListContests(context.Background(), user(), ListContestsInput{Status: "ended"})
	is.NoErr(err)
	is.Equal(len(page.Contests), 1)
	is.Equal(page.Contests[0].Status, domain.ContestStatusEnded) // derived, not stored

	page, err = h.svc.ListContests(context.Background(), user(), ListContestsInput{Search: "sprint"})
	is.NoErr(err)
	is.Equal(len(page.Contests), 1)

	_, err = h.svc.ListContests(context.Background(), user(), ListContestsInput{Status: "paused"})
	is.Equal(errs.KindOf(err), errs.KindValidation)
	_, err = h.svc.ListContests(context.Background(), user(), ListContestsInput{Limit: 500})
	is.Equal(errs.KindOf(err), errs.KindValidation)
	_, err = h.svc.ListContests(context.Background(), user(), ListContestsInput{Sort: "score"})
	is.Equal(errs.KindOf(err), errs.KindValidation)
}

func TestUpdateContest(t *testing.T) {
	is := is.New(t)
	h := newHarness()
	c := h.seedContest()
	name := "Renamed"
	end := c.EndTime.Add(30 * time.Minute)

	updated, err := h.svc.UpdateContest(context.Background(), admin(), c.ID, UpdateContestInput{Name: &name, EndTime: &end})
	is.NoErr(err)
	is.Equal(updated.Name, "Renamed")
	is.Equal(updated.Duration, 90)
	is.Equal(updated.Status, domain.ContestStatusUpcoming)
	is.Equal(h.contests.stored(c.ID).Duration, 90)
}

func TestUpdateContestRules(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	h := newHarness()
	c := h.seedContest()
	_, err := h.svc.UpdateContest(ctx, user(), c.ID, UpdateContestInput{})
	is.Equal(err, errs.ErrPrivilegeRequired)

	start := c.EndTime.Add(time.Minute)
	_, err = h.svc.UpdateContest(ctx, admin(), c.ID, UpdateContestInput{StartTime: &start})
	is.Equal(err, errs.ErrEndBeforeStart)

	newProblems := []uuid.UUID{h.addProblem(nil)}
	updated, err := h.svc.UpdateContest(ctx, admin(), c.ID, UpdateContestInput{ProblemIDs: &newProblems})
	is.NoErr(err)
	is.Equal(updated.ProblemIDs, newProblems)

	_, err = h.svc.Register(ctx, user(), c.ID)
	is.NoErr(err)
	_, err = h.svc.UpdateContest(ctx, admin(), c.ID, UpdateContestInput{ProblemIDs: &[]uuid.UUID{h.addProblem(nil)}})
	is.Equal(err, errs.ErrProblemSetFrozen)
	_, err = h.svc.UpdateContest(ctx, admin(), c.ID, UpdateContestInput{MaxParticipants: intPtr(0)})
	is.Equal(errs.KindOf(err), errs.KindValidation)

	_, err = h.svc.Register(ctx, user(), c.ID)
	is.NoErr(err)
	_, err = h.svc.UpdateContest(ctx, admin(), c.ID, UpdateContestInput{MaxParticipants: intPtr(1)})
	is.Equal(err, errs.ErrCapacityTooLow)

	h.clock.Set(c.StartTime)
	name := "Late fix"
	_, err = h.svc.UpdateContest(ctx, admin(), c.ID, UpdateContestInput{Name: &name})
	is.Equal(err, errs.ErrContestStarted)
	updated, err = h.svc.UpdateContest(ctx, superAdmin(), c.ID, UpdateContestInput{Name: &name})
	is.NoErr(err)
	is.Equal(updated.Status, domain.ContestStatusLive)
}

func TestDeleteContest(t *testing.T) {
	is := is.New(t)
	h := newHarness()
	ctx := context.Background()
	c := h.seedContest()
	other := h.seedContest(func(o *domain.Contest) { o.ProblemIDs = c.ProblemIDs })

	mine, theirs := c.ID, other.ID
	_ = h.submissions.Create(ctx, &domain.Submission{ID: uuid.New(), ProblemID: c.ProblemIDs[0], ContestID: &mine})
	_ = h.submissions.Create(ctx, &domain.Submission{ID: uuid.New(), ProblemID: c.ProblemIDs[0], ContestID: &theirs})

	is.Equal(h.svc.DeleteContest(ctx, user(), c.ID), errs.ErrPrivilegeRequired)
	is.NoErr(h.svc.DeleteContest(ctx, admin(), c.ID))
	is.True(h.contests.stored(c.ID) == nil)
	is.Equal(h.submissions.count(), 1) // other contest sharing the problem keeps its submissions

	is.Equal(h.svc.DeleteContest(ctx, admin(), c.ID), errs.ErrContestNotFound)

	h.clock.Set(other.StartTime.Add(time.Minute))
	is.Equal(h.svc.DeleteContest(ctx, admin(), other.ID), errs.ErrContestStarted)
	is.NoErr(h.svc.DeleteContest(ctx, superAdmin(), other.ID))
	is.Equal(h.submissions.count(), 0)
}

func TestMutationRetriesVersionConflicts(t *testing.T) {
	is := is.New(t)
	h := newHarness()
	c := h.seedContest()

	h.contests.conflicts = maxMutationAttempts - 1
	_, err := h.svc.Register(context.Background(), user(), c.ID)
	is.NoErr(err)

	h.contests.conflicts = maxMutationAttempts
	_, err = h.svc.Register(context.Background(), user(), c.ID)
	is.Equal(err, errs.ErrContestBusy)
	is.Equal(len(h.contests.stored(c.ID).Participants), 1)
}
