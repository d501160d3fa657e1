package contest

import (
	"context"
	"sync"
	"testing"

	"github.com/matryer/is"

	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

func TestRegister(t *testing.T) {
	is := is.New(t)
	h := newHarness()
	c := h.seedContest()
	me := user()

	p, err := h.svc.Register(context.Background(), me, c.ID)
	is.NoErr(err)
	is.Equal(p.UserID, me.UserID)
	is.Equal(p.Score, 0)
	is.Equal(p.JoinedAt, baseTime)

	stored := h.contests.stored(c.ID)
	is.Equal(len(stored.Participants), 1)
	is.Equal(len(stored.Leaderboard), 0) // registration does not rank
}

func TestRegisterTwiceKeepsOneEntry(t *testing.T) {
	is := is.New(t)
	h := newHarness()
	c := h.seedContest()
	me := user()

	_, err := h.svc.Register(context.Background(), me, c.ID)
	is.NoErr(err)
	_, err = h.svc.Register(context.Background(), me, c.ID)
	is.Equal(err, errs.ErrAlreadyRegistered)
	is.Equal(len(h.contests.stored(c.ID).Participants), 1)
}

func TestRegisterCapacity(t *testing.T) {
	is := is.New(t)
	h := newHarness()
	c := h.seedContest(func(c *domain.Contest) { c.MaxParticipants = 1 })

	_, err := h.svc.Register(context.Background(), user(), c.ID)
	is.NoErr(err)
	_, err = h.svc.Register(context.Background(), user(), c.ID)
	is.Equal(err, errs.ErrContestFull)
	is.Equal(len(h.contests.stored(c.ID).Participants), 1)
}

func TestRegisterConcurrentLastSlot(t *testing.T) {
	is := is.New(t)
	h := newHarness()
	c := h.seedContest(func(c *domain.Contest) { c.MaxParticipants = 3 })

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.svc.Register(context.Background(), user(), c.ID); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	is.Equal(successes, 3)
	is.Equal(len(h.contests.stored(c.ID).Participants), 3)
}

func TestRegisterPreconditions(t *testing.T) {
	tests := []struct {
		name   string
		actor  domain.Actor
		mutate func(c *domain.Contest)
		want   error
	}{
		{
			name:   "private contest",
			actor:  user(),
			mutate: func(c *domain.Contest) { c.IsPublic = false },
			want:   errs.ErrContestNotPublic,
		},
		{
			name:   "private contest wins over closed registration",
			actor:  user(),
			mutate: func(c *domain.Contest) { c.IsPublic = false; c.RegistrationOpen = false },
			want:   errs.ErrContestNotPublic,
		},
		{
			name:   "private contest admin",
			actor:  admin(),
			mutate: func(c *domain.Contest) { c.IsPublic = false },
		},
		{
			name:   "registration closed",
			actor:  user(),
			mutate: func(c *domain.Contest) { c.RegistrationOpen = false },
			want:   errs.ErrRegistrationClosed,
		},
		{
			name:   "already started",
			actor:  user(),
			mutate: func(c *domain.Contest) { c.StartTime = baseTime; c.EndTime = baseTime.Add(c.EndTime.Sub(c.StartTime)) },
			want:   errs.ErrRegistrationEnded,
		},
		{
			name:   "late registration beats full",
			actor:  user(),
			mutate: func(c *domain.Contest) { c.StartTime = baseTime.Add(-1); c.MaxParticipants = 0 },
			want:   errs.ErrRegistrationEnded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			h := newHarness()
			c := h.seedContest(tt.mutate)

			_, err := h.svc.Register(context.Background(), tt.actor, c.ID)
			is.Equal(err, tt.want)
		})
	}
}

func TestRegisterUnknownContest(t *testing.T) {
	is := is.New(t)
	h := newHarness()

	_, err := h.svc.Register(context.Background(), user(), h.addProblem(nil))
	is.Equal(err, errs.ErrContestNotFound)
}
