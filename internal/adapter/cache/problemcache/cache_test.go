package problemcache

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/matryer/is"

	"gitlab.com/fcv-2025.net/codearena/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

type countingRepo struct {
	problems map[uuid.UUID]*domain.Problem
	loads    int32
}

func (r *countingRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Problem, error) {
	atomic.AddInt32(&r.loads, 1)
	return r.problems[id], nil
}

func (r *countingRepo) FindManyByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Problem, error) {
	out := make([]*domain.Problem, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.problems[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestProblemCacheLoadsOnce(t *testing.T) {
	is := is.New(t)
	id := uuid.New()
	repo := &countingRepo{problems: map[uuid.UUID]*domain.Problem{id: {ID: id, Title: "A"}}}

	cache, err := New(repo, 100, logging.NewNopLogger())
	is.NoErr(err)
	defer cache.Close()

	for i := 0; i < 3; i++ {
		p, err := cache.FindByID(context.Background(), id)
		is.NoErr(err)
		is.Equal(p.Title, "A")
	}
	is.Equal(atomic.LoadInt32(&repo.loads), int32(1))
}

func TestProblemCacheMissing(t *testing.T) {
	is := is.New(t)
	cache, err := New(&countingRepo{problems: map[uuid.UUID]*domain.Problem{}}, 100, logging.NewNopLogger())
	is.NoErr(err)
	defer cache.Close()

	p, err := cache.FindByID(context.Background(), uuid.New())
	is.NoErr(err)
	is.True(p == nil)
}
