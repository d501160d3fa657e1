// Package problemcache keeps recently judged problems and their test cases in
// memory so repeated submissions do not reload them from the database.
package problemcache

import (
	"context"
	"fmt"
	"time"

	"github.com/Yiling-J/theine-go"
	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

const (
	problemTTL = 2 * time.Minute
	missingTTL = 10 * time.Second
)

var _ secondary.ProblemRepository = (*ProblemCache)(nil)

type ProblemCache struct {
	next   secondary.ProblemRepository
	cache  *theine.LoadingCache[uuid.UUID, *domain.Problem]
	logger primary.Logger
}

func New(next secondary.ProblemRepository, size int64, logger primary.Logger) (*ProblemCache, error) {
	c := &ProblemCache{next: next, logger: logger}
	cache, err := theine.NewBuilder[uuid.UUID, *domain.Problem](size).BuildWithLoader(c.load)
	if err != nil {
		return nil, fmt.Errorf("could not build problem cache: %w", err)
	}
	c.cache = cache
	return c, nil
}

func (c *ProblemCache) load(ctx context.Context, problemID uuid.UUID) (theine.Loaded[*domain.Problem], error) {
	problem, err := c.next.FindByID(ctx, problemID)
	if err != nil {
		return theine.Loaded[*domain.Problem]{}, err
	}
	ttl := problemTTL
	if problem == nil {
		ttl = missingTTL
	}
	return theine.Loaded[*domain.Problem]{
		Value: problem,
		Cost:  1,
		TTL:   ttl,
	}, nil
}

func (c *ProblemCache) FindByID(ctx context.Context, problemID uuid.UUID) (*domain.Problem, error) {
	return c.cache.Get(ctx, problemID)
}

// FindManyByIDs is only used on contest writes and goes straight to the store.
func (c *ProblemCache) FindManyByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Problem, error) {
	return c.next.FindManyByIDs(ctx, ids)
}

func (c *ProblemCache) Close() {
	c.cache.Close()
}
