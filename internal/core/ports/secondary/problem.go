package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

// ProblemRepository is the read-only view of the problem store.
type ProblemRepository interface {
	// FindByID returns the problem with its test cases, nil when missing
	FindByID(ctx context.Context, problemID uuid.UUID) (*domain.Problem, error)

	// FindManyByIDs returns the problems that exist among ids
	FindManyByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Problem, error)
}
