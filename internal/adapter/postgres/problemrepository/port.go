// Package problemrepository reads problems and their test cases. The contest
// platform never writes problems, so only lookups are provided.
package problemrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

var _ secondary.ProblemRepository = (*ProblemRepository)(nil)

type ProblemRepository struct {
	db     *sqlx.DB
	schema string
	logger primary.Logger
}

func NewProblemRepository(db *sqlx.DB, schema string, logger primary.Logger) *ProblemRepository {
	return &ProblemRepository{
		db:     db,
		schema: schema,
		logger: logger,
	}
}

func (r *ProblemRepository) FindByID(ctx context.Context, problemID uuid.UUID) (*domain.Problem, error) {
	query := fmt.Sprintf(`SELECT id, title, points FROM %s.problems WHERE id = $1`, r.schema)

	var problem domain.Problem
	if err := r.db.GetContext(ctx, &problem, query, problemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get problem", "error", err)
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}

	testCaseQuery := fmt.Sprintf(`
		SELECT id, problem_id, input, expected_output, is_hidden, position
		FROM %s.test_cases
		WHERE problem_id = $1
		ORDER BY position ASC
	`, r.schema)

	problem.TestCases = make([]domain.TestCase, 0)
	if err := r.db.SelectContext(ctx, &problem.TestCases, testCaseQuery, problemID); err != nil {
		r.logger.Error("Failed to get test cases", "problemId", problemID, "error", err)
		return nil, fmt.Errorf("failed to get test cases: %w", err)
	}

	return &problem, nil
}

// FindManyByIDs loads problem headers only; test cases are not needed for existence checks.
func (r *ProblemRepository) FindManyByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Problem, error) {
	if len(ids) == 0 {
		return []*domain.Problem{}, nil
	}

	raw := make(pq.StringArray, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := fmt.Sprintf(`SELECT id, title, points FROM %s.problems WHERE id = ANY($1::uuid[])`, r.schema)

	problems := make([]*domain.Problem, 0, len(ids))
	if err := r.db.SelectContext(ctx, &problems, query, raw); err != nil {
		r.logger.Error("Failed to find problems", "error", err)
		return nil, fmt.Errorf("failed to find problems: %w", err)
	}
	return problems, nil
}
