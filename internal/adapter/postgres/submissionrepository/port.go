package submissionrepository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	querybuilder "gitlab.com/fcv-2025.net/codearena/internal/utils"
)

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

type SubmissionRepository struct {
	db     *sqlx.DB
	schema string
	logger primary.Logger
}

func NewSubmissionRepository(db *sqlx.DB, schema string, logger primary.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		schema: schema,
		logger: logger,
	}
}

func columns() []string {
	tbl := domain.GetSubmissionTable()
	return []string{
		tbl.ID, tbl.UserID, tbl.ProblemID, tbl.ContestID, tbl.Code, tbl.Language, tbl.Status,
		tbl.RuntimeMs, tbl.MemoryKB, tbl.TestCasesPassed, tbl.TestCasesTotal, tbl.PointsAwarded,
		tbl.CreatedAt,
	}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Insert(columns()...).
		Into(domain.GetSubmissionTable().TableName()).
		Values(
			s.ID, s.UserID, s.ProblemID, s.ContestID, s.Code, s.Language, s.Status,
			s.RuntimeMs, s.MemoryKB, s.TestCasesPassed, s.TestCasesTotal, s.PointsAwarded,
			s.CreatedAt,
		).
		Build()

	if _, err := r.db.ExecContext(ctx, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to create submission", "error", err)
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func applyFilter(qb querybuilder.QueryBuilder, filter secondary.SubmissionFilter) querybuilder.QueryBuilder {
	tbl := domain.GetSubmissionTable()
	if filter.UserID != nil {
		qb.Where(fmt.Sprintf("%s = ?", tbl.UserID), *filter.UserID)
	}
	if filter.ContestID != nil {
		qb.Where(fmt.Sprintf("%s = ?", tbl.ContestID), *filter.ContestID)
	}
	if filter.ProblemID != nil {
		qb.Where(fmt.Sprintf("%s = ?", tbl.ProblemID), *filter.ProblemID)
	}
	return qb
}

func (r *SubmissionRepository) FindMany(ctx context.Context, filter secondary.SubmissionFilter) ([]*domain.Submission, error) {
	tbl := domain.GetSubmissionTable()
	query, args := applyFilter(
		querybuilder.NewQueryBuilder(r.schema).Select(columns()...).From(tbl.TableName()),
		filter,
	).
		OrderBy(tbl.CreatedAt, false).
		Limit(filter.Limit).
		Build()

	submissions := make([]*domain.Submission, 0)
	if err := r.db.SelectContext(ctx, &submissions, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to find submissions", "error", err)
		return nil, fmt.Errorf("failed to find submissions: %w", err)
	}
	return submissions, nil
}

// DeleteMany refuses an empty filter rather than wiping the table.
func (r *SubmissionRepository) DeleteMany(ctx context.Context, filter secondary.SubmissionFilter) (int64, error) {
	query, args := applyFilter(
		querybuilder.NewQueryBuilder(r.schema).Delete(domain.GetSubmissionTable().TableName()),
		filter,
	).Build()
	if query == "" {
		return 0, fmt.Errorf("refusing to delete submissions without a filter")
	}

	result, err := r.db.ExecContext(ctx, sqlx.Rebind(sqlx.DOLLAR, query), args...)
	if err != nil {
		r.logger.Error("Failed to delete submissions", "error", err)
		return 0, fmt.Errorf("failed to delete submissions: %w", err)
	}
	return result.RowsAffected()
}
