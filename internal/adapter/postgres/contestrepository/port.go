// Package contestrepository stores contest aggregates in PostgreSQL.
// Participants and the cached leaderboard live in JSONB columns so a whole
// contest is read and written as one row.
package contestrepository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
	querybuilder "gitlab.com/fcv-2025.net/codearena/internal/utils"
)

var _ secondary.ContestRepository = (*ContestRepository)(nil)

// ContestRepository implements the ContestRepository interface with PostgreSQL
type ContestRepository struct {
	db     *sqlx.DB
	schema string
	logger primary.Logger
}

// NewContestRepository creates a new PostgreSQL contest repository
func NewContestRepository(db *sqlx.DB, schema string, logger primary.Logger) *ContestRepository {
	return &ContestRepository{
		db:     db,
		schema: schema,
		logger: logger,
	}
}

type contestRow struct {
	ID               uuid.UUID      `db:"id"`
	Name             string         `db:"name"`
	Description      string         `db:"description"`
	StartTime        time.Time      `db:"start_time"`
	EndTime          time.Time      `db:"end_time"`
	Duration         int            `db:"duration"`
	MaxParticipants  int            `db:"max_participants"`
	IsPublic         bool           `db:"is_public"`
	RegistrationOpen bool           `db:"registration_open"`
	ProblemIDs       pq.StringArray `db:"problem_ids"`
	Participants     []byte         `db:"participants"`
	Leaderboard      []byte         `db:"leaderboard"`
	CreatedBy        uuid.UUID      `db:"created_by"`
	Status           string         `db:"status"`
	Version          int            `db:"version"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func columns() []string {
	tbl := domain.GetContestTable()
	return []string{
		tbl.ID, tbl.Name, tbl.Description, tbl.StartTime, tbl.EndTime, tbl.Duration,
		tbl.MaxParticipants, tbl.IsPublic, tbl.RegistrationOpen, tbl.ProblemIDs,
		tbl.Participants, tbl.Leaderboard, tbl.CreatedBy, tbl.Status, tbl.Version,
		tbl.CreatedAt, tbl.UpdatedAt,
	}
}

func (row *contestRow) toDomain() (*domain.Contest, error) {
	contest := &domain.Contest{
		ID:               row.ID,
		Name:             row.Name,
		Description:      row.Description,
		StartTime:        row.StartTime,
		EndTime:          row.EndTime,
		Duration:         row.Duration,
		MaxParticipants:  row.MaxParticipants,
		IsPublic:         row.IsPublic,
		RegistrationOpen: row.RegistrationOpen,
		ProblemIDs:       make([]uuid.UUID, 0, len(row.ProblemIDs)),
		Participants:     []*domain.Participant{},
		Leaderboard:      []domain.LeaderboardEntry{},
		CreatedBy:        row.CreatedBy,
		Status:           domain.ContestStatus(row.Status),
		Version:          row.Version,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	for _, raw := range row.ProblemIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid problem id %q: %w", raw, err)
		}
		contest.ProblemIDs = append(contest.ProblemIDs, id)
	}
	if len(row.Participants) > 0 {
		if err := json.Unmarshal(row.Participants, &contest.Participants); err != nil {
			return nil, fmt.Errorf("failed to unmarshal participants: %w", err)
		}
	}
	if len(row.Leaderboard) > 0 {
		if err := json.Unmarshal(row.Leaderboard, &contest.Leaderboard); err != nil {
			return nil, fmt.Errorf("failed to unmarshal leaderboard: %w", err)
		}
	}
	return contest, nil
}

func problemIDStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func marshalEmbedded(contest *domain.Contest) ([]byte, []byte, error) {
	participants := contest.Participants
	if participants == nil {
		participants = []*domain.Participant{}
	}
	leaderboard := contest.Leaderboard
	if leaderboard == nil {
		leaderboard = []domain.LeaderboardEntry{}
	}
	participantsJSON, err := json.Marshal(participants)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal participants: %w", err)
	}
	leaderboardJSON, err := json.Marshal(leaderboard)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal leaderboard: %w", err)
	}
	return participantsJSON, leaderboardJSON, nil
}

// Create inserts a contest with version 1
func (r *ContestRepository) Create(ctx context.Context, contest *domain.Contest) error {
	participantsJSON, leaderboardJSON, err := marshalEmbedded(contest)
	if err != nil {
		r.logger.Error("Failed to marshal contest", "error", err)
		return err
	}

	contest.Version = 1
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Insert(columns()...).
		Into(domain.GetContestTable().TableName()).
		Values(
			contest.ID, contest.Name, contest.Description, contest.StartTime, contest.EndTime,
			contest.Duration, contest.MaxParticipants, contest.IsPublic, contest.RegistrationOpen,
			problemIDStrings(contest.ProblemIDs), participantsJSON, leaderboardJSON,
			contest.CreatedBy, contest.Status, contest.Version, contest.CreatedAt, contest.UpdatedAt,
		).
		Build()

	if _, err := r.db.ExecContext(ctx, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to create contest", "error", err)
		return fmt.Errorf("failed to create contest: %w", err)
	}
	return nil
}

// Get retrieves a contest by ID
func (r *ContestRepository) Get(ctx context.Context, contestID uuid.UUID) (*domain.Contest, error) {
	tbl := domain.GetContestTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(columns()...).
		From(tbl.TableName()).
		Where(fmt.Sprintf("%s = ?", tbl.ID), contestID).
		Build()

	var row contestRow
	if err := r.db.GetContext(ctx, &row, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get contest", "error", err)
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}

	contest, err := row.toDomain()
	if err != nil {
		r.logger.Error("Failed to decode contest", "contestId", contestID, "error", err)
		return nil, err
	}
	return contest, nil
}

// Save rewrites every mutable column when the stored version still matches
func (r *ContestRepository) Save(ctx context.Context, contest *domain.Contest) error {
	participantsJSON, leaderboardJSON, err := marshalEmbedded(contest)
	if err != nil {
		r.logger.Error("Failed to marshal contest", "error", err)
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s.contests SET
			name = $1,
			description = $2,
			start_time = $3,
			end_time = $4,
			duration = $5,
			max_participants = $6,
			is_public = $7,
			registration_open = $8,
			problem_ids = $9,
			participants = $10,
			leaderboard = $11,
			status = $12,
			updated_at = $13,
			version = version + 1
		WHERE id = $14 AND version = $15
	`, r.schema)

	result, err := r.db.ExecContext(
		ctx,
		query,
		contest.Name,
		contest.Description,
		contest.StartTime,
		contest.EndTime,
		contest.Duration,
		contest.MaxParticipants,
		contest.IsPublic,
		contest.RegistrationOpen,
		problemIDStrings(contest.ProblemIDs),
		participantsJSON,
		leaderboardJSON,
		contest.Status,
		contest.UpdatedAt,
		contest.ID,
		contest.Version,
	)
	if err != nil {
		r.logger.Error("Failed to save contest", "error", err)
		return fmt.Errorf("failed to save contest: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to read affected rows", "error", err)
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return errs.ErrVersionConflict
	}

	contest.Version++
	return nil
}

// Delete removes a contest
func (r *ContestRepository) Delete(ctx context.Context, contestID uuid.UUID) error {
	tbl := domain.GetContestTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Delete(tbl.TableName()).
		Where(fmt.Sprintf("%s = ?", tbl.ID), contestID).
		Build()

	if _, err := r.db.ExecContext(ctx, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to delete contest", "error", err)
		return fmt.Errorf("failed to delete contest: %w", err)
	}
	return nil
}

func applyFilter(qb querybuilder.QueryBuilder, filter secondary.ContestFilter) querybuilder.QueryBuilder {
	tbl := domain.GetContestTable()

	if !filter.IncludePrivate {
		qb.Where(fmt.Sprintf("%s = ?", tbl.IsPublic), true)
	}

	if filter.Status != nil {
		switch *filter.Status {
		case domain.ContestStatusUpcoming:
			qb.Where(fmt.Sprintf("%s > ?", tbl.StartTime), filter.Now)
		case domain.ContestStatusLive:
			qb.Where(fmt.Sprintf("%s <= ?", tbl.StartTime), filter.Now).
				And(fmt.Sprintf("%s >= ?", tbl.EndTime), filter.Now)
		case domain.ContestStatusEnded:
			qb.Where(fmt.Sprintf("%s < ?", tbl.EndTime), filter.Now)
		}
	}

	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
		qb.AndGroup(func(g querybuilder.QueryBuilder) {
			g.Where(fmt.Sprintf(`%s ILIKE ? ESCAPE '\'`, tbl.Name), pattern).
				Or(fmt.Sprintf(`%s ILIKE ? ESCAPE '\'`, tbl.Description), pattern)
		})
	}
	return qb
}

// likeEscaper makes search text match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applySort(qb querybuilder.QueryBuilder, sort secondary.ContestSort) {
	tbl := domain.GetContestTable()
	switch sort {
	case secondary.SortStartTimeDesc:
		qb.OrderBy(tbl.StartTime, false)
	case secondary.SortCreatedAtAsc:
		qb.OrderBy(tbl.CreatedAt, true)
	case secondary.SortCreatedAtDesc:
		qb.OrderBy(tbl.CreatedAt, false)
	case secondary.SortNameAsc:
		qb.OrderBy(tbl.Name, true)
	default:
		qb.OrderBy(tbl.StartTime, true)
	}
	qb.OrderBy(tbl.ID, true)
}

// List returns one page of contests plus the total matching the filter
func (r *ContestRepository) List(ctx context.Context, filter secondary.ContestFilter) ([]*domain.Contest, int, error) {
	tbl := domain.GetContestTable()

	countQuery, countArgs := applyFilter(
		querybuilder.NewQueryBuilder(r.schema).Select("COUNT(*)").From(tbl.TableName()),
		filter,
	).Build()

	var total int
	if err := r.db.GetContext(ctx, &total, sqlx.Rebind(sqlx.DOLLAR, countQuery), countArgs...); err != nil {
		r.logger.Error("Failed to count contests", "error", err)
		return nil, 0, fmt.Errorf("failed to count contests: %w", err)
	}

	qb := applyFilter(querybuilder.NewQueryBuilder(r.schema).Select(columns()...).From(tbl.TableName()), filter)
	applySort(qb, filter.Sort)
	query, args := qb.Limit(filter.Limit).Offset(filter.Offset).Build()

	contests, err := r.selectContests(ctx, query, args)
	if err != nil {
		r.logger.Error("Failed to list contests", "error", err)
		return nil, 0, fmt.Errorf("failed to list contests: %w", err)
	}
	return contests, total, nil
}

// ListStaleStatus returns contests whose stored status no longer matches the clock
func (r *ContestRepository) ListStaleStatus(ctx context.Context, now time.Time, limit int) ([]*domain.Contest, error) {
	tbl := domain.GetContestTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(columns()...).
		From(tbl.TableName()).
		OrGroup(func(g querybuilder.QueryBuilder) {
			g.Where(fmt.Sprintf("%s <> ?", tbl.Status), domain.ContestStatusUpcoming).
				And(fmt.Sprintf("%s > ?", tbl.StartTime), now)
		}).
		OrGroup(func(g querybuilder.QueryBuilder) {
			g.Where(fmt.Sprintf("%s <> ?", tbl.Status), domain.ContestStatusLive).
				And(fmt.Sprintf("%s <= ?", tbl.StartTime), now).
				And(fmt.Sprintf("%s >= ?", tbl.EndTime), now)
		}).
		OrGroup(func(g querybuilder.QueryBuilder) {
			g.Where(fmt.Sprintf("%s <> ?", tbl.Status), domain.ContestStatusEnded).
				And(fmt.Sprintf("%s < ?", tbl.EndTime), now)
		}).
		OrderBy(tbl.StartTime, true).
		Limit(limit).
		Build()

	contests, err := r.selectContests(ctx, query, args)
	if err != nil {
		r.logger.Error("Failed to list stale contests", "error", err)
		return nil, fmt.Errorf("failed to list stale contests: %w", err)
	}
	return contests, nil
}

// UpdateStatus rewrites the display status without touching the version
func (r *ContestRepository) UpdateStatus(ctx context.Context, contestID uuid.UUID, status domain.ContestStatus) error {
	tbl := domain.GetContestTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Update(tbl.TableName(), querybuilder.UpdateData{tbl.Status: status}).
		Where(fmt.Sprintf("%s = ?", tbl.ID), contestID).
		Build()

	if _, err := r.db.ExecContext(ctx, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to update contest status", "error", err)
		return fmt.Errorf("failed to update contest status: %w", err)
	}
	return nil
}

func (r *ContestRepository) selectContests(ctx context.Context, query string, args []interface{}) ([]*domain.Contest, error) {
	var rows []contestRow
	if err := r.db.SelectContext(ctx, &rows, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, err
	}

	contests := make([]*domain.Contest, 0, len(rows))
	for i := range rows {
		contest, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		contests = append(contests, contest)
	}
	return contests, nil
}
