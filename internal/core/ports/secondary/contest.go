package secondary

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

// ContestSort is one of the supported list orderings.
type ContestSort string

const (
	SortStartTimeAsc  ContestSort = "start_time"
	SortStartTimeDesc ContestSort = "-start_time"
	SortCreatedAtAsc  ContestSort = "created_at"
	SortCreatedAtDesc ContestSort = "-created_at"
	SortNameAsc       ContestSort = "name"
)

// ContestFilter narrows ListContests. Status is evaluated against Now.
type ContestFilter struct {
	Status         *domain.ContestStatus
	Search         string
	Sort           ContestSort
	IncludePrivate bool
	Now            time.Time
	Limit          int
	Offset         int
}

type ContestRepository interface {
	// Create inserts a new contest with version 1
	Create(ctx context.Context, contest *domain.Contest) error

	// Get retrieves a contest by ID, nil when it does not exist
	Get(ctx context.Context, contestID uuid.UUID) (*domain.Contest, error)

	// Save rewrites the whole aggregate if its version is unchanged since it was read.
	// It returns errs.ErrVersionConflict otherwise and bumps contest.Version on success.
	Save(ctx context.Context, contest *domain.Contest) error

	// Delete removes a contest
	Delete(ctx context.Context, contestID uuid.UUID) error

	// List returns one page of contests and the total count matching the filter
	List(ctx context.Context, filter ContestFilter) ([]*domain.Contest, int, error)

	// ListStaleStatus returns contests whose stored display status differs from the derived one
	ListStaleStatus(ctx context.Context, now time.Time, limit int) ([]*domain.Contest, error)

	// UpdateStatus rewrites only the display status
	UpdateStatus(ctx context.Context, contestID uuid.UUID, status domain.ContestStatus) error
}

// ContestLocker serializes read-modify-write cycles on a single contest.
type ContestLocker interface {
	Lock(ctx context.Context, contestID uuid.UUID) (unlock func(), err error)
}
