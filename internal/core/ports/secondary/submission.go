package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

// SubmissionFilter selects submissions. Zero fields are ignored.
type SubmissionFilter struct {
	UserID    *uuid.UUID
	ContestID *uuid.UUID
	ProblemID *uuid.UUID
	Limit     int
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error

	// FindMany returns matching submissions, newest first
	FindMany(ctx context.Context, filter SubmissionFilter) ([]*domain.Submission, error)

	// DeleteMany removes matching submissions and reports how many were deleted
	DeleteMany(ctx context.Context, filter SubmissionFilter) (int64, error)
}
