package contest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

// IContestService is the contest lifecycle and scoring core.
type IContestService interface {
	// CreateContest validates and stores a new upcoming contest
	CreateContest(ctx context.Context, actor domain.Actor, in CreateContestInput) (*domain.Contest, error)

	// ListContests returns one page of contests with freshly derived status
	ListContests(ctx context.Context, actor domain.Actor, in ListContestsInput) (*ContestPage, error)

	// GetContest returns a contest with its derived status, time remaining and the caller's standing
	GetContest(ctx context.Context, actor domain.Actor, contestID uuid.UUID) (*ContestDetail, error)

	// UpdateContest applies a partial update
	UpdateContest(ctx context.Context, actor domain.Actor, contestID uuid.UUID, in UpdateContestInput) (*domain.Contest, error)

	// DeleteContest removes a contest and its submissions
	DeleteContest(ctx context.Context, actor domain.Actor, contestID uuid.UUID) error

	// Register adds the caller as a participant
	Register(ctx context.Context, actor domain.Actor, contestID uuid.UUID) (*domain.Participant, error)

	// Submit judges code against the problem's hidden tests and scores an accepted solve
	Submit(ctx context.Context, actor domain.Actor, in SubmitInput) (*SubmitResult, error)

	// GetLeaderboard returns the ranked participants and the caller's own standing
	GetLeaderboard(ctx context.Context, actor domain.Actor, contestID uuid.UUID) (*LeaderboardView, error)

	// RecomputeLeaderboard rebuilds and persists the cached leaderboard
	RecomputeLeaderboard(ctx context.Context, contestID uuid.UUID) (*domain.Contest, error)

	// ListUserContestSubmissions returns the caller's submissions in a contest, newest first
	ListUserContestSubmissions(ctx context.Context, actor domain.Actor, contestID uuid.UUID) ([]*domain.Submission, error)
}

type CreateContestInput struct {
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	StartTime        time.Time   `json:"startTime"`
	EndTime          time.Time   `json:"endTime"`
	Duration         int         `json:"duration"`
	ProblemIDs       []uuid.UUID `json:"problems"`
	MaxParticipants  *int        `json:"maxParticipants"`
	IsPublic         *bool       `json:"isPublic"`
	RegistrationOpen *bool       `json:"registrationOpen"`
}

// UpdateContestInput is a partial update; nil fields are left unchanged.
type UpdateContestInput struct {
	Name             *string      `json:"name"`
	Description      *string      `json:"description"`
	StartTime        *time.Time   `json:"startTime"`
	EndTime          *time.Time   `json:"endTime"`
	ProblemIDs       *[]uuid.UUID `json:"problems"`
	MaxParticipants  *int         `json:"maxParticipants"`
	IsPublic         *bool        `json:"isPublic"`
	RegistrationOpen *bool        `json:"registrationOpen"`
}

type ListContestsInput struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Status string `json:"status"`
	Search string `json:"search"`
	Sort   string `json:"sort"`
}

type ContestPage struct {
	Contests   []*domain.Contest `json:"contests"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

type ContestDetail struct {
	Contest *domain.Contest `json:"contest"`
	// TimeRemaining is in seconds.
	TimeRemaining   int64               `json:"timeRemaining"`
	IsRegistered    bool                `json:"isRegistered"`
	MyParticipation *domain.Participant `json:"myParticipation,omitempty"`
}

type SubmitInput struct {
	ContestID uuid.UUID `json:"-"`
	ProblemID uuid.UUID `json:"-"`
	Code      string    `json:"code"`
	Language  string    `json:"language"`
}

type SubmitResult struct {
	Submission      *domain.Submission `json:"submission"`
	Accepted        bool               `json:"accepted"`
	PointsAwarded   int                `json:"pointsAwarded"`
	TestCasesPassed int                `json:"testCasesPassed"`
	TestCasesTotal  int                `json:"testCasesTotal"`
	Runtime         int64              `json:"runtime"`
	// Score is the participant's total after this submission.
	Score int `json:"score"`
}

type LeaderboardView struct {
	ContestID         uuid.UUID                 `json:"contestId"`
	Status            domain.ContestStatus      `json:"status"`
	Leaderboard       []domain.LeaderboardEntry `json:"leaderboard"`
	TotalParticipants int                       `json:"totalParticipants"`
	MyRank            *int                      `json:"myRank"`
	MyScore           *int                      `json:"myScore"`
}
