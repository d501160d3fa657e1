package domain

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionStatusAccepted SubmissionStatus = "accepted"
	SubmissionStatusWrong    SubmissionStatus = "wrong"
	SubmissionStatusError    SubmissionStatus = "error"
	SubmissionStatusPending  SubmissionStatus = "pending"
)

// Submission is an evaluated attempt. It is never edited after creation.
type Submission struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	UserID          uuid.UUID        `json:"userId" db:"user_id"`
	ProblemID       uuid.UUID        `json:"problemId" db:"problem_id"`
	ContestID       *uuid.UUID       `json:"contestId,omitempty" db:"contest_id"`
	Code            string           `json:"code" db:"code"`
	Language        string           `json:"language" db:"language"`
	Status          SubmissionStatus `json:"status" db:"status"`
	RuntimeMs       int64            `json:"runtime" db:"runtime_ms"`
	MemoryKB        int64            `json:"memory" db:"memory_kb"`
	TestCasesPassed int              `json:"testCasesPassed" db:"test_cases_passed"`
	TestCasesTotal  int              `json:"testCasesTotal" db:"test_cases_total"`
	PointsAwarded   int              `json:"pointsAwarded" db:"points_awarded"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
}

// NewSubmission builds a submission from a judged execution.
func NewSubmission(userID, problemID uuid.UUID, contestID *uuid.UUID, code, language string, result *ExecutionResult, at time.Time) *Submission {
	return &Submission{
		ID:              uuid.New(),
		UserID:          userID,
		ProblemID:       problemID,
		ContestID:       contestID,
		Code:            code,
		Language:        language,
		Status:          result.SubmissionStatus(),
		RuntimeMs:       result.RuntimeMs(),
		MemoryKB:        result.PeakMemoryKB(),
		TestCasesPassed: result.Passed(),
		TestCasesTotal:  result.Total(),
		CreatedAt:       at,
	}
}

type SubmissionTable struct {
	ID              string
	UserID          string
	ProblemID       string
	ContestID       string
	Code            string
	Language        string
	Status          string
	RuntimeMs       string
	MemoryKB        string
	TestCasesPassed string
	TestCasesTotal  string
	PointsAwarded   string
	CreatedAt       string
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:              "id",
		UserID:          "user_id",
		ProblemID:       "problem_id",
		ContestID:       "contest_id",
		Code:            "code",
		Language:        "language",
		Status:          "status",
		RuntimeMs:       "runtime_ms",
		MemoryKB:        "memory_kb",
		TestCasesPassed: "test_cases_passed",
		TestCasesTotal:  "test_cases_total",
		PointsAwarded:   "points_awarded",
		CreatedAt:       "created_at",
	}
}

func (SubmissionTable) TableName() string {
	return "submissions"
}
