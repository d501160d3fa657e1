package domain

import "github.com/google/uuid"

// TestCase is an input/expected-output pair attached to a problem.
type TestCase struct {
	ID             uuid.UUID `db:"id"`
	ProblemID      uuid.UUID `db:"problem_id"`
	Input          string    `db:"input"`
	ExpectedOutput string    `db:"expected_output"`
	IsHidden       bool      `db:"is_hidden"`
	Position       int       `db:"position"`
}
