package secondary

import (
	"context"

	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

type CodeExecutor interface {
	// Evaluate runs code once per test case and returns one verdict per test, in order.
	// Outages, timeouts and malformed replies are returned as errors, never as verdicts.
	Evaluate(ctx context.Context, code string, languageID int, testCases []domain.TestCase) (*domain.ExecutionResult, error)
}
