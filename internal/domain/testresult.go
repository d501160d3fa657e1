package domain

import "github.com/google/uuid"

// Verdict is the outcome of running one test case.
type Verdict string

const (
	VerdictMatched      Verdict = "MATCHED"
	VerdictMismatched   Verdict = "MISMATCHED"
	VerdictTimeLimit    Verdict = "TIME_LIMIT"
	VerdictCompileError Verdict = "COMPILE_ERROR"
	VerdictRuntimeError Verdict = "RUNTIME_ERROR"
)

// TestCaseResult represents the result of a single test case execution
type TestCaseResult struct {
	TestCaseID      uuid.UUID
	Verdict         Verdict
	ExecutionTimeMs int64
	MemoryKB        int64
}

func (r TestCaseResult) Passed() bool {
	return r.Verdict == VerdictMatched
}

// ExecutionResult represents the result of code execution against test cases
type ExecutionResult struct {
	TestCaseResults []TestCaseResult
}

func (e *ExecutionResult) Total() int {
	return len(e.TestCaseResults)
}

func (e *ExecutionResult) Passed() int {
	n := 0
	for _, r := range e.TestCaseResults {
		if r.Passed() {
			n++
		}
	}
	return n
}

func (e *ExecutionResult) Accepted() bool {
	return e.Total() > 0 && e.Passed() == e.Total()
}

// RuntimeMs sums execution time over all tests.
func (e *ExecutionResult) RuntimeMs() int64 {
	var sum int64
	for _, r := range e.TestCaseResults {
		sum += r.ExecutionTimeMs
	}
	return sum
}

// PeakMemoryKB is the largest memory reading, 0 when the judge reported none.
func (e *ExecutionResult) PeakMemoryKB() int64 {
	var peak int64
	for _, r := range e.TestCaseResults {
		if r.MemoryKB > peak {
			peak = r.MemoryKB
		}
	}
	return peak
}

// SubmissionStatus folds per-test verdicts into a submission status. Compile and
// runtime failures are reported as error, everything else that did not pass as wrong.
func (e *ExecutionResult) SubmissionStatus() SubmissionStatus {
	if e.Accepted() {
		return SubmissionStatusAccepted
	}
	for _, r := range e.TestCaseResults {
		if r.Verdict == VerdictCompileError || r.Verdict == VerdictRuntimeError {
			return SubmissionStatusError
		}
	}
	return SubmissionStatusWrong
}
