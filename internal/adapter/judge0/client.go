// Package judge0 evaluates submissions on a Judge0-compatible execution service
// using its batch API.
package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"gitlab.com/fcv-2025.net/codearena/internal/config"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

var _ secondary.CodeExecutor = (*Client)(nil)

// Judge0 status ids.
const (
	statusInQueue           = 1
	statusProcessing        = 2
	statusAccepted          = 3
	statusWrongAnswer       = 4
	statusTimeLimitExceeded = 5
	statusCompilationError  = 6
	statusRuntimeFirst      = 7
	statusRuntimeLast       = 12
	statusInternalError     = 13
	statusExecFormatError   = 14
)

var errPending = errors.New("judge results pending")

type Client struct {
	baseURL         string
	apiKey          string
	httpClient      *http.Client
	timeout         time.Duration
	pollInterval    time.Duration
	maxPollInterval time.Duration
	logger          primary.Logger
}

func NewClient(cfg *config.JudgeConfig, logger primary.Logger) *Client {
	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:          cfg.APIKey,
		httpClient:      &http.Client{},
		timeout:         cfg.Timeout,
		pollInterval:    cfg.PollInterval,
		maxPollInterval: cfg.MaxPollInterval,
		logger:          logger,
	}
}

type batchSubmission struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type batchRequest struct {
	Submissions []batchSubmission `json:"submissions"`
}

type tokenReply struct {
	Token string `json:"token"`
}

type statusReply struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type submissionReply struct {
	Token  string       `json:"token"`
	Status *statusReply `json:"status"`
	Time   *string      `json:"time"`
	Memory *int64       `json:"memory"`
}

type batchReply struct {
	Submissions []submissionReply `json:"submissions"`
}

// Evaluate submits one run per test case and polls until every run finished
// or the configured timeout elapses.
func (c *Client) Evaluate(ctx context.Context, code string, languageID int, testCases []domain.TestCase) (*domain.ExecutionResult, error) {
	if len(testCases) == 0 {
		return &domain.ExecutionResult{TestCaseResults: []domain.TestCaseResult{}}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tokens, err := c.submitBatch(ctx, code, languageID, testCases)
	if err != nil {
		return nil, c.classify(ctx, err)
	}

	replies, err := c.pollBatch(ctx, tokens)
	if err != nil {
		return nil, c.classify(ctx, err)
	}

	results := make([]domain.TestCaseResult, len(testCases))
	for i, reply := range replies {
		verdict, err := verdictOf(reply.Status.ID)
		if err != nil {
			c.logger.Error("Judge reported failure", "token", reply.Token, "status", reply.Status.ID, "error", err)
			return nil, err
		}
		results[i] = domain.TestCaseResult{
			TestCaseID:      testCases[i].ID,
			Verdict:         verdict,
			ExecutionTimeMs: parseMillis(reply.Time),
		}
		if reply.Memory != nil {
			results[i].MemoryKB = *reply.Memory
		}
	}

	return &domain.ExecutionResult{TestCaseResults: results}, nil
}

// classify maps transport failures onto the upstream error kinds.
func (c *Client) classify(ctx context.Context, err error) error {
	if errs.KindOf(err) == errs.KindUpstream {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		c.logger.Warn("Judge timed out", "timeout", c.timeout)
		return fmt.Errorf("%w: %v", errs.ErrJudgeTimeout, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.logger.Error("Judge unavailable", "error", err)
	return fmt.Errorf("%w: %v", errs.ErrJudgeUnavailable, err)
}

func (c *Client) submitBatch(ctx context.Context, code string, languageID int, testCases []domain.TestCase) ([]string, error) {
	req := batchRequest{Submissions: make([]batchSubmission, len(testCases))}
	for i, tc := range testCases {
		req.Submissions[i] = batchSubmission{
			SourceCode:     code,
			LanguageID:     languageID,
			Stdin:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}

	var replies []tokenReply
	if err := c.do(ctx, http.MethodPost, "/submissions/batch?base64_encoded=false", bytes.NewReader(body), &replies); err != nil {
		return nil, err
	}

	if len(replies) != len(testCases) {
		return nil, fmt.Errorf("%w: expected %d tokens, got %d", errs.ErrJudgeMalformed, len(testCases), len(replies))
	}
	tokens := make([]string, len(replies))
	for i, r := range replies {
		if r.Token == "" {
			return nil, fmt.Errorf("%w: missing token at %d", errs.ErrJudgeMalformed, i)
		}
		tokens[i] = r.Token
	}
	return tokens, nil
}

func (c *Client) pollBatch(ctx context.Context, tokens []string) ([]submissionReply, error) {
	path := "/submissions/batch?" + url.Values{
		"tokens":         {strings.Join(tokens, ",")},
		"base64_encoded": {"false"},
		"fields":         {"token,status,time,memory"},
	}.Encode()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.pollInterval
	policy.MaxInterval = c.maxPollInterval
	policy.MaxElapsedTime = 0

	var final []submissionReply
	err := backoff.Retry(func() error {
		var reply batchReply
		if err := c.do(ctx, http.MethodGet, path, nil, &reply); err != nil {
			if errs.KindOf(err) == errs.KindUpstream {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(reply.Submissions) != len(tokens) {
			return backoff.Permanent(fmt.Errorf("%w: expected %d results, got %d", errs.ErrJudgeMalformed, len(tokens), len(reply.Submissions)))
		}
		for _, s := range reply.Submissions {
			if s.Status == nil {
				return backoff.Permanent(fmt.Errorf("%w: missing status", errs.ErrJudgeMalformed))
			}
			if s.Status.ID == statusInQueue || s.Status.ID == statusProcessing {
				return errPending
			}
		}
		final = reply.Submissions
		return nil
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return nil, err
	}
	return final, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build judge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Auth-Token", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("judge responded %d", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: judge responded %d: %s", errs.ErrJudgeUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrJudgeMalformed, err)
	}
	return nil
}

func verdictOf(statusID int) (domain.Verdict, error) {
	switch {
	case statusID == statusAccepted:
		return domain.VerdictMatched, nil
	case statusID == statusWrongAnswer:
		return domain.VerdictMismatched, nil
	case statusID == statusTimeLimitExceeded:
		return domain.VerdictTimeLimit, nil
	case statusID == statusCompilationError:
		return domain.VerdictCompileError, nil
	case statusID >= statusRuntimeFirst && statusID <= statusRuntimeLast:
		return domain.VerdictRuntimeError, nil
	case statusID == statusInternalError || statusID == statusExecFormatError:
		return "", fmt.Errorf("%w: judge status %d", errs.ErrJudgeUnavailable, statusID)
	default:
		return "", fmt.Errorf("%w: unknown judge status %d", errs.ErrJudgeMalformed, statusID)
	}
}

// parseMillis converts Judge0's seconds string ("0.012") to milliseconds.
func parseMillis(raw *string) int64 {
	if raw == nil || *raw == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return 0
	}
	return int64(seconds*1000 + 0.5)
}
