package config

import (
	"os"
	"time"
)

type JudgeConfig struct {
	BaseURL string
	APIKey  string
	// Timeout bounds one whole evaluation: batch submit plus every poll.
	Timeout         time.Duration
	PollInterval    time.Duration
	MaxPollInterval time.Duration
}

func NewJudgeConfig() *JudgeConfig {
	return &JudgeConfig{
		BaseURL:         getEnv("JUDGE_BASE_URL", "http://localhost:2358"),
		APIKey:          os.Getenv("JUDGE_API_KEY"),
		Timeout:         getSecondsEnv("JUDGE_TIMEOUT_SEC", 30*time.Second),
		PollInterval:    getMillisEnv("JUDGE_POLL_INTERVAL_MS", 500*time.Millisecond),
		MaxPollInterval: getMillisEnv("JUDGE_MAX_POLL_INTERVAL_MS", 3*time.Second),
	}
}
