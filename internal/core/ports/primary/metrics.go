package primary

import "time"

// MetricsRecorder receives contest activity counters.
type MetricsRecorder interface {
	SubmissionJudged(status string)
	JudgeFailed()
	JudgeLatency(d time.Duration)
	Registered()
	LeaderboardRecomputed()
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) SubmissionJudged(string)    {}
func (NopMetrics) JudgeFailed()               {}
func (NopMetrics) JudgeLatency(time.Duration) {}
func (NopMetrics) Registered()                {}
func (NopMetrics) LeaderboardRecomputed()     {}
