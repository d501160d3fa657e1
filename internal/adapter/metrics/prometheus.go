// Package metrics exposes contest activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
)

const namespace = "codearena"

var _ primary.MetricsRecorder = (*Recorder)(nil)

type Recorder struct {
	registry              *prometheus.Registry
	submissions           *prometheus.CounterVec
	judgeFailures         prometheus.Counter
	judgeLatency          prometheus.Histogram
	registrations         prometheus.Counter
	leaderboardRecomputes prometheus.Counter
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_judged_total",
			Help:      "Judged contest submissions by resulting status.",
		}, []string{"status"}),
		judgeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "judge_failures_total",
			Help:      "Evaluations that failed because the execution service errored or timed out.",
		}),
		judgeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "judge_duration_seconds",
			Help:      "Time spent waiting for the execution service.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Successful contest registrations.",
		}),
		leaderboardRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboard_recomputes_total",
			Help:      "Leaderboard recomputations.",
		}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.submissions,
		r.judgeFailures,
		r.judgeLatency,
		r.registrations,
		r.leaderboardRecomputes,
	)
	return r
}

func (r *Recorder) SubmissionJudged(status string) {
	r.submissions.WithLabelValues(status).Inc()
}

func (r *Recorder) JudgeFailed() {
	r.judgeFailures.Inc()
}

func (r *Recorder) JudgeLatency(d time.Duration) {
	r.judgeLatency.Observe(d.Seconds())
}

func (r *Recorder) Registered() {
	r.registrations.Inc()
}

func (r *Recorder) LeaderboardRecomputed() {
	r.leaderboardRecomputes.Inc()
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
