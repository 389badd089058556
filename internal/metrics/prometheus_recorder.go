package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "mdbook_chapter_zero"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	runDuration  prom.Histogram
	runOutcome   *prom.CounterVec
	chapters     prom.Counter
	decrements   *prom.CounterVec
	underflows   *prom.CounterVec
	localTargets prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a preprocessor run, including decode and encode",
			Buckets:   prom.ExponentialBuckets(0.001, 4, 8),
		}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Preprocessor runs by outcome",
		}, []string{"outcome"}),
		chapters: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "chapters_visited_total",
			Help:      "Numbered chapters visited by the renumbering engine",
		}),
		decrements: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "decrements_total",
			Help:      "Section number positions decremented, by rule",
		}, []string{"rule"}),
		underflows: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "underflows_total",
			Help:      "Decrements skipped because the position was already zero, by rule",
		}, []string{"rule"}),
		localTargets: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "local_targets",
			Help:      "Chapters whose marker requested zero-indexed children in the last run",
		}),
	}
	reg.MustRegister(pr.runDuration, pr.runOutcome, pr.chapters, pr.decrements, pr.underflows, pr.localTargets)
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddChapters(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.chapters.Add(float64(n))
}

func (p *PrometheusRecorder) AddDecrements(rule string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.decrements.WithLabelValues(rule).Add(float64(n))
}

func (p *PrometheusRecorder) AddUnderflows(rule string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.underflows.WithLabelValues(rule).Add(float64(n))
}

func (p *PrometheusRecorder) SetLocalTargets(n int) {
	if p == nil {
		return
	}
	p.localTargets.Set(float64(n))
}
