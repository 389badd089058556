package metrics

import "time"

// OutcomeLabel enumerates run outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess     OutcomeLabel = "success"
	OutcomeConfigError OutcomeLabel = "config_error"
	OutcomeInputError  OutcomeLabel = "input_error"
)

// Recorder defines observability hooks for renumbering runs. Implementations
// may forward to Prometheus or anything else.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome OutcomeLabel)
	AddChapters(n int)
	AddDecrements(rule string, n int) // rule: global|local
	AddUnderflows(rule string, n int)
	SetLocalTargets(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration) {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)       {}
func (NoopRecorder) AddChapters(int)                  {}
func (NoopRecorder) AddDecrements(string, int)        {}
func (NoopRecorder) AddUnderflows(string, int)        {}
func (NoopRecorder) SetLocalTargets(int)              {}
