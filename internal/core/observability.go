package core

import (
	"context"
	"time"
)

// MetricsRecorder receives the outcome of every service operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// GoalCountRecorder is implemented by recorders that also track the size of
// the checklist after each change.
type GoalCountRecorder interface {
	SetGoalCount(count int)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is ended exactly once with the operation error, if any.
type TraceSpan interface {
	End(err error)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

// MultiMetricsRecorder fans every observation out to several recorders.
type MultiMetricsRecorder []MetricsRecorder

// NewMultiMetricsRecorder drops nil recorders from recs.
func NewMultiMetricsRecorder(recs ...MetricsRecorder) MultiMetricsRecorder {
	out := make(MultiMetricsRecorder, 0, len(recs))
	for _, r := range recs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Observe forwards to every recorder.
func (m MultiMetricsRecorder) Observe(ctx context.Context, operation string, success bool, duration time.Duration) {
	for _, r := range m {
		r.Observe(ctx, operation, success, duration)
	}
}

// SetGoalCount forwards to every recorder that tracks the checklist size.
func (m MultiMetricsRecorder) SetGoalCount(count int) {
	for _, r := range m {
		if gc, ok := r.(GoalCountRecorder); ok {
			gc.SetGoalCount(count)
		}
	}
}
