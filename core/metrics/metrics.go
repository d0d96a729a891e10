package metrics

import (
	"time"

	"github.com/kilianp07/hallsched/core/model"
)

// RunEvent describes one completed scheduling call.
type RunEvent struct {
	RunID       string
	Algorithm   model.Algorithm
	Halls       int
	Events      int
	Scheduled   int
	Unscheduled int
	Elapsed     time.Duration
	TimedOut    bool
	Nodes       int
	Time        time.Time
}

// MetricsSink records scheduling runs for observability purposes.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// UtilizationEvent carries the per-hall utilization of a run.
type UtilizationEvent struct {
	RunID       string
	Algorithm   model.Algorithm
	Utilization []model.HallUtilization
	Time        time.Time
}

// UtilizationRecorder records per-hall utilization.
type UtilizationRecorder interface {
	RecordUtilization(ev UtilizationEvent) error
}

// ValidationEvent records a rejected request.
type ValidationEvent struct {
	Reason string
	Time   time.Time
}

// ValidationRecorder records validation failures.
type ValidationRecorder interface {
	RecordValidationFailure(ev ValidationEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error                      { return nil }
func (NopSink) RecordUtilization(UtilizationEvent) error      { return nil }
func (NopSink) RecordValidationFailure(ValidationEvent) error { return nil }
