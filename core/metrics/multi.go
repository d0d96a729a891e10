package metrics

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the run to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordUtilization forwards utilization to sinks that support it.
func (m *MultiSink) RecordUtilization(ev UtilizationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(UtilizationRecorder); ok {
			if err := rec.RecordUtilization(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordValidationFailure forwards validation failures to sinks that support it.
func (m *MultiSink) RecordValidationFailure(ev ValidationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ValidationRecorder); ok {
			if err := rec.RecordValidationFailure(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
