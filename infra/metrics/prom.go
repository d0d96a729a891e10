package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/hallsched/core/metrics"
)

// PromSink records scheduling runs in Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	scheduled   *prometheus.CounterVec
	unscheduled *prometheus.CounterVec
	elapsed     *prometheus.HistogramVec
	nodes       prometheus.Histogram
	invalid     prometheus.Counter

	utilMu      sync.Mutex
	utilization *prometheus.GaugeVec
}

// NewPromSink registers scheduling metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_runs_total",
			Help: "Total number of scheduling runs",
		}, []string{"algorithm", "timed_out"}),
		scheduled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_events_scheduled_total",
			Help: "Events placed in a hall",
		}, []string{"algorithm"}),
		unscheduled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_events_unscheduled_total",
			Help: "Events left without a hall",
		}, []string{"algorithm"}),
		elapsed: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "schedule_run_duration_seconds",
			Help:    "Wall-clock duration of scheduling runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"algorithm"}),
		nodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "schedule_search_nodes",
			Help:    "Decision-tree nodes visited by backtracking searches",
			Buckets: prometheus.ExponentialBuckets(1, 10, 8),
		}),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "schedule_hall_utilization_percent",
			Help: "Busy share of each hall in the latest run",
		}, []string{"algorithm", "hall"}),
		invalid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_validation_failures_total",
			Help: "Requests rejected by validation",
		}),
	}
	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.scheduled, err = register(reg, s.scheduled); err != nil {
		return nil, err
	}
	if s.unscheduled, err = register(reg, s.unscheduled); err != nil {
		return nil, err
	}
	if s.elapsed, err = register(reg, s.elapsed); err != nil {
		return nil, err
	}
	if s.nodes, err = register(reg, s.nodes); err != nil {
		return nil, err
	}
	if s.utilization, err = register(reg, s.utilization); err != nil {
		return nil, err
	}
	if s.invalid, err = register(reg, s.invalid); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the collector already registered under the same
// descriptor when there is one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun updates counters and histograms for a finished run.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	alg := ev.Algorithm.String()
	s.runs.WithLabelValues(alg, strconv.FormatBool(ev.TimedOut)).Inc()
	s.scheduled.WithLabelValues(alg).Add(float64(ev.Scheduled))
	s.unscheduled.WithLabelValues(alg).Add(float64(ev.Unscheduled))
	s.elapsed.WithLabelValues(alg).Observe(ev.Elapsed.Seconds())
	if ev.Nodes > 0 {
		s.nodes.Observe(float64(ev.Nodes))
	}
	return nil
}

// RecordUtilization sets one gauge per hall.
func (s *PromSink) RecordUtilization(ev coremetrics.UtilizationEvent) error {
	alg := ev.Algorithm.String()
	s.utilMu.Lock()
	defer s.utilMu.Unlock()
	// Drop halls of the previous run so a smaller run leaves no stale series.
	s.utilization.DeletePartialMatch(prometheus.Labels{"algorithm": alg})
	for _, u := range ev.Utilization {
		s.utilization.WithLabelValues(alg, strconv.Itoa(u.Hall)).Set(u.Percent)
	}
	return nil
}

// RecordValidationFailure counts rejected requests.
func (s *PromSink) RecordValidationFailure(coremetrics.ValidationEvent) error {
	s.invalid.Inc()
	return nil
}
