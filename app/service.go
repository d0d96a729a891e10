package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/hallsched/config"
	coremetrics "github.com/kilianp07/hallsched/core/metrics"
	"github.com/kilianp07/hallsched/core/model"
	"github.com/kilianp07/hallsched/core/scheduler"
	"github.com/kilianp07/hallsched/infra/logger"
	_ "github.com/kilianp07/hallsched/infra/metrics" // registers builtin sinks
	"github.com/kilianp07/hallsched/internal/clock"
)

// Service wraps the scheduling algorithms with timing, utilization,
// logging and metrics.
type Service struct {
	cfg   scheduler.Config
	log   logger.Logger
	sink  coremetrics.MetricsSink
	clock clock.Clock
	newID func() string
}

// Option customises a Service.
type Option func(*Service)

// WithLogger replaces the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSink sets the metrics sink receiving run records.
func WithSink(sink coremetrics.MetricsSink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithClock sets the clock used for elapsed times and for the search budget.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDs sets the run id generator.
func WithIDs(f func() string) Option {
	return func(s *Service) {
		if f != nil {
			s.newID = f
		}
	}
}

// New creates a Service. Unset scheduler fields are defaulted.
func New(cfg scheduler.Config, opts ...Option) *Service {
	cfg.SetDefaults()
	s := &Service{
		cfg:   cfg,
		log:   logger.New("service"),
		sink:  coremetrics.NopSink{},
		clock: clock.NewSystem(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig builds a Service and its metrics sinks from the application configuration.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Service, error) {
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	return New(cfg.Scheduler, append([]Option{WithSink(sink)}, opts...)...), nil
}

// Config returns the scheduler defaults in use.
func (s *Service) Config() scheduler.Config { return s.cfg }

// Validate checks events and halls and records rejections.
func (s *Service) Validate(events []model.Event, halls int) error {
	err := scheduler.Validate(events, halls)
	if err == nil {
		return nil
	}
	var verr *scheduler.ValidationError
	if errors.As(err, &verr) {
		s.log.Warnf("rejected batch: %s", verr.Message)
		if rec, ok := s.sink.(coremetrics.ValidationRecorder); ok {
			if rerr := rec.RecordValidationFailure(coremetrics.ValidationEvent{Reason: verr.Message, Time: s.clock.Now()}); rerr != nil {
				s.log.Errorf("record validation failure: %v", rerr)
			}
		}
	}
	return err
}

// Normalize cleans events the way scheduler.Normalize does.
func (s *Service) Normalize(events []model.Event) []model.Event {
	return scheduler.Normalize(events)
}

// prepare normalizes when configured, then validates.
func (s *Service) prepare(events []model.Event, halls int) ([]model.Event, error) {
	if s.cfg.Normalize {
		events = scheduler.Normalize(events)
	}
	if err := s.Validate(events, halls); err != nil {
		return nil, err
	}
	return events, nil
}

// Schedule runs alg with the configured budget.
func (s *Service) Schedule(alg model.Algorithm, events []model.Event, halls int) (model.Result, error) {
	switch alg {
	case model.AlgorithmGreedy:
		return s.Greedy(events, halls)
	case model.AlgorithmBacktracking:
		return s.Backtracking(events, halls, s.cfg.Budget())
	default:
		return model.Result{}, fmt.Errorf("unknown algorithm %q", alg)
	}
}

// Greedy runs the earliest-finish heuristic and times it.
func (s *Service) Greedy(events []model.Event, halls int) (model.Result, error) {
	events, err := s.prepare(events, halls)
	if err != nil {
		return model.Result{}, err
	}
	start := s.clock.Now()
	a := scheduler.Greedy(events, halls)
	res := s.finish(model.AlgorithmGreedy, a, events, halls, s.clock.Now().Sub(start))
	s.record(res, len(events))
	return res, nil
}

// Backtracking runs the branch-and-bound search within budget and times it.
func (s *Service) Backtracking(events []model.Event, halls int, budget time.Duration) (model.Result, error) {
	events, err := s.prepare(events, halls)
	if err != nil {
		return model.Result{}, err
	}
	start := s.clock.Now()
	a, stats := scheduler.Search(events, halls, budget, scheduler.WithClock(s.clock))
	res := s.finish(model.AlgorithmBacktracking, a, events, halls, s.clock.Now().Sub(start))
	res.TimedOut = stats.TimedOut
	res.Nodes = stats.Nodes
	s.log.Debugw("search stats", map[string]any{
		"run_id":       res.RunID,
		"nodes":        stats.Nodes,
		"pruned":       stats.Pruned,
		"improvements": stats.Improvements,
	})
	s.record(res, len(events))
	return res, nil
}

func (s *Service) finish(alg model.Algorithm, a model.Allocation, events []model.Event, halls int, elapsed time.Duration) model.Result {
	res := model.Result{
		Allocation:  a,
		RunID:       s.newID(),
		Algorithm:   alg,
		Halls:       halls,
		Elapsed:     elapsed,
		Utilization: scheduler.Utilization(a, events),
	}
	return res
}

// record logs the run and forwards it to the metrics sink.
func (s *Service) record(res model.Result, n int) {
	s.log.Infow("schedule run", map[string]any{
		"run_id":      res.RunID,
		"algorithm":   res.Algorithm.String(),
		"halls":       res.Halls,
		"events":      n,
		"scheduled":   res.ScheduledCount,
		"unscheduled": len(res.Unscheduled),
		"elapsed_ms":  res.ElapsedMS(),
		"timed_out":   res.TimedOut,
	})
	now := s.clock.Now()
	if err := s.sink.RecordRun(coremetrics.RunEvent{
		RunID:       res.RunID,
		Algorithm:   res.Algorithm,
		Halls:       res.Halls,
		Events:      n,
		Scheduled:   res.ScheduledCount,
		Unscheduled: len(res.Unscheduled),
		Elapsed:     res.Elapsed,
		TimedOut:    res.TimedOut,
		Nodes:       res.Nodes,
		Time:        now,
	}); err != nil {
		s.log.Errorf("record run: %v", err)
	}
	if rec, ok := s.sink.(coremetrics.UtilizationRecorder); ok {
		if err := rec.RecordUtilization(coremetrics.UtilizationEvent{
			RunID:       res.RunID,
			Algorithm:   res.Algorithm,
			Utilization: res.Utilization,
			Time:        now,
		}); err != nil {
			s.log.Errorf("record utilization: %v", err)
		}
	}
}
