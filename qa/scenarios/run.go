package scenarios

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/hallsched/app"
	"github.com/kilianp07/hallsched/core/generator"
	"github.com/kilianp07/hallsched/core/model"
	"github.com/kilianp07/hallsched/core/scheduler"
	"github.com/kilianp07/hallsched/infra/logger"
	"github.com/kilianp07/hallsched/infra/metrics"
)

//nolint:gocyclo
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	svc := app.New(scheduler.Config{}, app.WithLogger(logger.NopLogger{}), app.WithSink(sink))

	events := make([]model.Event, 0, len(sc.Events))
	for _, e := range sc.Events {
		events = append(events, e.ToModel())
	}
	if sc.Generate != nil {
		g, err := generator.New(generator.Config{
			Count: sc.Generate.Count, To: sc.Generate.To,
			MinLen: 1, MaxLen: sc.Generate.MaxLen, Seed: sc.Generate.Seed,
		})
		if err != nil {
			t.Fatalf("generator: %v", err)
		}
		events = append(events, g.Events()...)
	}

	alg, err := model.ParseAlgorithm(sc.Algorithm)
	if err != nil {
		t.Fatalf("algorithm: %v", err)
	}
	started := time.Now()
	var res model.Result
	if alg == model.AlgorithmGreedy {
		res, err = svc.Greedy(events, sc.Halls)
	} else {
		res, err = svc.Backtracking(events, sc.Halls, sc.budget())
	}
	wall := time.Since(started)

	if sc.Expected.Error != "" {
		if err == nil {
			t.Fatalf("expected error %q", sc.Expected.Error)
		}
		if !errors.Is(err, scheduler.ErrInvalidInput) || err.Error() != sc.Expected.Error {
			t.Fatalf("error = %v, want %q", err, sc.Expected.Error)
		}
		if err := testutil.GatherAndCompare(reg, strings.NewReader(validationFailure), "schedule_validation_failures_total"); err != nil {
			t.Fatalf("validation metric: %v", err)
		}
		if n := runCount(t, reg); n != 0 {
			t.Fatalf("scheduler ran %d times on invalid input", n)
		}
		return
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sc.Expected.ScheduledCount != nil && res.ScheduledCount != *sc.Expected.ScheduledCount {
		t.Errorf("scheduled %d, want %d", res.ScheduledCount, *sc.Expected.ScheduledCount)
	}
	if sc.Expected.Unscheduled != nil {
		got := make([]string, len(res.Unscheduled))
		for i, e := range res.Unscheduled {
			got[i] = e.ID
		}
		if len(got) != len(sc.Expected.Unscheduled) {
			t.Errorf("unscheduled %v, want %v", got, sc.Expected.Unscheduled)
		} else {
			for i := range got {
				if got[i] != sc.Expected.Unscheduled[i] {
					t.Errorf("unscheduled %v, want %v", got, sc.Expected.Unscheduled)
					break
				}
			}
		}
	}
	for id, hall := range sc.Expected.Halls {
		if h := res.HallOf(id); h != hall {
			t.Errorf("%s on hall %d, want %d", id, h, hall)
		}
	}
	if sc.Expected.MaxElapsedMS > 0 && wall > time.Duration(sc.Expected.MaxElapsedMS)*time.Millisecond {
		t.Errorf("took %v, limit %dms", wall, sc.Expected.MaxElapsedMS)
	}
	if res.ScheduledCount+len(res.Unscheduled) != len(events) {
		t.Errorf("partition broken: %d + %d != %d", res.ScheduledCount, len(res.Unscheduled), len(events))
	}
	for _, h := range res.Scheduled {
		for i := 1; i < len(h.Events); i++ {
			if model.Conflicts(h.Events[i-1].Event, h.Events[i].Event) {
				t.Errorf("hall %d overlaps: %s %s", h.Hall, h.Events[i-1].Event, h.Events[i].Event)
			}
		}
	}
	if n := runCount(t, reg); n != 1 {
		t.Errorf("recorded %d runs, want 1", n)
	}
}

const validationFailure = `
# HELP schedule_validation_failures_total Requests rejected by validation
# TYPE schedule_validation_failures_total counter
schedule_validation_failures_total 1
`

func runCount(t *testing.T, reg *prometheus.Registry) int {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	n := 0
	for _, mf := range mfs {
		if mf.GetName() != "schedule_runs_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			n += int(m.GetCounter().GetValue())
		}
	}
	return n
}
