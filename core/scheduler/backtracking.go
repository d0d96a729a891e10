package scheduler

import (
	"time"

	"github.com/kilianp07/hallsched/core/model"
	"github.com/kilianp07/hallsched/internal/clock"
)

// Option customises a backtracking search.
type Option func(*options)

type options struct {
	clock clock.Clock
}

// WithClock sets the clock used to measure the search budget.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// SearchStats summarises a backtracking run.
type SearchStats struct {
	Nodes        int
	Pruned       int
	Improvements int
	// TimedOut is true when the budget expired before the tree was exhausted.
	TimedOut bool
}

// searchState is shared by every node of one search and by nothing else.
type searchState struct {
	events    []model.Event
	best      []model.HallSchedule
	bestCount int
	clock     clock.Clock
	started   time.Time
	budget    time.Duration
	stats     SearchStats
}

// Backtracking returns the best allocation found by Search.
func Backtracking(events []model.Event, halls int, budget time.Duration, opts ...Option) model.Allocation {
	a, _ := Search(events, halls, budget, opts...)
	return a
}

// Search runs a depth-first branch-and-bound search over every placement of
// events into halls. Events are visited in earliest-finish order; for each
// one the halls are tried by ordinal before leaving the event unscheduled.
// Once more than budget has elapsed the search unwinds and the best
// allocation reached so far is returned.
func Search(events []model.Event, halls int, budget time.Duration, opts ...Option) (model.Allocation, SearchStats) {
	o := options{clock: clock.NewSystem()}
	for _, opt := range opts {
		opt(&o)
	}
	st := &searchState{
		events: byEarliestFinish(events),
		best:   newHalls(halls),
		clock:  o.clock,
		budget: budget,
	}
	st.started = st.clock.Now()
	st.visit(0, newHalls(halls), 0)

	placed := make(map[string]struct{}, st.bestCount)
	for _, h := range st.best {
		for _, e := range h.Events {
			placed[e.ID] = struct{}{}
		}
	}
	unscheduled := make([]model.Event, 0, len(st.events)-st.bestCount)
	for _, e := range st.events {
		if _, ok := placed[e.ID]; !ok {
			unscheduled = append(unscheduled, e)
		}
	}
	return assemble(st.best, unscheduled), st.stats
}

func (s *searchState) expired() bool {
	if s.stats.TimedOut {
		return true
	}
	if s.clock.Now().Sub(s.started) > s.budget {
		s.stats.TimedOut = true
	}
	return s.stats.TimedOut
}

func (s *searchState) visit(idx int, halls []model.HallSchedule, placed int) {
	s.stats.Nodes++
	if s.expired() {
		return
	}
	n := len(s.events)
	if idx >= n {
		if placed > s.bestCount {
			s.best = snapshot(halls)
			s.bestCount = placed
			s.stats.Improvements++
		}
		return
	}
	// The bound ignores conflicts among the undecided events.
	if placed+(n-idx) <= s.bestCount {
		s.stats.Pruned++
		return
	}

	ev := s.events[idx]
	for h := range halls {
		if !halls[h].Accepts(ev) {
			continue
		}
		halls[h].Events = append(halls[h].Events, model.ScheduledEvent{Event: ev, Hall: h})
		s.visit(idx+1, halls, placed+1)
		halls[h].Events = halls[h].Events[:len(halls[h].Events)-1]
	}
	s.visit(idx+1, halls, placed)
}
