package scheduler

import (
	"math/rand"
	"sort"
	"strconv"
	"testing"

	"github.com/kilianp07/hallsched/core/model"
)

func ev(id string, start, end float64) model.Event {
	return model.Event{ID: id, Start: start, End: end}
}

func scenarioA() []model.Event {
	return []model.Event{ev("A", 1, 3), ev("B", 2, 5), ev("C", 4, 7)}
}

func scenarioB() []model.Event {
	return []model.Event{ev("A", 1, 3), ev("B", 2, 5), ev("C", 4, 7), ev("D", 6, 9), ev("E", 8, 10)}
}

// randomEvents builds n valid events with integer bounds inside [0, horizon).
func randomEvents(r *rand.Rand, n, horizon, maxLen int) []model.Event {
	out := make([]model.Event, n)
	for i := range out {
		s := r.Intn(horizon)
		l := 1 + r.Intn(maxLen)
		out[i] = model.Event{ID: "R" + strconv.Itoa(i+1), Start: float64(s), End: float64(s + l)}
	}
	return out
}

// checkAllocation fails the test when a breaks the partition or no-overlap
// invariants for the given input.
func checkAllocation(t *testing.T, input []model.Event, halls int, a model.Allocation) {
	t.Helper()
	if len(a.Scheduled) != halls {
		t.Fatalf("expected %d halls got %d", halls, len(a.Scheduled))
	}
	seen := make(map[string]int)
	count := 0
	for i, h := range a.Scheduled {
		if h.Hall != i {
			t.Fatalf("hall %d has ordinal %d", i, h.Hall)
		}
		for j, e := range h.Events {
			if e.Hall != h.Hall {
				t.Fatalf("event %s tagged hall %d in hall %d", e.ID, e.Hall, h.Hall)
			}
			if j > 0 && h.Events[j-1].Start > e.Start {
				t.Fatalf("hall %d not ordered by start", h.Hall)
			}
			for _, o := range h.Events[j+1:] {
				if model.Conflicts(e.Event, o.Event) {
					t.Fatalf("overlap in hall %d: %v and %v", h.Hall, e.Event, o.Event)
				}
			}
			seen[e.ID]++
			count++
		}
	}
	if count != a.ScheduledCount {
		t.Fatalf("scheduled count %d but %d events in halls", a.ScheduledCount, count)
	}
	for _, e := range a.Unscheduled {
		seen[e.ID]++
	}
	if len(seen) != len(input) {
		t.Fatalf("expected %d ids got %d", len(input), len(seen))
	}
	for _, e := range input {
		if seen[e.ID] != 1 {
			t.Fatalf("event %s appears %d times", e.ID, seen[e.ID])
		}
	}
}

// bruteForceMax returns the largest subset of events whose overlap depth
// never exceeds halls. Interval graphs are perfect, so such a subset can
// always be split across halls without conflicts.
func bruteForceMax(events []model.Event, halls int) int {
	best := 0
	n := len(events)
	for mask := 0; mask < 1<<n; mask++ {
		var subset []model.Event
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				subset = append(subset, events[i])
			}
		}
		if len(subset) > best && maxDepth(subset) <= halls {
			best = len(subset)
		}
	}
	return best
}

func maxDepth(events []model.Event) int {
	type point struct {
		at    float64
		delta int
	}
	pts := make([]point, 0, 2*len(events))
	for _, e := range events {
		pts = append(pts, point{e.Start, 1}, point{e.End, -1})
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].at != pts[j].at {
			return pts[i].at < pts[j].at
		}
		return pts[i].delta < pts[j].delta
	})
	depth, best := 0, 0
	for _, p := range pts {
		depth += p.delta
		if depth > best {
			best = depth
		}
	}
	return best
}

func TestByEarliestFinishStable(t *testing.T) {
	in := []model.Event{ev("x", 2, 5), ev("y", 1, 5), ev("z", 0, 3), ev("w", 1, 5)}
	got := byEarliestFinish(in)
	want := []string{"z", "y", "w", "x"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: want %s got %s", i, id, got[i].ID)
		}
	}
	if in[0].ID != "x" {
		t.Fatalf("input reordered")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	halls := newHalls(1)
	halls[0].Events = append(halls[0].Events, model.ScheduledEvent{Event: ev("a", 0, 1)})
	cp := snapshot(halls)
	halls[0].Events[0].ID = "changed"
	if cp[0].Events[0].ID != "a" {
		t.Fatalf("snapshot aliases live state")
	}
}

func TestNewHallsNegative(t *testing.T) {
	if len(newHalls(-3)) != 0 {
		t.Fatalf("expected no halls")
	}
}
