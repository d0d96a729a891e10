package scheduler

import (
	"sort"

	"github.com/kilianp07/hallsched/core/model"
)

// byEarliestFinish returns a copy of events ordered by end, then start.
// Equal keys keep their input order.
func byEarliestFinish(events []model.Event) []model.Event {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].End != sorted[j].End {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})
	return sorted
}

func newHalls(n int) []model.HallSchedule {
	if n < 0 {
		n = 0
	}
	halls := make([]model.HallSchedule, n)
	for i := range halls {
		halls[i] = model.HallSchedule{Hall: i, Events: []model.ScheduledEvent{}}
	}
	return halls
}

// snapshot deep-copies the per-hall event lists.
func snapshot(halls []model.HallSchedule) []model.HallSchedule {
	out := make([]model.HallSchedule, len(halls))
	for i, h := range halls {
		events := make([]model.ScheduledEvent, len(h.Events))
		copy(events, h.Events)
		out[i] = model.HallSchedule{Hall: h.Hall, Events: events}
	}
	return out
}

// assemble sorts each hall by start and counts the placed events.
func assemble(halls []model.HallSchedule, unscheduled []model.Event) model.Allocation {
	count := 0
	for i := range halls {
		evs := halls[i].Events
		sort.SliceStable(evs, func(a, b int) bool { return evs[a].Start < evs[b].Start })
		count += len(evs)
	}
	if unscheduled == nil {
		unscheduled = []model.Event{}
	}
	return model.Allocation{Scheduled: halls, Unscheduled: unscheduled, ScheduledCount: count}
}
