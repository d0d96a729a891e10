package scheduler

import "github.com/kilianp07/hallsched/core/model"

// Greedy assigns events in earliest-finish order to the first hall, by
// ordinal, that can host them. The result is optimal for a single hall and a
// fast heuristic otherwise.
func Greedy(events []model.Event, halls int) model.Allocation {
	schedules := newHalls(halls)
	unscheduled := make([]model.Event, 0)
	for _, ev := range byEarliestFinish(events) {
		placed := false
		for h := range schedules {
			if !schedules[h].Accepts(ev) {
				continue
			}
			schedules[h].Events = append(schedules[h].Events, model.ScheduledEvent{Event: ev, Hall: h})
			placed = true
			break
		}
		if !placed {
			unscheduled = append(unscheduled, ev)
		}
	}
	return assemble(schedules, unscheduled)
}
