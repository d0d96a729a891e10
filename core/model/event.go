package model

import "fmt"

// Event is a caller supplied time interval. Start is inclusive and End is
// exclusive.
type Event struct {
	ID    string  `json:"id" yaml:"id"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Duration returns End - Start.
func (e Event) Duration() float64 { return e.End - e.Start }

func (e Event) String() string {
	return fmt.Sprintf("%s[%g,%g)", e.ID, e.Start, e.End)
}

// Conflicts reports whether a and b overlap under half-open semantics.
// Touching intervals such as [1,3) and [3,5) do not conflict.
func Conflicts(a, b Event) bool {
	return !(a.End <= b.Start || a.Start >= b.End)
}

// ScheduledEvent is an Event bound to a hall.
type ScheduledEvent struct {
	Event
	Hall int `json:"hall_index" yaml:"hall_index"`
}

// HallSchedule holds the events committed to one hall.
type HallSchedule struct {
	Hall   int              `json:"hall_index" yaml:"hall_index"`
	Events []ScheduledEvent `json:"events" yaml:"events"`
}

// Accepts returns true when ev does not conflict with any event already
// committed to the hall.
func (h HallSchedule) Accepts(ev Event) bool {
	for _, e := range h.Events {
		if Conflicts(e.Event, ev) {
			return false
		}
	}
	return true
}

// Busy returns the summed duration of the hall's events.
func (h HallSchedule) Busy() float64 {
	total := 0.0
	for _, e := range h.Events {
		total += e.Duration()
	}
	return total
}

// Allocation is the outcome of a scheduling call.
type Allocation struct {
	Scheduled      []HallSchedule `json:"scheduled"`
	Unscheduled    []Event        `json:"unscheduled"`
	ScheduledCount int            `json:"scheduled_count"`
}

// ScheduledIDs returns the ids of every scheduled event, hall by hall.
func (a Allocation) ScheduledIDs() []string {
	ids := make([]string, 0, a.ScheduledCount)
	for _, h := range a.Scheduled {
		for _, e := range h.Events {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// HallOf returns the hall hosting the event with the given id, or -1.
func (a Allocation) HallOf(id string) int {
	for _, h := range a.Scheduled {
		for _, e := range h.Events {
			if e.ID == id {
				return h.Hall
			}
		}
	}
	return -1
}
