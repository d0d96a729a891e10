package scheduler

import (
	"math"
	"sort"

	"github.com/kilianp07/hallsched/core/model"
)

// Normalize floors start and end to whole units, drops events with an empty
// id, a non-positive duration or a negative start, and sorts the rest by
// (start, end). The input slice is left untouched.
func Normalize(events []model.Event) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		n := model.Event{ID: e.ID, Start: math.Floor(e.Start), End: math.Floor(e.End)}
		if n.ID == "" || !(n.End > n.Start) || n.Start < 0 {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}
