package scheduler

import (
	"math"

	"github.com/kilianp07/hallsched/core/model"
)

// Utilization returns the busy share of every hall in a. The time span is
// taken over all input events, scheduled or not, so results of different
// schedulers on the same input share a denominator.
func Utilization(a model.Allocation, all []model.Event) []model.HallUtilization {
	if len(a.Scheduled) == 0 {
		return []model.HallUtilization{}
	}
	minStart, maxEnd := math.Inf(1), math.Inf(-1)
	for _, e := range all {
		minStart = math.Min(minStart, e.Start)
		maxEnd = math.Max(maxEnd, e.End)
	}
	span := math.Max(1, maxEnd-minStart)

	out := make([]model.HallUtilization, len(a.Scheduled))
	for i, h := range a.Scheduled {
		pct := h.Busy() / span * 100
		out[i] = model.HallUtilization{Hall: h.Hall, Percent: math.Min(100, math.Max(0, pct))}
	}
	return out
}
