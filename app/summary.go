package app

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/hallsched/core/model"
)

// UtilizationSummary aggregates per-hall utilization percentages.
type UtilizationSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes the unweighted statistics of u. The zero value is
// returned for an empty slice and StdDev is 0 for a single hall.
func Summarize(u []model.HallUtilization) UtilizationSummary {
	if len(u) == 0 {
		return UtilizationSummary{}
	}
	xs := make([]float64, len(u))
	for i, h := range u {
		xs[i] = h.Percent
	}
	sum := UtilizationSummary{
		Mean: stat.Mean(xs, nil),
		Min:  floats.Min(xs),
		Max:  floats.Max(xs),
	}
	if len(xs) > 1 {
		sum.StdDev = stat.StdDev(xs, nil)
	}
	return sum
}
