package scheduler

import (
	"fmt"
	"math"

	"github.com/kilianp07/hallsched/core/model"
)

// Validate checks the events and hall count before any scheduler runs. It
// stops at the first violation in input order and returns a
// *ValidationError carrying a message suitable for display as is.
func Validate(events []model.Event, halls int) error {
	if halls < 1 {
		return &ValidationError{Message: "halls must be a positive integer"}
	}
	seen := make(map[string]struct{}, len(events))
	for _, e := range events {
		if e.ID == "" {
			return &ValidationError{Message: "each event must have an ID"}
		}
		if !isFinite(e.Start) || !isFinite(e.End) {
			return invalid(e.ID, "event %s must have numeric start/end", e.ID)
		}
		if e.Start < 0 {
			return invalid(e.ID, "event %s has negative start", e.ID)
		}
		if e.End <= e.Start {
			return invalid(e.ID, "event %s has end <= start", e.ID)
		}
		if _, dup := seen[e.ID]; dup {
			return invalid(e.ID, "event %s is defined more than once", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

func invalid(id, format string, args ...any) *ValidationError {
	return &ValidationError{EventID: id, Message: fmt.Sprintf(format, args...)}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
