package app

import (
	"time"

	"github.com/kilianp07/hallsched/core/model"
)

// Comparison holds a greedy and a backtracking run over the same batch.
type Comparison struct {
	Greedy       model.Result `json:"greedy"`
	Backtracking model.Result `json:"backtracking"`
	// Gain is how many more events backtracking placed than greedy. It is
	// negative only when the search timed out early.
	Gain int `json:"gain"`
}

// Compare runs greedy then backtracking on the same input.
func (s *Service) Compare(events []model.Event, halls int, budget time.Duration) (Comparison, error) {
	g, err := s.Greedy(events, halls)
	if err != nil {
		return Comparison{}, err
	}
	b, err := s.Backtracking(events, halls, budget)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{Greedy: g, Backtracking: b, Gain: b.ScheduledCount - g.ScheduledCount}, nil
}
