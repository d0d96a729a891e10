package scheduler

import "github.com/kilianp07/hallsched/core/model"

// Complexity describes the theoretical cost of an algorithm.
type Complexity struct {
	Time  string `json:"time"`
	Space string `json:"space"`
}

var complexities = map[model.Algorithm]Complexity{
	model.AlgorithmGreedy: {
		Time:  "O(n log n) for sorting; assignment O(n·H)",
		Space: "O(n + H)",
	},
	model.AlgorithmBacktracking: {
		Time:  "exponential in the worst case, O((H+1)^n); bounded in practice by pruning and the time budget",
		Space: "O(n + H) recursion depth and assignment tracking",
	},
}

// ComplexityOf returns the complexity notes for alg.
func ComplexityOf(alg model.Algorithm) (Complexity, bool) {
	c, ok := complexities[alg]
	return c, ok
}
