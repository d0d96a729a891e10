package model

import (
	"fmt"
	"strings"
	"time"
)

// Algorithm identifies a scheduling strategy.
type Algorithm string

const (
	AlgorithmGreedy       Algorithm = "greedy"
	AlgorithmBacktracking Algorithm = "backtracking"
)

func (a Algorithm) String() string { return string(a) }

// ParseAlgorithm converts a user supplied name into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "greedy", "g":
		return AlgorithmGreedy, nil
	case "backtracking", "bt", "b":
		return AlgorithmBacktracking, nil
	default:
		return "", fmt.Errorf("unknown algorithm %q", s)
	}
}

// HallUtilization is the busy share of one hall, in percent.
type HallUtilization struct {
	Hall    int     `json:"hall_index"`
	Percent float64 `json:"percent"`
}

// Result is an Allocation enriched with run metadata.
type Result struct {
	Allocation
	RunID       string            `json:"run_id"`
	Algorithm   Algorithm         `json:"algorithm"`
	Halls       int               `json:"halls"`
	Elapsed     time.Duration     `json:"elapsed_ns"`
	Utilization []HallUtilization `json:"utilization,omitempty"`
	// TimedOut is set when a backtracking search hit its budget before
	// exhausting the decision tree.
	TimedOut bool `json:"timed_out"`
	Nodes    int  `json:"nodes,omitempty"`
}

// ElapsedMS returns the run duration in fractional milliseconds.
func (r Result) ElapsedMS() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}
