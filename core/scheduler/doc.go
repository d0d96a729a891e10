// Package scheduler allocates time-interval events to a fixed number of
// interchangeable halls so that no two events in the same hall overlap.
//
// Two strategies are provided. Greedy applies the earliest-finish-time rule
// and is optimal for a single hall. Backtracking explores every placement
// within a time budget using branch-and-bound and returns the best
// allocation found. Validate must be called before either scheduler; the
// schedulers assume valid input and never fail.
package scheduler
