package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/hallsched/core/model"
	"github.com/kilianp07/hallsched/internal/clock"
)

// frozen never advances, so searches driven by it always run to exhaustion.
func frozen() Option {
	return WithClock(clock.NewFixed(time.Unix(0, 0)))
}

func TestBacktrackingScenarios(t *testing.T) {
	a := Backtracking(scenarioA(), 1, time.Second, frozen())
	checkAllocation(t, scenarioA(), 1, a)
	assert.Equal(t, 2, a.ScheduledCount)
	assert.Equal(t, []string{"A", "C"}, hallIDs(a.Scheduled[0]))

	b := Backtracking(scenarioB(), 2, time.Second, frozen())
	checkAllocation(t, scenarioB(), 2, b)
	assert.Equal(t, 5, b.ScheduledCount)
	assert.Empty(t, b.Unscheduled)
}

func TestBacktrackingZeroBudget(t *testing.T) {
	in := randomEvents(rand.New(rand.NewSource(1)), 12, 30, 8)
	clk := clock.NewStepping(time.Unix(0, 0), time.Millisecond)
	a, stats := Search(in, 3, 0, WithClock(clk))

	checkAllocation(t, in, 3, a)
	assert.True(t, stats.TimedOut)
	assert.Equal(t, 1, stats.Nodes)
	assert.Equal(t, 0, a.ScheduledCount)
	assert.Len(t, a.Unscheduled, len(in))
	assert.Equal(t, 2, clk.Reads())
}

func TestBacktrackingZeroBudgetSystemClock(t *testing.T) {
	in := randomEvents(rand.New(rand.NewSource(2)), 40, 100, 10)
	done := make(chan model.Allocation, 1)
	go func() { done <- Backtracking(in, 4, 0) }()
	select {
	case a := <-done:
		checkAllocation(t, in, 4, a)
	case <-time.After(5 * time.Second):
		t.Fatal("search with zero budget did not return")
	}
}

func TestBacktrackingCutoffMidSearch(t *testing.T) {
	in := randomEvents(rand.New(rand.NewSource(3)), 16, 40, 10)
	_, full := Search(in, 2, time.Hour, frozen())
	require.Greater(t, full.Nodes, len(in)+1)

	// One clock read per node: the budget admits exactly the first
	// root-to-leaf path, which places events the way Greedy does.
	clk := clock.NewStepping(time.Unix(0, 0), time.Nanosecond)
	a, stats := Search(in, 2, time.Duration(len(in)+1), WithClock(clk))

	checkAllocation(t, in, 2, a)
	assert.True(t, stats.TimedOut)
	assert.Equal(t, Greedy(in, 2).Scheduled, a.Scheduled)
}

func TestBacktrackingExplorationOrder(t *testing.T) {
	// X is placed first; the leaf with one event becomes the incumbent and the
	// branch leaving X out is pruned by the count bound.
	in := []model.Event{ev("Y", 1, 3), ev("X", 0, 2)}
	a, stats := Search(in, 1, time.Second, frozen())

	require.Equal(t, 1, a.ScheduledCount)
	assert.Equal(t, []string{"X"}, hallIDs(a.Scheduled[0]))
	assert.Equal(t, []model.Event{ev("Y", 1, 3)}, a.Unscheduled)
	assert.Equal(t, SearchStats{Nodes: 4, Pruned: 1, Improvements: 1}, stats)
}

func TestBacktrackingOptimalWhenExhausted(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 60; i++ {
		in := randomEvents(r, 1+r.Intn(8), 15, 6)
		halls := 1 + r.Intn(3)
		a, stats := Search(in, halls, time.Hour, frozen())
		checkAllocation(t, in, halls, a)
		require.False(t, stats.TimedOut)
		require.Equal(t, bruteForceMax(in, halls), a.ScheduledCount, "instance %v halls %d", in, halls)
	}
}

func TestBacktrackingBeatsGreedy(t *testing.T) {
	in := []model.Event{ev("X", 0, 4), ev("Y", 3, 5), ev("Z", 2, 6), ev("W", 5, 8)}
	b := Backtracking(in, 2, time.Second, frozen())
	checkAllocation(t, in, 2, b)
	assert.Equal(t, bruteForceMax(in, 2), b.ScheduledCount)
	assert.GreaterOrEqual(t, b.ScheduledCount, Greedy(in, 2).ScheduledCount)
}

func TestBacktrackingDeterministic(t *testing.T) {
	in := randomEvents(rand.New(rand.NewSource(5)), 9, 20, 6)
	first := Backtracking(in, 2, time.Second, frozen())
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Backtracking(in, 2, time.Second, frozen()))
	}
}

func TestBacktrackingEmptyInput(t *testing.T) {
	a, stats := Search(nil, 2, time.Second, frozen())
	checkAllocation(t, nil, 2, a)
	assert.Equal(t, 0, a.ScheduledCount)
	assert.Equal(t, 1, stats.Nodes)
}

func TestWithNilClockKeepsDefault(t *testing.T) {
	a := Backtracking(scenarioA(), 1, time.Second, WithClock(nil))
	assert.Equal(t, 2, a.ScheduledCount)
}
