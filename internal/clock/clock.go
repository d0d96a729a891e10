package clock

import (
	"sync"
	"time"
)

// Clock allows injecting time in the schedulers.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now. The returned instants carry a
// monotonic reading so differences between them are wall-clock safe.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always returns the same instant. A search
// driven by it never runs out of budget.
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// Stepping advances by a fixed step every time it is read.
type Stepping struct {
	mu    sync.Mutex
	now   time.Time
	step  time.Duration
	reads int
}

// NewStepping returns a clock starting at start that moves forward by step on
// each call to Now.
func NewStepping(start time.Time, step time.Duration) *Stepping {
	return &Stepping{now: start, step: step}
}

func (s *Stepping) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.now
	s.now = s.now.Add(s.step)
	s.reads++
	return t
}

// Reads returns how many times Now has been called.
func (s *Stepping) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}
