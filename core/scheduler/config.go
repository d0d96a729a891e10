package scheduler

import (
	"fmt"
	"time"
)

// DefaultBudget is the backtracking time budget used when none is configured.
const DefaultBudget = 500 * time.Millisecond

// Config holds the defaults applied to a scheduling request.
type Config struct {
	DefaultHalls int `json:"default_halls" yaml:"default_halls"`
	// BudgetMS is nil when unset. An explicit zero is kept and makes
	// backtracking return its initial greedy solution.
	BudgetMS  *int `json:"budget_ms,omitempty" yaml:"budget_ms,omitempty"`
	Normalize bool `json:"normalize" yaml:"normalize"`
}

// Millis returns a pointer to ms, for filling BudgetMS in literals.
func Millis(ms int) *int { return &ms }

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.DefaultHalls == 0 {
		c.DefaultHalls = 2
	}
	if c.BudgetMS == nil {
		c.BudgetMS = Millis(int(DefaultBudget / time.Millisecond))
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.DefaultHalls < 1 {
		return fmt.Errorf("default_halls must be positive")
	}
	if c.BudgetMS != nil && *c.BudgetMS < 0 {
		return fmt.Errorf("budget_ms must not be negative")
	}
	return nil
}

// Budget returns BudgetMS as a duration, or DefaultBudget when unset.
func (c Config) Budget() time.Duration {
	if c.BudgetMS == nil {
		return DefaultBudget
	}
	return time.Duration(*c.BudgetMS) * time.Millisecond
}
