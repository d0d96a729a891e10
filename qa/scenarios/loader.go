package scenarios

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/hallsched/core/model"
)

type EventDef struct {
	ID    string  `yaml:"id"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

func (e EventDef) ToModel() model.Event {
	return model.Event{ID: e.ID, Start: e.Start, End: e.End}
}

type Expected struct {
	// Error is the exact validation message. Empty means the batch is valid.
	Error          string         `yaml:"error,omitempty"`
	ScheduledCount *int           `yaml:"scheduled_count,omitempty"`
	Unscheduled    []string       `yaml:"unscheduled,omitempty"`
	Halls          map[string]int `yaml:"halls,omitempty"`
	MaxElapsedMS   int            `yaml:"max_elapsed_ms,omitempty"`
}

type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Algorithm   string     `yaml:"algorithm"`
	Halls       int        `yaml:"halls"`
	BudgetMS    *int       `yaml:"budget_ms,omitempty"`
	Events      []EventDef `yaml:"events"`
	// Generate appends random events R1..Rn drawn with the given seed.
	Generate *GenerateDef `yaml:"generate,omitempty"`
	Expected Expected     `yaml:"expected"`
}

type GenerateDef struct {
	Count  int   `yaml:"count"`
	To     int   `yaml:"to"`
	MaxLen int   `yaml:"max_len"`
	Seed   int64 `yaml:"seed"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) budget() time.Duration {
	if sc.BudgetMS == nil {
		return 500 * time.Millisecond
	}
	return time.Duration(*sc.BudgetMS) * time.Millisecond
}
