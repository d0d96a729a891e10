// Package generator produces random event batches for benchmarking and demos.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/kilianp07/hallsched/core/model"
)

// DefaultMaxCount caps Count when MaxCount is unset.
const DefaultMaxCount = 10000

// Config bounds the generated instances. Starts are drawn uniformly from
// [From, To] and lengths from [MinLen, MaxLen], both inclusive.
type Config struct {
	Count  int   `json:"count" yaml:"count"`
	From   int   `json:"from" yaml:"from"`
	To     int   `json:"to" yaml:"to"`
	MinLen int   `json:"min_len" yaml:"min_len"`
	MaxLen int   `json:"max_len" yaml:"max_len"`
	Seed   int64 `json:"seed" yaml:"seed"`
	// MaxCount is the largest Count accepted.
	MaxCount int `json:"max_count" yaml:"max_count"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Count == 0 {
		c.Count = 10
	}
	if c.To == 0 && c.From == 0 {
		c.To = 20
	}
	if c.MinLen == 0 {
		c.MinLen = 1
	}
	if c.MaxLen == 0 {
		c.MaxLen = 6
	}
	if c.MaxCount == 0 {
		c.MaxCount = DefaultMaxCount
	}
}

func (c Config) maxCount() int {
	if c.MaxCount == 0 {
		return DefaultMaxCount
	}
	return c.MaxCount
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("count must not be negative")
	}
	if c.MaxCount < 0 {
		return fmt.Errorf("max_count must not be negative")
	}
	if c.Count > c.maxCount() {
		return fmt.Errorf("count must not exceed %d", c.maxCount())
	}
	if c.From < 0 {
		return fmt.Errorf("from must not be negative")
	}
	if c.To < c.From {
		return fmt.Errorf("to < from")
	}
	if c.MinLen < 1 {
		return fmt.Errorf("min_len must be at least 1")
	}
	if c.MaxLen < c.MinLen {
		return fmt.Errorf("max_len < min_len")
	}
	// Covers both the start range width and the latest possible end.
	if c.To > math.MaxInt-c.MaxLen {
		return fmt.Errorf("to + max_len overflows")
	}
	return nil
}

// Generator draws event batches from a seeded source. It is not safe for
// concurrent use.
type Generator struct {
	cfg Config
	rnd *rand.Rand
}

// New returns a generator for cfg. A zero seed picks a time based one.
func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{cfg: cfg, rnd: rand.New(rand.NewSource(seed))}, nil
}

// Events returns Count events named R1..Rn.
func (g *Generator) Events() []model.Event {
	out := make([]model.Event, 0, g.cfg.Count)
	for i := 0; i < g.cfg.Count; i++ {
		start := g.cfg.From + g.rnd.Intn(g.cfg.To-g.cfg.From+1)
		length := g.cfg.MinLen + g.rnd.Intn(g.cfg.MaxLen-g.cfg.MinLen+1)
		out = append(out, model.Event{
			ID:    "R" + strconv.Itoa(i+1),
			Start: float64(start),
			End:   float64(start + length),
		})
	}
	return out
}
