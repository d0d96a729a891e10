package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/kilianp07/hallsched/core/generator"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `scheduler:
  default_halls: 3
  budget_ms: 250
  normalize: true
generator:
  count: 40
  from: 0
  to: 100
  min_len: 2
  max_len: 9
  seed: 11
metrics:
  sinks:
    - type: "nop"
logging:
  level: "debug"
server:
  address: ":9000"
  prometheus_address: ":9100"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"scheduler.default_halls", cfg.Scheduler.DefaultHalls, 3},
		{"scheduler.budget_ms", cfg.Scheduler.Budget(), 250 * time.Millisecond},
		{"scheduler.normalize", cfg.Scheduler.Normalize, true},
		{"generator.count", cfg.Generator.Count, 40},
		{"generator.to", cfg.Generator.To, 100},
		{"generator.min_len", cfg.Generator.MinLen, 2},
		{"generator.max_len", cfg.Generator.MaxLen, 9},
		{"generator.seed", cfg.Generator.Seed, int64(11)},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"server.address", cfg.Server.Address, ":9000"},
		{"server.prometheus_address", cfg.Server.PrometheusAddress, ":9100"},
		{"server.mode", cfg.Server.Mode, "release"},
		{"server.max_halls", cfg.Server.MaxHalls, DefaultMaxHalls},
		{"generator.max_count", cfg.Generator.MaxCount, generator.DefaultMaxCount},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"scheduler": {"default_halls": 4}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Scheduler.DefaultHalls != 4 || cfg.Scheduler.Budget() != 500*time.Millisecond {
		t.Fatalf("unexpected scheduler section: %+v", cfg.Scheduler)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", "scheduler:\n  budget_ms: 250\n")
	t.Setenv("HS_SCHEDULER__BUDGET_MS", "900")
	t.Setenv("HS_SERVER__ADDRESS", ":7000")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Scheduler.Budget() != 900*time.Millisecond {
		t.Errorf("budget = %s", cfg.Scheduler.Budget())
	}
	if cfg.Server.Address != ":7000" {
		t.Errorf("address = %s", cfg.Server.Address)
	}
}

func TestLoadZeroBudget(t *testing.T) {
	path := writeFile(t, "config.yaml", "scheduler:\n  budget_ms: 0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Scheduler.Budget() != 0 {
		t.Errorf("file budget = %s, want 0", cfg.Scheduler.Budget())
	}

	t.Setenv("HS_SCHEDULER__BUDGET_MS", "0")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Scheduler.Budget() != 0 {
		t.Errorf("env budget = %s, want 0", cfg.Scheduler.Budget())
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	want := Default()
	if !reflect.DeepEqual(cfg.Scheduler, want.Scheduler) || cfg.Generator != want.Generator || cfg.Server != want.Server {
		t.Fatalf("defaults mismatch: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"format":  writeFile(t, "config.toml", "x = 1\n"),
		"halls":   writeFile(t, "halls.yaml", "scheduler:\n  default_halls: -1\n"),
		"level":   writeFile(t, "level.yaml", "logging:\n  level: loud\n"),
		"mode":    writeFile(t, "mode.yaml", "server:\n  mode: turbo\n"),
		"cap":     writeFile(t, "cap.yaml", "server:\n  max_halls: -4\n"),
		"over":    writeFile(t, "over.yaml", "scheduler:\n  default_halls: 9\nserver:\n  max_halls: 8\n"),
		"count":   writeFile(t, "count.yaml", "generator:\n  count: 50\n  max_count: 20\n"),
		"missing": filepath.Join(t.TempDir(), "absent.yaml"),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
