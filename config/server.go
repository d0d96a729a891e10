package config

import "fmt"

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address string `json:"address"`
	// PrometheusAddress starts a dedicated metrics listener when set. The
	// API always serves /metrics on Address as well.
	PrometheusAddress string `json:"prometheus_address"`
	// Mode is the gin mode: debug, release or test.
	Mode string `json:"mode"`
	// MaxHalls is the largest hall count a request may ask for.
	MaxHalls int `json:"max_halls"`
}

// DefaultMaxHalls caps request hall counts when MaxHalls is unset.
const DefaultMaxHalls = 1024

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.Mode == "" {
		c.Mode = "release"
	}
	if c.MaxHalls == 0 {
		c.MaxHalls = DefaultMaxHalls
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("address is required")
	}
	switch c.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown mode %s", c.Mode)
	}
	if c.MaxHalls < 1 {
		return fmt.Errorf("max_halls must be positive")
	}
	return nil
}
