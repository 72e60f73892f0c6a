// Package config loads listen-mode settings from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Listen configures the live listening pipeline. Values come from
// TCGRAB_* environment variables with sensible capture defaults.
type Listen struct {
	SampleRate int  `envconfig:"SAMPLE_RATE" default:"48000"`
	BlockSize  int  `envconfig:"BLOCK_SIZE" default:"2048"`
	Permissive bool `envconfig:"PERMISSIVE" default:"false"`
}

// LoadListen reads and validates listen settings from the environment.
func LoadListen() (Listen, error) {
	var cfg Listen
	if err := envconfig.Process("tcgrab", &cfg); err != nil {
		return Listen{}, fmt.Errorf("config: %w", err)
	}
	if cfg.SampleRate <= 0 {
		return Listen{}, fmt.Errorf("config: sample rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.BlockSize <= 0 {
		return Listen{}, fmt.Errorf("config: block size must be positive, got %d", cfg.BlockSize)
	}
	return cfg, nil
}
