package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// simConfig holds simulator defaults; command flags override them.
type simConfig struct {
	Character  string `env:"ABILITYSIM_CHARACTER" envDefault:"character.yaml"`
	Strict     bool   `env:"ABILITYSIM_STRICT"`
	TraceLines int    `env:"ABILITYSIM_TRACE_LINES" envDefault:"0"`
	Verbose    bool   `env:"ABILITYSIM_VERBOSE"`
}

func loadConfig() (simConfig, error) {
	var cfg simConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
