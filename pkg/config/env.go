package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds settings taken from the process environment.
type Env struct {
	LogLevel   string `env:"QPERF_LOG_LEVEL"   envDefault:"info"`
	LogFormat  string `env:"QPERF_LOG_FORMAT"  envDefault:"console"`
	NumWorkers int    `env:"QPERF_NUM_WORKERS" envDefault:"0"`
}

func LoadEnv() (Env, error) {
	cfg := Env{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return cfg, fmt.Errorf("failed to load configuration: unknown log format %q", cfg.LogFormat)
	}
	if cfg.NumWorkers < 0 {
		return cfg, fmt.Errorf("failed to load configuration: negative number of workers")
	}
	return cfg, nil
}
