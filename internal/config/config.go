package config

import (
	"context"
	"runtime"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full set of environment-derived settings (spec §6).
type Config struct {
	// DataPath is the directory the startup loader scans for
	// users_*.json, locations_*.json, and visits_*.json.
	DataPath string `env:"DATA_PATH, default=/root"`

	// Listen is the address the HTTP server binds.
	Listen string `env:"LISTEN, default=0.0.0.0:80"`

	// LogLevel controls the charmbracelet/log verbosity: debug, info,
	// warn, or error.
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// LoaderWorkers sizes the startup loader's worker pool (spec §5:
	// "thread pool of size = CPU count"). Overridable for testing on
	// constrained runners.
	LoaderWorkers int `env:"LOADER_WORKERS"`
}

// Load reads Config from the environment, defaulting LoaderWorkers to
// runtime.NumCPU() when unset.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}

	if cfg.LoaderWorkers <= 0 {
		cfg.LoaderWorkers = runtime.NumCPU()
	}

	return &cfg, nil
}
