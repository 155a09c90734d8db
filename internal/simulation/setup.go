package simulation

import (
	"os"

	golog "github.com/tochemey/goakt/v3/log"
)

// Resolve returns the config a front end starts with: the file at path, or
// the defaults when path is empty, with seed overriding the configured seed
// unless it is 0.
func Resolve(path string, seed uint64) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	return cfg, nil
}

// NewLogger returns the debug logger on stdout when debug is set, the goakt
// default logger otherwise.
func NewLogger(debug bool) golog.Logger {
	if debug {
		return golog.New(golog.DebugLevel, os.Stdout)
	}
	return golog.DefaultLogger
}
