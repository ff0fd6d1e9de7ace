package telemetry

import (
	"fmt"
)

type LogConfig struct {
	// Backend is "slog" (the default) or "zap".
	Backend string `json:"backend"`
	// Format is only read by the zap backend: "console" or "json".
	Format  string `json:"format"`
	Verbose bool   `json:"verbose"`
}

// NewAPI builds the telemetry API selected by cfg. The returned function flushes buffered
// records and should be called before exiting.
func NewAPI(cfg LogConfig) (API, func(), error) {
	switch cfg.Backend {
	case "", "slog":
		InitSlog(cfg.Verbose)
		return SlogAPI{}, func() {}, nil
	case "zap":
		z, err := NewZapAPI(cfg.Format, cfg.Verbose)
		if err != nil {
			return nil, nil, err
		}
		return z, func() { z.Sync() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", cfg.Backend)
	}
}
