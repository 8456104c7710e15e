package pipeline

import "github.com/krishiq/krishiq/history"

// Config controls pipeline behaviour. The answer formats, default year
// windows, and guidance strings track the dataset and are not configurable.
type Config struct {
	Name string // logical name for tracing/logging
	TopK int    // how many chunks the retrieval fallback requests

	history history.Store // optional audit store for answered questions
}

// Option customises the pipeline configuration.
type Option func(*Config)

// WithName sets the logical pipeline name used in logs.
func WithName(name string) Option {
	return func(cfg *Config) {
		if name != "" {
			cfg.Name = name
		}
	}
}

// WithTopK overrides how many chunks the retrieval fallback requests from
// the searcher.
func WithTopK(k int) Option {
	return func(cfg *Config) {
		if k > 0 {
			cfg.TopK = k
		}
	}
}

// WithHistory attaches a store that receives one audit record per answered
// question. Saving is best effort: store failures are logged and never fail
// the query.
func WithHistory(store history.Store) Option {
	return func(cfg *Config) {
		if store != nil {
			cfg.history = store
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		Name: "krishiq",
		TopK: retrievalTopK,
	}
}

func applyOptions(cfg *Config, opts []Option) *Config {
	if cfg == nil {
		cfg = defaultConfig()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}
