// Package config holds environment-driven operational tuning for the
// dialogs engine, read directly through caarlos0/env/v11 struct tags.
package config

import "github.com/caarlos0/env/v11"

// EngineConfig holds operational tuning not fixed by the engine itself:
// defensive limits and persistence retry behavior.
type EngineConfig struct {
	MaxMessageQueueSize              int `env:"DIALOGS_MAX_QUEUE_SIZE" envDefault:"256"`
	PersistenceRetryAttempts         int `env:"DIALOGS_PERSISTENCE_RETRY_ATTEMPTS" envDefault:"3"`
	PersistenceRetryInitialBackoffMs int `env:"DIALOGS_PERSISTENCE_RETRY_BACKOFF_MS" envDefault:"50"`
}

// Load parses EngineConfig from the process environment, applying the
// envDefault tags for anything unset.
func Load() (EngineConfig, error) {
	return env.ParseAs[EngineConfig]()
}
