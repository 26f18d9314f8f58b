package config

import "testing"

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxMessageQueueSize != 256 {
		t.Errorf("MaxMessageQueueSize = %d, want default 256", cfg.MaxMessageQueueSize)
	}
	if cfg.PersistenceRetryAttempts != 3 {
		t.Errorf("PersistenceRetryAttempts = %d, want default 3", cfg.PersistenceRetryAttempts)
	}
	if cfg.PersistenceRetryInitialBackoffMs != 50 {
		t.Errorf("PersistenceRetryInitialBackoffMs = %d, want default 50", cfg.PersistenceRetryInitialBackoffMs)
	}
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	t.Setenv("DIALOGS_MAX_QUEUE_SIZE", "512")
	t.Setenv("DIALOGS_PERSISTENCE_RETRY_ATTEMPTS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxMessageQueueSize != 512 {
		t.Errorf("MaxMessageQueueSize = %d, want 512", cfg.MaxMessageQueueSize)
	}
	if cfg.PersistenceRetryAttempts != 7 {
		t.Errorf("PersistenceRetryAttempts = %d, want 7", cfg.PersistenceRetryAttempts)
	}
}
