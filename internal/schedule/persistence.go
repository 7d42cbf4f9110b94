package schedule

import (
	"context"
	"encoding/json"
	"log/slog"

	"nightshuttle.campusgo.org/internal/store"
)

// LoadConfig reads the persisted schedule configuration. An absent or
// unparseable record falls back to the organization default; persisted
// state is a local cache, never a source of truth worth failing over.
func LoadConfig(ctx context.Context, s store.Store, logger *slog.Logger) Config {
	raw, found, err := s.Get(ctx, store.KeyScheduleConfig)
	if err != nil {
		logger.Warn("failed to read schedule config, using default", "error", err)
		return Default()
	}
	if !found {
		return Default()
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		logger.Warn("corrupt schedule config, using default", "error", err)
		return Default()
	}
	if err := cfg.Normalize(); err != nil {
		logger.Warn("invalid schedule config, using default", "error", err)
		return Default()
	}
	return cfg
}

// SaveConfig normalizes and persists the configuration whole.
func SaveConfig(ctx context.Context, s store.Store, cfg *Config) error {
	if err := cfg.Normalize(); err != nil {
		return err
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.Set(ctx, store.KeyScheduleConfig, raw)
}
