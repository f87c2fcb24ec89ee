// Package settings wraps storage.SettingsRepository with the known-key
// default table, so callers always get a value back for a recognized key
// even before it has ever been explicitly set.
package settings

import (
	"context"

	"github.com/constellation/core/internal/storage"
)

// defaults is the known setting keys and their default values, grounded
// on SettingsDefaults in the original settings entity.
var defaults = map[string]string{
	"usn_auto_refresh":            "false",
	"usn_refresh_on_missing":      "true",
	"usn_cross_volume_match":      "true",
	"thumbnail_size":              "256",
	"thumbnail_force_shell_cache": "false",
	"thumbnail_cache_max_mb":      "500",
}

// Default returns the built-in default for key, and whether key is known.
func Default(key string) (string, bool) {
	v, ok := defaults[key]
	return v, ok
}

// Defaults returns a fresh copy of every known key's default value.
func Defaults() map[string]string {
	out := make(map[string]string, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}

// Service layers default-value fallback over the persisted settings
// store.
type Service struct {
	repo storage.SettingsRepository
}

// New returns a Service backed by repo.
func New(repo storage.SettingsRepository) *Service {
	return &Service{repo: repo}
}

// Get returns the stored value for key, falling back to its built-in
// default when nothing has been set. ok is false only when key has
// neither a stored value nor a known default.
func (s *Service) Get(ctx context.Context, key string) (string, bool, error) {
	stored, found, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if found {
		return stored, true, nil
	}
	if def, ok := defaults[key]; ok {
		return def, true, nil
	}
	return "", false, nil
}

// GetAll returns every known default merged with whatever has been
// explicitly stored, stored values taking precedence.
func (s *Service) GetAll(ctx context.Context) (map[string]string, error) {
	merged := Defaults()
	stored, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for k, v := range stored {
		merged[k] = v
	}
	return merged, nil
}

// Set stores value for key, overriding its default.
func (s *Service) Set(ctx context.Context, key, value string) error {
	return s.repo.Set(ctx, key, value)
}

// Reset removes any stored override for key, reverting it to its
// built-in default on the next Get/GetAll.
func (s *Service) Reset(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}
