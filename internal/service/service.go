// Package service wires storage, search, settings, USN refresh, and
// thumbnail generation into one plain struct of references — the single
// composition point consumed by cmd/constellation. Grounded on
// internal/beads/beads.go's public-API factory pattern: a thin
// constructor over the storage layer, not a DI container.
package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/constellation/core/internal/domain"
	"github.com/constellation/core/internal/search"
	"github.com/constellation/core/internal/settings"
	"github.com/constellation/core/internal/storage"
	"github.com/constellation/core/internal/storage/sqlite"
	"github.com/constellation/core/internal/thumbnail"
	"github.com/constellation/core/internal/usn"
)

// DatabaseFileName is the canonical SQLite file name within the
// application's per-user data directory.
const DatabaseFileName = "constellation.db"

// Services aggregates every subsystem the command surface dispatches to.
type Services struct {
	Store     storage.Store
	Search    *search.Service
	Settings  *settings.Service
	USN       *usn.Engine
	Thumbnail *thumbnail.Service

	log *slog.Logger
}

// AppDataDir returns the per-user application data directory, creating
// it if necessary. The corpus carries no third-party app-data-path
// library; os.UserConfigDir is the standard-library equivalent and is
// used directly (see DESIGN.md).
func AppDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", domain.Wrap(domain.DatabaseError, err, "resolve app data directory")
	}
	dir := filepath.Join(base, "Constellation")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", domain.Wrap(domain.DatabaseError, err, "create app data directory %q", dir)
	}
	return dir, nil
}

// Open wires a full Services graph backed by a SQLite store at
// {appDataDir}/constellation.db. Open reads the usn_auto_refresh setting
// once, and that value decides whether Search consults the USN engine
// before each query.
func Open(ctx context.Context, appDataDir string, log *slog.Logger) (*Services, error) {
	if log == nil {
		log = slog.Default()
	}

	store, err := sqlite.Open(ctx, filepath.Join(appDataDir, DatabaseFileName))
	if err != nil {
		return nil, err
	}

	settingsSvc := settings.New(store.Settings())
	usnEngine := usn.New(usn.NewVolumeOpener(), store.Items(), store.UsnStates(), settingsSvc, log)

	refreshBeforeSearch := false
	if val, ok, _ := settingsSvc.Get(ctx, "usn_auto_refresh"); ok {
		refreshBeforeSearch = val == "true"
	}
	searchSvc := search.New(store, usnEngine, refreshBeforeSearch, log)

	thumbSvc := thumbnail.New(appDataDir, settingsSvc, log)

	return &Services{
		Store:     store,
		Search:    searchSvc,
		Settings:  settingsSvc,
		USN:       usnEngine,
		Thumbnail: thumbSvc,
		log:       log,
	}, nil
}

// Close releases every resource held by the service graph.
func (s *Services) Close() error {
	s.Thumbnail.Close()
	return s.Store.Close()
}
