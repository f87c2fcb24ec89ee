// Package sqlite is the SQLite-backed implementation of storage.Store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/constellation/core/internal/storage"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var _ storage.Store = (*Store)(nil)

// Store owns the single *sql.DB connection pool backing every repository.
// Per spec, the index subsystem is the exclusive owner of the pool; other
// subsystems receive repositories, never the raw *sql.DB.
type Store struct {
	db *sql.DB

	items         *itemRepository
	tags          *tagRepository
	tagGroups     *tagGroupRepository
	tagTemplates  *tagTemplateRepository
	searchHistory *searchHistoryRepository
	settings      *settingsRepository
	usnStates     *usnStateRepository
	search        *searchRepository
}

// connString builds the DSN for dbPath, enabling WAL, a 5s busy timeout,
// and foreign key enforcement, matching the teacher's ephemeral-store DSN.
func connString(dbPath string) string {
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
}

// Open opens (creating if necessary) the database at dbPath, applies
// schema/pragmas, and returns a ready Store.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", connString(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows only one writer; a single connection avoids
	// cross-connection lock contention entirely, matching the teacher's
	// ephemeral store configuration.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrateTagGroupOrder(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	s.items = &itemRepository{db: db}
	s.tags = &tagRepository{db: db}
	s.tagGroups = &tagGroupRepository{db: db}
	s.tagTemplates = &tagTemplateRepository{db: db}
	s.searchHistory = &searchHistoryRepository{db: db}
	s.settings = &settingsRepository{db: db}
	s.usnStates = &usnStateRepository{db: db}
	s.search = &searchRepository{db: db}
	return s, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-32000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}
	return nil
}

func (s *Store) Items() storage.ItemRepository                 { return s.items }
func (s *Store) Tags() storage.TagRepository                   { return s.tags }
func (s *Store) TagGroups() storage.TagGroupRepository         { return s.tagGroups }
func (s *Store) TagTemplates() storage.TagTemplateRepository   { return s.tagTemplates }
func (s *Store) SearchHistory() storage.SearchHistoryRepository { return s.searchHistory }
func (s *Store) Settings() storage.SettingsRepository          { return s.settings }
func (s *Store) UsnStates() storage.UsnStateRepository         { return s.usnStates }
func (s *Store) Search() storage.SearchRepository              { return s.search }

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }
