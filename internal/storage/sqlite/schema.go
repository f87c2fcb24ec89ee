package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements is the full DDL, grounded on
// original_source/.../infrastructure/persistence/schema.rs and db/schema.rs,
// supplemented with settings/usn_state/search_history tables per spec.md
// §6 and §4.4/§4.7.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tag_groups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		color TEXT,
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT (unixepoch()),
		updated_at INTEGER NOT NULL DEFAULT (unixepoch())
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		group_id INTEGER NOT NULL,
		value TEXT NOT NULL,
		created_at INTEGER NOT NULL DEFAULT (unixepoch()),
		updated_at INTEGER NOT NULL DEFAULT (unixepoch()),
		FOREIGN KEY (group_id) REFERENCES tag_groups(id) ON DELETE CASCADE,
		UNIQUE(group_id, value)
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		is_directory BOOLEAN NOT NULL,
		size INTEGER,
		modified_time INTEGER,
		file_reference_number INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT (unixepoch()),
		updated_at INTEGER NOT NULL DEFAULT (unixepoch()),
		is_deleted BOOLEAN NOT NULL DEFAULT 0,
		deleted_at INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS item_tags (
		item_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		created_at INTEGER NOT NULL DEFAULT (unixepoch()),
		PRIMARY KEY (item_id, tag_id),
		FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS tag_templates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL DEFAULT (unixepoch()),
		updated_at INTEGER NOT NULL DEFAULT (unixepoch())
	)`,
	`CREATE TABLE IF NOT EXISTS template_tags (
		template_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		PRIMARY KEY (template_id, tag_id),
		FOREIGN KEY (template_id) REFERENCES tag_templates(id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS search_histories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text_query TEXT,
		search_mode TEXT NOT NULL,
		last_used_at INTEGER NOT NULL DEFAULT (unixepoch())
	)`,
	`CREATE TABLE IF NOT EXISTS search_history_tags (
		search_history_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		PRIMARY KEY (search_history_id, tag_id),
		FOREIGN KEY (search_history_id) REFERENCES search_histories(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS usn_state (
		drive_letter TEXT PRIMARY KEY,
		last_usn INTEGER NOT NULL,
		journal_id INTEGER NOT NULL,
		last_synced_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_path ON items(path)`,
	`CREATE INDEX IF NOT EXISTS idx_items_is_directory ON items(is_directory)`,
	`CREATE INDEX IF NOT EXISTS idx_items_is_deleted ON items(is_deleted)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_group_id ON tags(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_value ON tags(value)`,
	`CREATE INDEX IF NOT EXISTS idx_item_tags_item_id ON item_tags(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_item_tags_tag_id ON item_tags(tag_id)`,
}

func initSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}

// migrateTagGroupOrder is a one-shot migration renumbering
// tag_groups.display_order from the historical all-zero default to a
// name-then-id rank, ported from
// original_source/.../infrastructure/persistence/schema.rs.
func migrateTagGroupOrder(ctx context.Context, db *sql.DB) error {
	var needsMigration bool
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) > 1 FROM tag_groups WHERE display_order = 0`,
	).Scan(&needsMigration)
	if err != nil {
		return fmt.Errorf("check tag group order migration: %w", err)
	}
	if !needsMigration {
		return nil
	}

	_, err = db.ExecContext(ctx, `
		UPDATE tag_groups
		SET display_order = (
			SELECT COUNT(*)
			FROM tag_groups t2
			WHERE t2.name < tag_groups.name
			   OR (t2.name = tag_groups.name AND t2.id < tag_groups.id)
		),
		updated_at = unixepoch()
	`)
	if err != nil {
		return fmt.Errorf("migrate tag group order: %w", err)
	}
	return nil
}
