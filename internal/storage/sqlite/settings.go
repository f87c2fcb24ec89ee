package sqlite

import (
	"context"
	"database/sql"

	"github.com/constellation/core/internal/domain"
)

type settingsRepository struct {
	db *sql.DB
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapDBError("get setting", err, domain.ValidationError)
	}
	return value, true, nil
}

func (r *settingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, wrapDBError("get all settings", err, domain.ValidationError)
	}
	defer func() { _ = rows.Close() }()
	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, wrapDBError("scan setting row", err, domain.ValidationError)
		}
		out[key] = value
	}
	return out, wrapDBError("iterate setting rows", rows.Err(), domain.ValidationError)
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return wrapDBError("set setting", err, domain.ValidationError)
}

func (r *settingsRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return wrapDBError("delete setting", err, domain.ValidationError)
}
