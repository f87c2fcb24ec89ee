package sqlite

import (
	"context"
	"database/sql"

	"github.com/constellation/core/internal/domain"
)

type usnStateRepository struct {
	db *sql.DB
}

func (r *usnStateRepository) Get(ctx context.Context, driveLetter string) (*domain.UsnState, error) {
	var (
		lastUSN      int64
		journalID    int64
		lastSyncedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT last_usn, journal_id, last_synced_at FROM usn_state WHERE drive_letter = ?`, driveLetter,
	).Scan(&lastUSN, &journalID, &lastSyncedAt)
	if err != nil {
		return nil, wrapDBError("get usn state", err, domain.UsnJournalError)
	}
	return &domain.UsnState{
		DriveLetter:  driveLetter,
		LastUSN:      lastUSN,
		JournalID:    uint64(journalID),
		LastSyncedAt: lastSyncedAt,
	}, nil
}

func (r *usnStateRepository) Upsert(ctx context.Context, state *domain.UsnState) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO usn_state (drive_letter, last_usn, journal_id, last_synced_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(drive_letter) DO UPDATE SET
			last_usn = excluded.last_usn,
			journal_id = excluded.journal_id,
			last_synced_at = excluded.last_synced_at`,
		state.DriveLetter, state.LastUSN, int64(state.JournalID), state.LastSyncedAt)
	return wrapDBError("upsert usn state", err, domain.UsnJournalError)
}
