package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/constellation/core/internal/domain"
)

func TestUsnStateRepository_Get_MissingDriveErrors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.UsnStates().Get(ctx, "C:")
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.UsnJournalError))
}

func TestUsnStateRepository_UpsertThenGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	state := &domain.UsnState{DriveLetter: "C:", LastUSN: 100, JournalID: 42, LastSyncedAt: 1000}
	require.NoError(t, store.UsnStates().Upsert(ctx, state))

	found, err := store.UsnStates().Get(ctx, "C:")
	require.NoError(t, err)
	require.Equal(t, int64(100), found.LastUSN)
	require.Equal(t, uint64(42), found.JournalID)
}

func TestUsnStateRepository_Upsert_OverwritesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UsnStates().Upsert(ctx, &domain.UsnState{DriveLetter: "C:", LastUSN: 100, JournalID: 42, LastSyncedAt: 1000}))
	require.NoError(t, store.UsnStates().Upsert(ctx, &domain.UsnState{DriveLetter: "C:", LastUSN: 200, JournalID: 42, LastSyncedAt: 2000}))

	found, err := store.UsnStates().Get(ctx, "C:")
	require.NoError(t, err)
	require.Equal(t, int64(200), found.LastUSN)
	require.Equal(t, int64(2000), found.LastSyncedAt)
}
