package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/constellation/core/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustPath(t *testing.T, raw string) domain.FilePath {
	t.Helper()
	fp, err := domain.NewFilePath(raw)
	require.NoError(t, err)
	return fp
}

func mustTagValue(t *testing.T, raw string) domain.TagValue {
	t.Helper()
	tv, err := domain.NewTagValue(raw)
	require.NoError(t, err)
	return tv
}
