package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettings_SetThenGet(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Settings().Set(ctx, "thumbnail_size", "512"))
	value, ok, err := store.Settings().Get(ctx, "thumbnail_size")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "512", value)
}

func TestSettings_GetMissingReturnsFalse(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, ok, err := store.Settings().Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSettings_Delete(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Settings().Set(ctx, "k", "v"))
	require.NoError(t, store.Settings().Delete(ctx, "k"))

	_, ok, err := store.Settings().Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}
