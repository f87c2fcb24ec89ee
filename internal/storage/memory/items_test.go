package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/constellation/core/internal/domain"
)

func mustPath(t *testing.T, raw string) domain.FilePath {
	t.Helper()
	fp, err := domain.NewFilePath(raw)
	require.NoError(t, err)
	return fp
}

func TestItems_SaveAndFindByID(t *testing.T) {
	store := New()
	ctx := context.Background()

	item := &domain.Item{Path: mustPath(t, `C:\docs\report.pdf`)}
	id, err := store.Items().Save(ctx, item)
	require.NoError(t, err)
	require.NotZero(t, id)

	found, err := store.Items().FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, `C:\docs\report.pdf`, found.Path.String())
}

func TestItems_Save_DuplicatePathRejected(t *testing.T) {
	store := New()
	ctx := context.Background()

	path := mustPath(t, `C:\docs\report.pdf`)
	_, err := store.Items().Save(ctx, &domain.Item{Path: path})
	require.NoError(t, err)

	_, err = store.Items().Save(ctx, &domain.Item{Path: path})
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.DuplicateEntry))
}

func TestItems_PathRoundTripsVerbatim(t *testing.T) {
	store := New()
	ctx := context.Background()

	const raw = `C:\Users\alice\My Documents\notes.txt`
	id, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, raw)})
	require.NoError(t, err)

	found, err := store.Items().FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, raw, found.Path.String())

	refp, err := domain.NewFilePath(found.Path.String())
	require.NoError(t, err)
	require.Equal(t, raw, refp.String())
}

func TestItems_SoftDeleteRestoreLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	id, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\a.txt`)})
	require.NoError(t, err)

	require.NoError(t, store.Items().SoftDelete(ctx, id))
	_, err = store.Items().FindByID(ctx, id)
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.ItemNotFound))

	deleted, err := store.Items().FindDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)

	require.NoError(t, store.Items().Restore(ctx, id))
	found, err := store.Items().FindByID(ctx, id)
	require.NoError(t, err)
	require.False(t, found.IsDeleted)
	require.Nil(t, found.DeletedAt)
}

func TestItems_AddTag_Idempotent(t *testing.T) {
	store := New()
	ctx := context.Background()

	id, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\a.txt`)})
	require.NoError(t, err)

	require.NoError(t, store.Items().AddTag(ctx, id, 1))
	require.NoError(t, store.Items().AddTag(ctx, id, 1))

	tagIDs, err := store.Items().GetTagIDs(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []int64{1}, tagIDs)
}

func TestItems_ReplaceTags_Idempotent(t *testing.T) {
	store := New()
	ctx := context.Background()

	id, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\a.txt`)})
	require.NoError(t, err)

	want := []int64{1, 2, 3}
	require.NoError(t, store.Items().ReplaceTags(ctx, id, want))
	require.NoError(t, store.Items().ReplaceTags(ctx, id, want))

	tagIDs, err := store.Items().GetTagIDs(ctx, id)
	require.NoError(t, err)
	require.ElementsMatch(t, want, tagIDs)
}

func TestItems_GetTagIDs_NoDuplicatePairs(t *testing.T) {
	store := New()
	ctx := context.Background()

	id, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\a.txt`)})
	require.NoError(t, err)

	require.NoError(t, store.Items().AddTag(ctx, id, 5))
	require.NoError(t, store.Items().AddTag(ctx, id, 5))
	require.NoError(t, store.Items().AddTag(ctx, id, 6))

	tagIDs, err := store.Items().GetTagIDs(ctx, id)
	require.NoError(t, err)
	require.Len(t, tagIDs, 2)
	require.ElementsMatch(t, []int64{5, 6}, tagIDs)
}

func TestItems_RemoveTag(t *testing.T) {
	store := New()
	ctx := context.Background()

	id, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\a.txt`)})
	require.NoError(t, err)

	require.NoError(t, store.Items().AddTag(ctx, id, 1))
	require.NoError(t, store.Items().RemoveTag(ctx, id, 1))

	tagIDs, err := store.Items().GetTagIDs(ctx, id)
	require.NoError(t, err)
	require.Empty(t, tagIDs)
}
