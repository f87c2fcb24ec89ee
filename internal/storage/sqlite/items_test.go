package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/constellation/core/internal/domain"
)

func TestItemRepository_SaveAndFindByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := &domain.Item{Path: mustPath(t, `C:\docs\report.pdf`)}
	id, err := store.Items().Save(ctx, item)
	require.NoError(t, err)
	require.NotZero(t, id)

	found, err := store.Items().FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, `C:\docs\report.pdf`, found.Path.String())
}

func TestItemRepository_Save_DuplicatePathRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path := mustPath(t, `C:\docs\report.pdf`)
	_, err := store.Items().Save(ctx, &domain.Item{Path: path})
	require.NoError(t, err)

	_, err = store.Items().Save(ctx, &domain.Item{Path: path})
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.DuplicateEntry))
}

func TestItemRepository_PathRoundTripsVerbatim(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const raw = `C:\Users\alice\My Documents\notes.txt`
	id, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, raw)})
	require.NoError(t, err)

	found, err := store.Items().FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, raw, found.Path.String())
}

func TestItemRepository_SoftDeleteRestoreLifecycle(t *testing.T) {
	store := newTestStore(t)
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

func TestItemRepository_SoftDelete_AlreadyDeletedRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\a.txt`)})
	require.NoError(t, err)
	require.NoError(t, store.Items().SoftDelete(ctx, id))

	err = store.Items().SoftDelete(ctx, id)
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.ValidationError))
}

func TestItemRepository_AddTag_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\a.txt`)})
	require.NoError(t, err)

	groupID, err := store.TagGroups().Save(ctx, &domain.TagGroup{Name: "G"})
	require.NoError(t, err)
	tagID, err := store.Tags().Save(ctx, &domain.Tag{GroupID: groupID, Value: mustTagValue(t, "work")})
	require.NoError(t, err)

	require.NoError(t, store.Items().AddTag(ctx, id, tagID))
	require.NoError(t, store.Items().AddTag(ctx, id, tagID))

	tagIDs, err := store.Items().GetTagIDs(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []int64{tagID}, tagIDs)
}

func TestItemRepository_ReplaceTags_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\a.txt`)})
	require.NoError(t, err)

	groupID, err := store.TagGroups().Save(ctx, &domain.TagGroup{Name: "G"})
	require.NoError(t, err)
	t1, err := store.Tags().Save(ctx, &domain.Tag{GroupID: groupID, Value: mustTagValue(t, "a")})
	require.NoError(t, err)
	t2, err := store.Tags().Save(ctx, &domain.Tag{GroupID: groupID, Value: mustTagValue(t, "b")})
	require.NoError(t, err)

	want := []int64{t1, t2}
	require.NoError(t, store.Items().ReplaceTags(ctx, id, want))
	require.NoError(t, store.Items().ReplaceTags(ctx, id, want))

	tagIDs, err := store.Items().GetTagIDs(ctx, id)
	require.NoError(t, err)
	require.ElementsMatch(t, want, tagIDs)
}

func TestItemRepository_ReplaceTags_ItemNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Items().ReplaceTags(ctx, 999, []int64{1})
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.ItemNotFound))
}
