package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/constellation/core/internal/domain"
)

func seedTwoTags(t *testing.T, ctx context.Context, store *Store) (int64, int64) {
	t.Helper()
	groupID, err := store.TagGroups().Save(ctx, &domain.TagGroup{Name: "G"})
	require.NoError(t, err)
	t1, err := store.Tags().Save(ctx, &domain.Tag{GroupID: groupID, Value: mustTagValue(t, "a")})
	require.NoError(t, err)
	t2, err := store.Tags().Save(ctx, &domain.Tag{GroupID: groupID, Value: mustTagValue(t, "b")})
	require.NoError(t, err)
	return t1, t2
}

func TestTagTemplateRepository_SaveAndFindByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	t1, t2 := seedTwoTags(t, ctx, store)

	id, err := store.TagTemplates().Save(ctx, &domain.TagTemplate{Name: "Work Setup", TagIDs: []int64{t1, t2}})
	require.NoError(t, err)

	found, err := store.TagTemplates().FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Work Setup", found.Name)
	require.ElementsMatch(t, []int64{t1, t2}, found.TagIDs)
}

func TestTagTemplateRepository_Update_ReplacesTagIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	t1, t2 := seedTwoTags(t, ctx, store)

	id, err := store.TagTemplates().Save(ctx, &domain.TagTemplate{Name: "Work Setup", TagIDs: []int64{t1}})
	require.NoError(t, err)

	require.NoError(t, store.TagTemplates().Update(ctx, &domain.TagTemplate{ID: id, Name: "Work Setup", TagIDs: []int64{t2}}))

	found, err := store.TagTemplates().FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []int64{t2}, found.TagIDs)
}

func TestTagTemplateRepository_Delete_CascadesTemplateTags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	t1, _ := seedTwoTags(t, ctx, store)

	id, err := store.TagTemplates().Save(ctx, &domain.TagTemplate{Name: "Work Setup", TagIDs: []int64{t1}})
	require.NoError(t, err)

	require.NoError(t, store.TagTemplates().Delete(ctx, id))

	_, err = store.TagTemplates().FindByID(ctx, id)
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.TagTemplateNotFound))
}
