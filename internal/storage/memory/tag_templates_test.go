package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/constellation/core/internal/domain"
)

func TestTagTemplates_Save_UniqueName(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.TagTemplates().Save(ctx, &domain.TagTemplate{Name: "Work Setup", TagIDs: []int64{1, 2}})
	require.NoError(t, err)

	_, err = store.TagTemplates().Save(ctx, &domain.TagTemplate{Name: "Work Setup", TagIDs: []int64{3}})
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.DuplicateEntry))
}

func TestTagTemplates_Update_DoesNotAliasTagIDs(t *testing.T) {
	store := New()
	ctx := context.Background()

	id, err := store.TagTemplates().Save(ctx, &domain.TagTemplate{Name: "Work Setup", TagIDs: []int64{1, 2}})
	require.NoError(t, err)

	found, err := store.TagTemplates().FindByID(ctx, id)
	require.NoError(t, err)
	found.TagIDs[0] = 999

	reloaded, err := store.TagTemplates().FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, reloaded.TagIDs)
}

func TestTagTemplates_Delete_NotFound(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.TagTemplates().Delete(ctx, 42)
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.TagTemplateNotFound))
}
