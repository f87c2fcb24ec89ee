package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/constellation/core/internal/domain"
)

func TestTagGroupRepository_Reorder_DistinctDisplayOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, err := store.TagGroups().Save(ctx, &domain.TagGroup{Name: "A"})
	require.NoError(t, err)
	b, err := store.TagGroups().Save(ctx, &domain.TagGroup{Name: "B"})
	require.NoError(t, err)
	c, err := store.TagGroups().Save(ctx, &domain.TagGroup{Name: "C"})
	require.NoError(t, err)

	require.NoError(t, store.TagGroups().Reorder(ctx, []int64{c, a, b}))

	groups, err := store.TagGroups().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	seen := make(map[int32]bool)
	for _, g := range groups {
		require.False(t, seen[g.DisplayOrder], "display order %d repeated", g.DisplayOrder)
		seen[g.DisplayOrder] = true
	}
	require.Equal(t, []int64{c, a, b}, []int64{groups[0].ID, groups[1].ID, groups[2].ID})
}

func TestTagGroupRepository_ColorRoundTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	color, err := domain.NewColor("#ff00aa")
	require.NoError(t, err)
	group := &domain.TagGroup{Name: "Project", Color: &color}

	id, err := store.TagGroups().Save(ctx, group)
	require.NoError(t, err)

	found, err := store.TagGroups().FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found.Color)
	require.Equal(t, "#ff00aa", found.Color.String())
}

func TestTagGroupRepository_Delete_CascadesTags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	groupID, err := store.TagGroups().Save(ctx, &domain.TagGroup{Name: "Project"})
	require.NoError(t, err)
	tagID, err := store.Tags().Save(ctx, &domain.Tag{GroupID: groupID, Value: mustTagValue(t, "work")})
	require.NoError(t, err)

	require.NoError(t, store.TagGroups().Delete(ctx, groupID))

	_, err = store.Tags().FindByID(ctx, tagID)
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.TagNotFound))
}

func TestTagGroupRepository_Reorder_UnknownIDErrors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.TagGroups().Reorder(ctx, []int64{999})
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.TagGroupNotFound))
}
