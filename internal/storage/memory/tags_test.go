package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/constellation/core/internal/domain"
)

func mustTagValue(t *testing.T, raw string) domain.TagValue {
	t.Helper()
	tv, err := domain.NewTagValue(raw)
	require.NoError(t, err)
	return tv
}

func TestTags_Save_UniqueWithinGroup(t *testing.T) {
	store := New()
	ctx := context.Background()

	value := mustTagValue(t, "work")
	_, err := store.Tags().Save(ctx, &domain.Tag{GroupID: 1, Value: value})
	require.NoError(t, err)

	_, err = store.Tags().Save(ctx, &domain.Tag{GroupID: 1, Value: value})
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.DuplicateEntry))

	// Same value in a different group is fine.
	_, err = store.Tags().Save(ctx, &domain.Tag{GroupID: 2, Value: value})
	require.NoError(t, err)
}

func TestTags_ReassignItems_MergeScenario(t *testing.T) {
	store := New()
	ctx := context.Background()

	sourceID, err := store.Tags().Save(ctx, &domain.Tag{GroupID: 1, Value: mustTagValue(t, "source")})
	require.NoError(t, err)
	targetID, err := store.Tags().Save(ctx, &domain.Tag{GroupID: 1, Value: mustTagValue(t, "target")})
	require.NoError(t, err)

	i1, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\i1.txt`)})
	require.NoError(t, err)
	i2, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\i2.txt`)})
	require.NoError(t, err)
	i3, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\i3.txt`)})
	require.NoError(t, err)

	require.NoError(t, store.Items().AddTag(ctx, i1, sourceID))
	require.NoError(t, store.Items().AddTag(ctx, i1, targetID))
	require.NoError(t, store.Items().AddTag(ctx, i2, sourceID))
	require.NoError(t, store.Items().AddTag(ctx, i3, targetID))

	require.NoError(t, store.Tags().ReassignItems(ctx, sourceID, targetID))

	for _, id := range []int64{i1, i2, i3} {
		tagIDs, err := store.Items().GetTagIDs(ctx, id)
		require.NoError(t, err)
		require.Equal(t, []int64{targetID}, tagIDs)
	}

	_, err = store.Tags().FindByID(ctx, sourceID)
	require.Error(t, err)
	require.True(t, domain.Is(err, domain.TagNotFound))
}

func TestTags_GetUsageCounts(t *testing.T) {
	store := New()
	ctx := context.Background()

	tagID, err := store.Tags().Save(ctx, &domain.Tag{GroupID: 1, Value: mustTagValue(t, "work")})
	require.NoError(t, err)

	i1, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\i1.txt`)})
	require.NoError(t, err)
	i2, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\i2.txt`)})
	require.NoError(t, err)

	require.NoError(t, store.Items().AddTag(ctx, i1, tagID))
	require.NoError(t, store.Items().AddTag(ctx, i2, tagID))

	counts, err := store.Tags().GetUsageCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), counts[tagID])
}

func TestTags_Search_FiltersByGroupAndSubstring(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.Tags().Save(ctx, &domain.Tag{GroupID: 1, Value: mustTagValue(t, "work")})
	require.NoError(t, err)
	_, err = store.Tags().Save(ctx, &domain.Tag{GroupID: 2, Value: mustTagValue(t, "workout")})
	require.NoError(t, err)

	group1 := int64(1)
	results, err := store.Tags().Search(ctx, "work", &group1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "work", results[0].Value.String())

	all, err := store.Tags().Search(ctx, "work", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
