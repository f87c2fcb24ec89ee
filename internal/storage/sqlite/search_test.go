package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/constellation/core/internal/domain"
)

func TestSearchRepository_ByTagsAnd_EmptyListShortCircuits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	items, err := store.Search().ByTagsAnd(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSearchRepository_ByTagsAnd_RequiresAllTags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	groupID, err := store.TagGroups().Save(ctx, &domain.TagGroup{Name: "G"})
	require.NoError(t, err)
	t1, err := store.Tags().Save(ctx, &domain.Tag{GroupID: groupID, Value: mustTagValue(t, "work")})
	require.NoError(t, err)
	t2, err := store.Tags().Save(ctx, &domain.Tag{GroupID: groupID, Value: mustTagValue(t, "urgent")})
	require.NoError(t, err)

	both, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\both.txt`)})
	require.NoError(t, err)
	onlyOne, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\one.txt`)})
	require.NoError(t, err)

	require.NoError(t, store.Items().AddTag(ctx, both, t1))
	require.NoError(t, store.Items().AddTag(ctx, both, t2))
	require.NoError(t, store.Items().AddTag(ctx, onlyOne, t1))

	items, err := store.Search().ByTagsAnd(ctx, []int64{t1, t2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, both, items[0].ID)
}

func TestSearchRepository_CQL_MatchesTagValue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	groupID, err := store.TagGroups().Save(ctx, &domain.TagGroup{Name: "G"})
	require.NoError(t, err)
	tagID, err := store.Tags().Save(ctx, &domain.Tag{GroupID: groupID, Value: mustTagValue(t, "work")})
	require.NoError(t, err)

	id, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\report.pdf`)})
	require.NoError(t, err)
	require.NoError(t, store.Items().AddTag(ctx, id, tagID))

	items, err := store.Search().CQL(ctx, `tag = "work"`)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, id, items[0].ID)
}

func TestSearchRepository_CQL_OrOfTwoTagsExecutes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Search().CQL(ctx, `tag = "work" OR tag = "personal"`)
	require.NoError(t, err)
}

func TestSearchRepository_Combined_TagsAndFilename(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	groupID, err := store.TagGroups().Save(ctx, &domain.TagGroup{Name: "G"})
	require.NoError(t, err)
	tagID, err := store.Tags().Save(ctx, &domain.Tag{GroupID: groupID, Value: mustTagValue(t, "work")})
	require.NoError(t, err)

	match, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\docs\report.pdf`)})
	require.NoError(t, err)
	noTag, err := store.Items().Save(ctx, &domain.Item{Path: mustPath(t, `C:\docs\report2.pdf`)})
	require.NoError(t, err)
	require.NoError(t, store.Items().AddTag(ctx, match, tagID))

	filename := "report.pdf"
	items, err := store.Search().Combined(ctx, []int64{tagID}, domain.SearchModeAnd, &filename)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, match, items[0].ID)
	require.NotEqual(t, noTag, items[0].ID)
}
