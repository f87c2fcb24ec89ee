package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/constellation/core/internal/domain"
)

func TestSearchHistoryRepository_SaveTwice_CollapsesToOneRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	criteria := domain.SearchCriteria{TagIDs: []int64{1, 2}, Mode: domain.SearchModeAnd}
	require.NoError(t, store.SearchHistory().Save(ctx, criteria))
	require.NoError(t, store.SearchHistory().Save(ctx, criteria))

	history, err := store.SearchHistory().GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestSearchHistoryRepository_TagOrderOnlyDifference_CollapsesToSameRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SearchHistory().Save(ctx, domain.SearchCriteria{
		TagIDs: []int64{2, 1},
		Mode:   domain.SearchModeAnd,
	}))
	require.NoError(t, store.SearchHistory().Save(ctx, domain.SearchCriteria{
		TagIDs: []int64{1, 2},
		Mode:   domain.SearchModeAnd,
	}))

	history, err := store.SearchHistory().GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, []int64{1, 2}, history[0].Criteria.TagIDs)
}

func TestSearchHistoryRepository_GetRecent_RespectsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, store.SearchHistory().Save(ctx, domain.SearchCriteria{
			TagIDs: []int64{i},
			Mode:   domain.SearchModeAnd,
		}))
	}

	history, err := store.SearchHistory().GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestSearchHistoryRepository_ClearAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SearchHistory().Save(ctx, domain.SearchCriteria{
		TagIDs: []int64{1},
		Mode:   domain.SearchModeAnd,
	}))
	require.NoError(t, store.SearchHistory().ClearAll(ctx))

	history, err := store.SearchHistory().GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, history)
}
