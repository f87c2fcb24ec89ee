package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/constellation/core/internal/domain"
	"github.com/constellation/core/internal/storage/memory"
)

func seedItemWithTag(t *testing.T, ctx context.Context, store *memory.Store, path string, groupID int64, tagValue string) (*domain.Item, int64) {
	t.Helper()
	fp, err := domain.NewFilePath(path)
	require.NoError(t, err)
	item := &domain.Item{Path: fp}
	id, err := store.Items().Save(ctx, item)
	require.NoError(t, err)
	item.ID = id

	tv, err := domain.NewTagValue(tagValue)
	require.NoError(t, err)
	tagID, err := store.Tags().Save(ctx, &domain.Tag{GroupID: groupID, Value: tv})
	require.NoError(t, err)
	require.NoError(t, store.Items().AddTag(ctx, id, tagID))
	return item, tagID
}

func TestService_Combined_EmptyInputShortCircuits(t *testing.T) {
	store := memory.New()
	svc := New(store, nil, false, nil)
	ctx := context.Background()

	items, err := svc.Combined(ctx, nil, domain.SearchModeAnd, nil)
	require.NoError(t, err)
	require.Empty(t, items)

	history, err := svc.RecentHistory(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestService_Combined_RecordsHistory(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	_, tagID := seedItemWithTag(t, ctx, store, `C:\docs\report.pdf`, 1, "work")

	svc := New(store, nil, false, nil)
	items, err := svc.Combined(ctx, []int64{tagID}, domain.SearchModeAnd, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	history, err := svc.RecentHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, []int64{tagID}, history[0].Criteria.TagIDs)
}

func TestService_CQL_RecordsHistory(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	seedItemWithTag(t, ctx, store, `C:\docs\report.pdf`, 1, "work")

	svc := New(store, nil, false, nil)
	items, err := svc.CQL(ctx, `tag = "work"`)
	require.NoError(t, err)
	require.Len(t, items, 1)

	history, err := svc.RecentHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].Criteria.TextQuery)
	require.Equal(t, `tag = "work"`, *history[0].Criteria.TextQuery)
}

type stubRefresher struct {
	called bool
}

func (s *stubRefresher) RefreshAll(ctx context.Context) (domain.RefreshResult, error) {
	s.called = true
	return domain.RefreshResult{}, nil
}

func TestService_PreSearchRefresh_OnlyWhenEnabled(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	refresher := &stubRefresher{}
	svc := New(store, refresher, false, nil)
	_, err := svc.TagsAnd(ctx, []int64{1})
	require.NoError(t, err)
	require.False(t, refresher.called)

	svc = New(store, refresher, true, nil)
	_, err = svc.TagsAnd(ctx, []int64{1})
	require.NoError(t, err)
	require.True(t, refresher.called)
}
