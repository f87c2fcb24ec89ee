package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	dir := t.TempDir()
	svc, err := Open(context.Background(), dir, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	svc, err := Open(context.Background(), dir, nil)
	require.NoError(t, err)
	defer svc.Close()

	_, err = os.Stat(filepath.Join(dir, DatabaseFileName))
	require.NoError(t, err)
}

func TestServices_ItemLifecycle(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, `C:\docs\a.txt`, false)
	require.NoError(t, err)
	require.NotZero(t, item.ID)

	found, err := svc.GetItemByPath(ctx, `C:\docs\a.txt`)
	require.NoError(t, err)
	require.Equal(t, item.ID, found.ID)

	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	deleted, err := svc.ListDeletedItems(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)

	require.NoError(t, svc.RestoreItem(ctx, item.ID))
	deleted, err = svc.ListDeletedItems(ctx)
	require.NoError(t, err)
	require.Empty(t, deleted)
}

func TestServices_TagMerge(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	group, err := svc.CreateTagGroup(ctx, "colors", "#FF0000")
	require.NoError(t, err)

	source, err := svc.CreateTag(ctx, group.ID, "red")
	require.NoError(t, err)
	target, err := svc.CreateTag(ctx, group.ID, "crimson")
	require.NoError(t, err)

	item, err := svc.CreateItem(ctx, `C:\img\a.png`, false)
	require.NoError(t, err)
	require.NoError(t, svc.AddTag(ctx, item.ID, source.ID))

	require.NoError(t, svc.MergeTag(ctx, source.ID, target.ID))

	tagIDs, err := svc.ItemTags(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{target.ID}, tagIDs)

	_, err = svc.GetTag(ctx, source.ID)
	require.Error(t, err)
}

func TestServices_TagTemplateApply(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	group, err := svc.CreateTagGroup(ctx, "status", "")
	require.NoError(t, err)
	tag1, err := svc.CreateTag(ctx, group.ID, "reviewed")
	require.NoError(t, err)
	tag2, err := svc.CreateTag(ctx, group.ID, "archived")
	require.NoError(t, err)

	tmpl, err := svc.CreateTagTemplate(ctx, "wrap-up", []int64{tag1.ID, tag2.ID})
	require.NoError(t, err)

	item, err := svc.CreateItem(ctx, `C:\proj\report.docx`, false)
	require.NoError(t, err)

	require.NoError(t, svc.ApplyTagTemplate(ctx, item.ID, tmpl.ID))
	tagIDs, err := svc.ItemTags(ctx, item.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{tag1.ID, tag2.ID}, tagIDs)
}

func TestServices_TagGroupReorder(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	a, err := svc.CreateTagGroup(ctx, "a", "")
	require.NoError(t, err)
	b, err := svc.CreateTagGroup(ctx, "b", "")
	require.NoError(t, err)

	require.NoError(t, svc.ReorderTagGroups(ctx, []int64{b.ID, a.ID}))

	groups, err := svc.ListTagGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, b.ID, groups[0].ID)
	require.Equal(t, a.ID, groups[1].ID)
}
