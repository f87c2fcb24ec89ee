package service

import (
	"context"

	"github.com/constellation/core/internal/domain"
)

// CreateItem validates path and persists a new tracked item.
func (s *Services) CreateItem(ctx context.Context, path string, isDirectory bool) (*domain.Item, error) {
	fp, err := domain.NewFilePath(path)
	if err != nil {
		return nil, err
	}
	item := &domain.Item{Path: fp, IsDirectory: isDirectory}
	id, err := s.Store.Items().Save(ctx, item)
	if err != nil {
		return nil, err
	}
	item.ID = id
	return item, nil
}

// GetItem returns the item with id.
func (s *Services) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	return s.Store.Items().FindByID(ctx, id)
}

// GetItemByPath returns the item at path.
func (s *Services) GetItemByPath(ctx context.Context, path string) (*domain.Item, error) {
	return s.Store.Items().FindByPath(ctx, path)
}

// UpdateItemPath moves item id to newPath.
func (s *Services) UpdateItemPath(ctx context.Context, id int64, newPath string) error {
	fp, err := domain.NewFilePath(newPath)
	if err != nil {
		return err
	}
	item, err := s.Store.Items().FindByID(ctx, id)
	if err != nil {
		return err
	}
	item.Path = fp
	return s.Store.Items().Update(ctx, item)
}

// DeleteItem soft-deletes item id.
func (s *Services) DeleteItem(ctx context.Context, id int64) error {
	return s.Store.Items().SoftDelete(ctx, id)
}

// RestoreItem reverses a prior soft delete.
func (s *Services) RestoreItem(ctx context.Context, id int64) error {
	return s.Store.Items().Restore(ctx, id)
}

// PurgeItem permanently removes item id and its tag associations.
func (s *Services) PurgeItem(ctx context.Context, id int64) error {
	return s.Store.Items().Delete(ctx, id)
}

// ListDeletedItems returns every soft-deleted item.
func (s *Services) ListDeletedItems(ctx context.Context) ([]*domain.Item, error) {
	return s.Store.Items().FindDeleted(ctx)
}

// AddTag associates tagID with itemID, idempotently.
func (s *Services) AddTag(ctx context.Context, itemID, tagID int64) error {
	return s.Store.Items().AddTag(ctx, itemID, tagID)
}

// RemoveTag removes the association between itemID and tagID, if any.
func (s *Services) RemoveTag(ctx context.Context, itemID, tagID int64) error {
	return s.Store.Items().RemoveTag(ctx, itemID, tagID)
}

// ReplaceTags replaces itemID's entire tag set with tagIDs.
func (s *Services) ReplaceTags(ctx context.Context, itemID int64, tagIDs []int64) error {
	return s.Store.Items().ReplaceTags(ctx, itemID, tagIDs)
}

// ItemTags returns the tag ids associated with itemID.
func (s *Services) ItemTags(ctx context.Context, itemID int64) ([]int64, error) {
	return s.Store.Items().GetTagIDs(ctx, itemID)
}
