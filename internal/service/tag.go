package service

import (
	"context"

	"github.com/constellation/core/internal/domain"
)

// CreateTag validates value and persists a new tag within groupID.
func (s *Services) CreateTag(ctx context.Context, groupID int64, value string) (*domain.Tag, error) {
	tv, err := domain.NewTagValue(value)
	if err != nil {
		return nil, err
	}
	tag := &domain.Tag{GroupID: groupID, Value: tv}
	id, err := s.Store.Tags().Save(ctx, tag)
	if err != nil {
		return nil, err
	}
	tag.ID = id
	return tag, nil
}

// GetTag returns the tag with id.
func (s *Services) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	return s.Store.Tags().FindByID(ctx, id)
}

// ListTagsInGroup returns every tag belonging to groupID.
func (s *Services) ListTagsInGroup(ctx context.Context, groupID int64) ([]*domain.Tag, error) {
	return s.Store.Tags().FindByGroup(ctx, groupID)
}

// ListTags returns every tag.
func (s *Services) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.Store.Tags().FindAll(ctx)
}

// SearchTags returns tags whose value matches query, optionally scoped
// to groupID.
func (s *Services) SearchTags(ctx context.Context, query string, groupID *int64) ([]*domain.Tag, error) {
	return s.Store.Tags().Search(ctx, query, groupID)
}

// UpdateTagValue renames tag id.
func (s *Services) UpdateTagValue(ctx context.Context, id int64, value string) error {
	tv, err := domain.NewTagValue(value)
	if err != nil {
		return err
	}
	tag, err := s.Store.Tags().FindByID(ctx, id)
	if err != nil {
		return err
	}
	tag.Value = tv
	return s.Store.Tags().Update(ctx, tag)
}

// DeleteTag removes tag id and every item association referencing it.
func (s *Services) DeleteTag(ctx context.Context, id int64) error {
	return s.Store.Tags().Delete(ctx, id)
}

// TagUsageCounts returns a mapping of tag id to the number of items
// carrying it.
func (s *Services) TagUsageCounts(ctx context.Context) (map[int64]int64, error) {
	return s.Store.Tags().GetUsageCounts(ctx)
}

// MergeTag reassigns every item carrying sourceTagID to targetTagID,
// then deletes sourceTagID. Per spec §4.1, rows that would collide with
// an item already holding targetTagID are pre-deleted so the merge
// never violates the item_tags composite-key uniqueness.
func (s *Services) MergeTag(ctx context.Context, sourceTagID, targetTagID int64) error {
	return s.Store.Tags().ReassignItems(ctx, sourceTagID, targetTagID)
}
