package service

import (
	"context"

	"github.com/constellation/core/internal/domain"
)

// CreateTagGroup validates name/color and persists a new tag group.
// color may be empty, leaving the group uncolored.
func (s *Services) CreateTagGroup(ctx context.Context, name, color string) (*domain.TagGroup, error) {
	group := &domain.TagGroup{Name: name}
	if color != "" {
		c, err := domain.NewColor(color)
		if err != nil {
			return nil, err
		}
		group.Color = &c
	}
	id, err := s.Store.TagGroups().Save(ctx, group)
	if err != nil {
		return nil, err
	}
	group.ID = id
	return group, nil
}

// GetTagGroup returns the tag group with id.
func (s *Services) GetTagGroup(ctx context.Context, id int64) (*domain.TagGroup, error) {
	return s.Store.TagGroups().FindByID(ctx, id)
}

// ListTagGroups returns every tag group, ordered by display_order.
func (s *Services) ListTagGroups(ctx context.Context) ([]*domain.TagGroup, error) {
	return s.Store.TagGroups().FindAll(ctx)
}

// UpdateTagGroup renames and/or recolors group id. An empty color clears
// the group's color.
func (s *Services) UpdateTagGroup(ctx context.Context, id int64, name, color string) error {
	group, err := s.Store.TagGroups().FindByID(ctx, id)
	if err != nil {
		return err
	}
	group.Name = name
	if color == "" {
		group.Color = nil
	} else {
		c, err := domain.NewColor(color)
		if err != nil {
			return err
		}
		group.Color = &c
	}
	return s.Store.TagGroups().Update(ctx, group)
}

// DeleteTagGroup removes tag group id and every tag within it.
func (s *Services) DeleteTagGroup(ctx context.Context, id int64) error {
	return s.Store.TagGroups().Delete(ctx, id)
}

// ReorderTagGroups atomically assigns display_order by the position of
// each id in orderedIDs.
func (s *Services) ReorderTagGroups(ctx context.Context, orderedIDs []int64) error {
	return s.Store.TagGroups().Reorder(ctx, orderedIDs)
}
