package service

import (
	"context"

	"github.com/constellation/core/internal/domain"
)

// CreateTagTemplate persists a new named set of tag ids.
func (s *Services) CreateTagTemplate(ctx context.Context, name string, tagIDs []int64) (*domain.TagTemplate, error) {
	tmpl := &domain.TagTemplate{Name: name, TagIDs: tagIDs}
	id, err := s.Store.TagTemplates().Save(ctx, tmpl)
	if err != nil {
		return nil, err
	}
	tmpl.ID = id
	return tmpl, nil
}

// GetTagTemplate returns the template with id.
func (s *Services) GetTagTemplate(ctx context.Context, id int64) (*domain.TagTemplate, error) {
	return s.Store.TagTemplates().FindByID(ctx, id)
}

// ListTagTemplates returns every template.
func (s *Services) ListTagTemplates(ctx context.Context) ([]*domain.TagTemplate, error) {
	return s.Store.TagTemplates().FindAll(ctx)
}

// UpdateTagTemplate renames template id and replaces its tag id set.
func (s *Services) UpdateTagTemplate(ctx context.Context, id int64, name string, tagIDs []int64) error {
	tmpl, err := s.Store.TagTemplates().FindByID(ctx, id)
	if err != nil {
		return err
	}
	tmpl.Name = name
	tmpl.TagIDs = tagIDs
	return s.Store.TagTemplates().Update(ctx, tmpl)
}

// DeleteTagTemplate removes template id.
func (s *Services) DeleteTagTemplate(ctx context.Context, id int64) error {
	return s.Store.TagTemplates().Delete(ctx, id)
}

// ApplyTagTemplate adds every tag in template templateID to itemID.
func (s *Services) ApplyTagTemplate(ctx context.Context, itemID, templateID int64) error {
	tmpl, err := s.Store.TagTemplates().FindByID(ctx, templateID)
	if err != nil {
		return err
	}
	for _, tagID := range tmpl.TagIDs {
		if err := s.Store.Items().AddTag(ctx, itemID, tagID); err != nil {
			return err
		}
	}
	return nil
}
