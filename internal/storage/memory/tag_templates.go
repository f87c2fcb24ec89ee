package memory

import (
	"context"
	"time"

	"github.com/constellation/core/internal/domain"
)

func (r *tagTemplateRepository) Save(ctx context.Context, tmpl *domain.TagTemplate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tagTemplates {
		if existing.Name == tmpl.Name {
			return 0, domain.New(domain.DuplicateEntry, "tag template %q already exists", tmpl.Name)
		}
	}
	r.nextTemplateID++
	now := time.Now().Unix()
	tmpl.ID = r.nextTemplateID
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now
	r.tagTemplates[tmpl.ID] = cloneTagTemplate(tmpl)
	return tmpl.ID, nil
}

func (r *tagTemplateRepository) FindByID(ctx context.Context, id int64) (*domain.TagTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tagTemplates[id]
	if !ok {
		return nil, domain.New(domain.TagTemplateNotFound, "tag template %d not found", id)
	}
	return cloneTagTemplate(t), nil
}

func (r *tagTemplateRepository) FindAll(ctx context.Context) ([]*domain.TagTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.TagTemplate, 0, len(r.tagTemplates))
	for _, t := range r.tagTemplates {
		out = append(out, cloneTagTemplate(t))
	}
	return out, nil
}

func (r *tagTemplateRepository) Update(ctx context.Context, tmpl *domain.TagTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tagTemplates[tmpl.ID]
	if !ok {
		return domain.New(domain.TagTemplateNotFound, "tag template %d not found", tmpl.ID)
	}
	updated := cloneTagTemplate(tmpl)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().Unix()
	r.tagTemplates[tmpl.ID] = updated
	return nil
}

func (r *tagTemplateRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tagTemplates[id]; !ok {
		return domain.New(domain.TagTemplateNotFound, "tag template %d not found", id)
	}
	delete(r.tagTemplates, id)
	return nil
}
