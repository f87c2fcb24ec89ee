package memory

import (
	"context"
	"sort"
	"time"

	"github.com/constellation/core/internal/domain"
)

func (r *tagGroupRepository) Save(ctx context.Context, group *domain.TagGroup) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tagGroups {
		if existing.Name == group.Name {
			return 0, domain.New(domain.DuplicateEntry, "tag group %q already exists", group.Name)
		}
	}
	r.nextGroupID++
	now := time.Now().Unix()
	group.ID = r.nextGroupID
	group.CreatedAt = now
	group.UpdatedAt = now
	r.tagGroups[group.ID] = cloneTagGroup(group)
	return group.ID, nil
}

func (r *tagGroupRepository) FindByID(ctx context.Context, id int64) (*domain.TagGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.tagGroups[id]
	if !ok {
		return nil, domain.New(domain.TagGroupNotFound, "tag group %d not found", id)
	}
	return cloneTagGroup(g), nil
}

func (r *tagGroupRepository) FindAll(ctx context.Context) ([]*domain.TagGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.TagGroup, 0, len(r.tagGroups))
	for _, g := range r.tagGroups {
		out = append(out, cloneTagGroup(g))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *tagGroupRepository) Update(ctx context.Context, group *domain.TagGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tagGroups[group.ID]
	if !ok {
		return domain.New(domain.TagGroupNotFound, "tag group %d not found", group.ID)
	}
	updated := cloneTagGroup(group)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().Unix()
	r.tagGroups[group.ID] = updated
	return nil
}

func (r *tagGroupRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tagGroups[id]; !ok {
		return domain.New(domain.TagGroupNotFound, "tag group %d not found", id)
	}
	delete(r.tagGroups, id)
	for tagID, t := range r.tags {
		if t.GroupID == id {
			delete(r.tags, tagID)
		}
	}
	return nil
}

func (r *tagGroupRepository) Reorder(ctx context.Context, orderedIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range orderedIDs {
		g, ok := r.tagGroups[id]
		if !ok {
			return domain.New(domain.TagGroupNotFound, "tag group %d not found", id)
		}
		g.DisplayOrder = int32(i)
		g.UpdatedAt = time.Now().Unix()
	}
	return nil
}
