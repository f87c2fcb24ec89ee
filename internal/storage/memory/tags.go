package memory

import (
	"context"
	"strings"
	"time"

	"github.com/constellation/core/internal/domain"
)

func (r *tagRepository) Save(ctx context.Context, tag *domain.Tag) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tags {
		if existing.GroupID == tag.GroupID && existing.Value.String() == tag.Value.String() {
			return 0, domain.New(domain.DuplicateEntry, "tag %q already exists in group %d", tag.Value.String(), tag.GroupID)
		}
	}
	r.nextTagID++
	now := time.Now().Unix()
	tag.ID = r.nextTagID
	tag.CreatedAt = now
	tag.UpdatedAt = now
	r.tags[tag.ID] = cloneTag(tag)
	return tag.ID, nil
}

func (r *tagRepository) FindByID(ctx context.Context, id int64) (*domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tags[id]
	if !ok {
		return nil, domain.New(domain.TagNotFound, "tag %d not found", id)
	}
	return cloneTag(t), nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Tag
	for _, id := range ids {
		if t, ok := r.tags[id]; ok {
			out = append(out, cloneTag(t))
		}
	}
	return out, nil
}

func (r *tagRepository) FindByGroup(ctx context.Context, groupID int64) ([]*domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Tag
	for _, t := range r.tags {
		if t.GroupID == groupID {
			out = append(out, cloneTag(t))
		}
	}
	return out, nil
}

func (r *tagRepository) FindAll(ctx context.Context) ([]*domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Tag, 0, len(r.tags))
	for _, t := range r.tags {
		out = append(out, cloneTag(t))
	}
	return out, nil
}

func (r *tagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tags[tag.ID]
	if !ok {
		return domain.New(domain.TagNotFound, "tag %d not found", tag.ID)
	}
	updated := cloneTag(tag)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().Unix()
	r.tags[tag.ID] = updated
	return nil
}

func (r *tagRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tags[id]; !ok {
		return domain.New(domain.TagNotFound, "tag %d not found", id)
	}
	delete(r.tags, id)
	for _, tagSet := range r.itemTags {
		delete(tagSet, id)
	}
	return nil
}

func (r *tagRepository) Search(ctx context.Context, query string, groupID *int64) ([]*domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q := strings.ToLower(query)
	var out []*domain.Tag
	for _, t := range r.tags {
		if groupID != nil && t.GroupID != *groupID {
			continue
		}
		if strings.Contains(strings.ToLower(t.Value.String()), q) {
			out = append(out, cloneTag(t))
		}
	}
	return out, nil
}

func (r *tagRepository) GetUsageCounts(ctx context.Context) (map[int64]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[int64]int64)
	for _, tagSet := range r.itemTags {
		for tagID := range tagSet {
			counts[tagID]++
		}
	}
	return counts, nil
}

func (r *tagRepository) FindByItem(ctx context.Context, itemID int64) ([]*domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Tag
	for tagID := range r.itemTags[itemID] {
		if t, ok := r.tags[tagID]; ok {
			out = append(out, cloneTag(t))
		}
	}
	return out, nil
}

func (r *tagRepository) ReassignItems(ctx context.Context, sourceTagID, targetTagID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tagSet := range r.itemTags {
		if tagSet[sourceTagID] {
			delete(tagSet, sourceTagID)
			tagSet[targetTagID] = true
		}
	}
	delete(r.tags, sourceTagID)
	return nil
}
