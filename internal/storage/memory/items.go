package memory

import (
	"context"
	"time"

	"github.com/constellation/core/internal/domain"
)

func (r *itemRepository) Save(ctx context.Context, item *domain.Item) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Path.String() == item.Path.String() {
			return 0, domain.New(domain.DuplicateEntry, "item with path %q already exists", item.Path.String())
		}
	}

	r.nextItemID++
	now := time.Now().Unix()
	item.ID = r.nextItemID
	item.CreatedAt = now
	item.UpdatedAt = now
	r.items[item.ID] = cloneItem(item)
	return item.ID, nil
}

func (r *itemRepository) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok || it.IsDeleted {
		return nil, domain.New(domain.ItemNotFound, "item %d not found", id)
	}
	return cloneItem(it), nil
}

func (r *itemRepository) FindByPath(ctx context.Context, path string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.Path.String() == path && !it.IsDeleted {
			return cloneItem(it), nil
		}
	}
	return nil, domain.New(domain.ItemNotFound, "item with path %q not found", path)
}

func (r *itemRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Item
	for _, id := range ids {
		if it, ok := r.items[id]; ok && !it.IsDeleted {
			out = append(out, cloneItem(it))
		}
	}
	return out, nil
}

func (r *itemRepository) FindByPaths(ctx context.Context, paths []string) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := make(map[string]bool, len(paths))
	for _, p := range paths {
		wanted[p] = true
	}
	var out []*domain.Item
	for _, it := range r.items {
		if !it.IsDeleted && wanted[it.Path.String()] {
			out = append(out, cloneItem(it))
		}
	}
	return out, nil
}

func (r *itemRepository) FindByPathPrefix(ctx context.Context, prefix string) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Item
	for _, it := range r.items {
		if !it.IsDeleted && len(it.Path.String()) >= len(prefix) && it.Path.String()[:len(prefix)] == prefix {
			out = append(out, cloneItem(it))
		}
	}
	return out, nil
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[item.ID]
	if !ok {
		return domain.New(domain.ItemNotFound, "item %d not found", item.ID)
	}
	updated := cloneItem(item)
	updated.CreatedAt = existing.CreatedAt
	updated.IsDeleted = existing.IsDeleted
	updated.DeletedAt = existing.DeletedAt
	updated.UpdatedAt = time.Now().Unix()
	r.items[item.ID] = updated
	return nil
}

func (r *itemRepository) SoftDelete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return domain.New(domain.ItemNotFound, "item %d not found", id)
	}
	if it.IsDeleted {
		return domain.New(domain.ValidationError, "item %d is already deleted", id)
	}
	now := time.Now().Unix()
	it.IsDeleted = true
	it.DeletedAt = &now
	it.UpdatedAt = now
	return nil
}

func (r *itemRepository) Restore(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || !it.IsDeleted {
		return domain.New(domain.ItemNotFound, "item %d not found", id)
	}
	it.IsDeleted = false
	it.DeletedAt = nil
	it.UpdatedAt = time.Now().Unix()
	return nil
}

func (r *itemRepository) FindDeleted(ctx context.Context) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Item
	for _, it := range r.items {
		if it.IsDeleted {
			out = append(out, cloneItem(it))
		}
	}
	return out, nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.New(domain.ItemNotFound, "item %d not found", id)
	}
	delete(r.items, id)
	delete(r.itemTags, id)
	return nil
}

func (r *itemRepository) AddTag(ctx context.Context, itemID, tagID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[itemID]; !ok {
		return domain.New(domain.ItemNotFound, "item %d not found", itemID)
	}
	if r.itemTags[itemID] == nil {
		r.itemTags[itemID] = make(map[int64]bool)
	}
	r.itemTags[itemID][tagID] = true
	return nil
}

func (r *itemRepository) RemoveTag(ctx context.Context, itemID, tagID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.itemTags[itemID], tagID)
	return nil
}

func (r *itemRepository) ReplaceTags(ctx context.Context, itemID int64, tagIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[itemID]; !ok {
		return domain.New(domain.ItemNotFound, "item %d not found", itemID)
	}
	set := make(map[int64]bool, len(tagIDs))
	for _, id := range tagIDs {
		set[id] = true
	}
	r.itemTags[itemID] = set
	return nil
}

func (r *itemRepository) GetTagIDs(ctx context.Context, itemID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []int64
	for id := range r.itemTags[itemID] {
		out = append(out, id)
	}
	return out, nil
}

func (r *itemRepository) FindByItems(ctx context.Context, itemIDs []int64) (map[int64][]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[int64][]int64, len(itemIDs))
	for _, itemID := range itemIDs {
		for tagID := range r.itemTags[itemID] {
			result[itemID] = append(result[itemID], tagID)
		}
	}
	return result, nil
}
