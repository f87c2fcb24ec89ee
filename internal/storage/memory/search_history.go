package memory

import (
	"context"
	"sort"
	"time"

	"github.com/constellation/core/internal/domain"
)

func (r *searchHistoryRepository) Save(ctx context.Context, criteria domain.SearchCriteria) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sortedTagIDs := append([]int64(nil), criteria.TagIDs...)
	sort.Slice(sortedTagIDs, func(i, j int) bool { return sortedTagIDs[i] < sortedTagIDs[j] })
	criteria.TagIDs = sortedTagIDs

	for _, h := range r.searchHistory {
		if sameCriteria(h.Criteria, criteria) {
			h.LastUsedAt = time.Now().Unix()
			return nil
		}
	}

	r.nextHistoryID++
	r.searchHistory[r.nextHistoryID] = &domain.SearchHistory{
		ID:         r.nextHistoryID,
		Criteria:   criteria,
		LastUsedAt: time.Now().Unix(),
	}
	return nil
}

func sameCriteria(a, b domain.SearchCriteria) bool {
	if a.Mode != b.Mode {
		return false
	}
	if (a.TextQuery == nil) != (b.TextQuery == nil) {
		return false
	}
	if a.TextQuery != nil && *a.TextQuery != *b.TextQuery {
		return false
	}
	if len(a.TagIDs) != len(b.TagIDs) {
		return false
	}
	for i := range a.TagIDs {
		if a.TagIDs[i] != b.TagIDs[i] {
			return false
		}
	}
	return true
}

func (r *searchHistoryRepository) GetRecent(ctx context.Context, limit int) ([]*domain.SearchHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.SearchHistory, 0, len(r.searchHistory))
	for _, h := range r.searchHistory {
		cp := *h
		cp.Criteria.TagIDs = append([]int64(nil), h.Criteria.TagIDs...)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUsedAt > out[j].LastUsedAt })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *searchHistoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.searchHistory[id]; !ok {
		return domain.New(domain.ValidationError, "search history %d not found", id)
	}
	delete(r.searchHistory, id)
	return nil
}

func (r *searchHistoryRepository) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchHistory = make(map[int64]*domain.SearchHistory)
	return nil
}
