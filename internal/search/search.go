// Package search wires the storage-level search repository to search
// history recording and the optional pre-search USN refresh.
package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/constellation/core/internal/domain"
	"github.com/constellation/core/internal/storage"
)

// Refresher is satisfied by usn.Engine; declared here to avoid a import
// cycle between internal/search and internal/usn.
type Refresher interface {
	RefreshAll(ctx context.Context) (domain.RefreshResult, error)
}

// Service implements spec §4.4's three search entry points plus history
// recording and the opt-in pre-search refresh.
type Service struct {
	store               storage.Store
	refresher           Refresher
	refreshBeforeSearch bool
	log                 *slog.Logger
}

// New returns a Service. refresher may be nil; refreshBeforeSearch should
// mirror the usn_auto_refresh setting and is only consulted when
// refresher is non-nil.
func New(store storage.Store, refresher Refresher, refreshBeforeSearch bool, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, refresher: refresher, refreshBeforeSearch: refreshBeforeSearch, log: log}
}

func (s *Service) maybeRefresh(ctx context.Context) {
	if !s.refreshBeforeSearch || s.refresher == nil {
		return
	}
	if _, err := s.refresher.RefreshAll(ctx); err != nil {
		s.log.Warn("pre-search refresh failed", "error", err)
	}
}

// TagsAnd returns items carrying every tag in tagIDs.
func (s *Service) TagsAnd(ctx context.Context, tagIDs []int64) ([]*domain.Item, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	s.maybeRefresh(ctx)
	return s.store.Search().ByTagsAnd(ctx, tagIDs)
}

// TagsOr returns items carrying any tag in tagIDs.
func (s *Service) TagsOr(ctx context.Context, tagIDs []int64) ([]*domain.Item, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	s.maybeRefresh(ctx)
	return s.store.Search().ByTagsOr(ctx, tagIDs)
}

// Filename returns items whose path contains substr.
func (s *Service) Filename(ctx context.Context, substr string) ([]*domain.Item, error) {
	if strings.TrimSpace(substr) == "" {
		return nil, nil
	}
	s.maybeRefresh(ctx)
	return s.store.Search().ByFilename(ctx, substr)
}

// Combined runs a tag set and/or filename substring search and, when the
// input is non-empty, records it in search history.
func (s *Service) Combined(ctx context.Context, tagIDs []int64, mode domain.SearchMode, filenameSubstr *string) ([]*domain.Item, error) {
	hasFilename := filenameSubstr != nil && strings.TrimSpace(*filenameSubstr) != ""
	if len(tagIDs) == 0 && !hasFilename {
		return nil, nil
	}
	s.maybeRefresh(ctx)
	items, err := s.store.Search().Combined(ctx, tagIDs, mode, filenameSubstr)
	if err != nil {
		return nil, err
	}
	if err := s.recordHistory(ctx, filenameSubstr, tagIDs, mode); err != nil {
		s.log.Warn("failed to record search history", "error", err)
	}
	return items, nil
}

// CQL parses and runs a CQL expression, recording it in search history
// when non-empty.
func (s *Service) CQL(ctx context.Context, expr string) ([]*domain.Item, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	s.maybeRefresh(ctx)
	items, err := s.store.Search().CQL(ctx, expr)
	if err != nil {
		return nil, err
	}
	query := expr
	if err := s.recordHistory(ctx, &query, nil, domain.SearchModeAnd); err != nil {
		s.log.Warn("failed to record search history", "error", err)
	}
	return items, nil
}

func (s *Service) recordHistory(ctx context.Context, textQuery *string, tagIDs []int64, mode domain.SearchMode) error {
	sorted := append([]int64(nil), tagIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	criteria := domain.SearchCriteria{
		TextQuery: textQuery,
		TagIDs:    sorted,
		Mode:      mode,
	}
	return s.store.SearchHistory().Save(ctx, criteria)
}

// RecentHistory returns the most recently used searches.
func (s *Service) RecentHistory(ctx context.Context, limit int) ([]*domain.SearchHistory, error) {
	return s.store.SearchHistory().GetRecent(ctx, limit)
}
