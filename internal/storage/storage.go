// Package storage defines the repository interfaces for Constellation's
// persistent entities, and the Store aggregate that composes them.
package storage

import (
	"context"

	"github.com/constellation/core/internal/domain"
)

// ItemRepository persists Item entities and their tag associations.
type ItemRepository interface {
	Save(ctx context.Context, item *domain.Item) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Item, error)
	FindByPath(ctx context.Context, path string) (*domain.Item, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*domain.Item, error)
	FindByPaths(ctx context.Context, paths []string) ([]*domain.Item, error)
	FindByPathPrefix(ctx context.Context, prefix string) ([]*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	FindDeleted(ctx context.Context) ([]*domain.Item, error)
	Delete(ctx context.Context, id int64) error

	AddTag(ctx context.Context, itemID, tagID int64) error
	RemoveTag(ctx context.Context, itemID, tagID int64) error
	ReplaceTags(ctx context.Context, itemID int64, tagIDs []int64) error
	GetTagIDs(ctx context.Context, itemID int64) ([]int64, error)
	FindByItems(ctx context.Context, itemIDs []int64) (map[int64][]int64, error)
}

// TagRepository persists Tag entities.
type TagRepository interface {
	Save(ctx context.Context, tag *domain.Tag) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Tag, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*domain.Tag, error)
	FindByGroup(ctx context.Context, groupID int64) ([]*domain.Tag, error)
	FindAll(ctx context.Context) ([]*domain.Tag, error)
	Update(ctx context.Context, tag *domain.Tag) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, groupID *int64) ([]*domain.Tag, error)
	GetUsageCounts(ctx context.Context) (map[int64]int64, error)
	FindByItem(ctx context.Context, itemID int64) ([]*domain.Tag, error)

	// ReassignItems moves every item_tags row from sourceTagID to
	// targetTagID (pre-deleting rows that would collide with an existing
	// target association), then deletes the source tag.
	ReassignItems(ctx context.Context, sourceTagID, targetTagID int64) error
}

// TagGroupRepository persists TagGroup entities.
type TagGroupRepository interface {
	Save(ctx context.Context, group *domain.TagGroup) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.TagGroup, error)
	FindAll(ctx context.Context) ([]*domain.TagGroup, error)
	Update(ctx context.Context, group *domain.TagGroup) error
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, orderedIDs []int64) error
}

// TagTemplateRepository persists TagTemplate entities.
type TagTemplateRepository interface {
	Save(ctx context.Context, tmpl *domain.TagTemplate) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.TagTemplate, error)
	FindAll(ctx context.Context) ([]*domain.TagTemplate, error)
	Update(ctx context.Context, tmpl *domain.TagTemplate) error
	Delete(ctx context.Context, id int64) error
}

// SearchHistoryRepository persists SearchHistory entries, deduplicating
// by (text_query, mode, sorted tag_ids).
type SearchHistoryRepository interface {
	Save(ctx context.Context, criteria domain.SearchCriteria) error
	GetRecent(ctx context.Context, limit int) ([]*domain.SearchHistory, error)
	Delete(ctx context.Context, id int64) error
	ClearAll(ctx context.Context) error
}

// SettingsRepository persists the flat settings key/value store.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// UsnStateRepository persists per-drive USN journal checkpoints.
type UsnStateRepository interface {
	Get(ctx context.Context, driveLetter string) (*domain.UsnState, error)
	Upsert(ctx context.Context, state *domain.UsnState) error
}

// SearchRepository executes the tag/filename/CQL search queries described
// in spec §4.4, each compiled directly to SQL rather than filtered in
// memory.
type SearchRepository interface {
	ByTagsAnd(ctx context.Context, tagIDs []int64) ([]*domain.Item, error)
	ByTagsOr(ctx context.Context, tagIDs []int64) ([]*domain.Item, error)
	ByFilename(ctx context.Context, substr string) ([]*domain.Item, error)
	Combined(ctx context.Context, tagIDs []int64, mode domain.SearchMode, filenameSubstr *string) ([]*domain.Item, error)
	CQL(ctx context.Context, expr string) ([]*domain.Item, error)
}

// Store aggregates every repository Constellation needs. Both the
// SQLite-backed and in-memory implementations satisfy it.
type Store interface {
	Items() ItemRepository
	Tags() TagRepository
	TagGroups() TagGroupRepository
	TagTemplates() TagTemplateRepository
	SearchHistory() SearchHistoryRepository
	Settings() SettingsRepository
	UsnStates() UsnStateRepository
	Search() SearchRepository
	Close() error
}
