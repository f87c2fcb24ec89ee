// Package memory is an in-process implementation of storage.Store backed
// by plain maps, used by unit tests that don't need real SQLite
// durability. Grounded on the teacher's ephemeral/memory dual-backend
// testing pattern (internal/storage/ephemeral, internal/storage/memory).
package memory

import (
	"sync"

	"github.com/constellation/core/internal/domain"
	"github.com/constellation/core/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store holds every entity map behind one mutex. Fine-grained locking
// isn't worth it for a test double.
type Store struct {
	mu sync.RWMutex

	items         map[int64]*domain.Item
	itemTags      map[int64]map[int64]bool // item id -> set of tag ids
	tags          map[int64]*domain.Tag
	tagGroups     map[int64]*domain.TagGroup
	tagTemplates  map[int64]*domain.TagTemplate
	searchHistory map[int64]*domain.SearchHistory
	settings      map[string]string
	usnStates     map[string]*domain.UsnState

	nextItemID     int64
	nextTagID      int64
	nextGroupID    int64
	nextTemplateID int64
	nextHistoryID  int64
}

// New returns an empty in-memory Store.
func New() *Store {
	return &Store{
		items:         make(map[int64]*domain.Item),
		itemTags:      make(map[int64]map[int64]bool),
		tags:          make(map[int64]*domain.Tag),
		tagGroups:     make(map[int64]*domain.TagGroup),
		tagTemplates:  make(map[int64]*domain.TagTemplate),
		searchHistory: make(map[int64]*domain.SearchHistory),
		settings:      make(map[string]string),
		usnStates:     make(map[string]*domain.UsnState),
	}
}

func (s *Store) Items() storage.ItemRepository                  { return (*itemRepository)(s) }
func (s *Store) Tags() storage.TagRepository                    { return (*tagRepository)(s) }
func (s *Store) TagGroups() storage.TagGroupRepository          { return (*tagGroupRepository)(s) }
func (s *Store) TagTemplates() storage.TagTemplateRepository    { return (*tagTemplateRepository)(s) }
func (s *Store) SearchHistory() storage.SearchHistoryRepository { return (*searchHistoryRepository)(s) }
func (s *Store) Settings() storage.SettingsRepository           { return (*settingsRepository)(s) }
func (s *Store) UsnStates() storage.UsnStateRepository          { return (*usnStateRepository)(s) }
func (s *Store) Search() storage.SearchRepository               { return (*searchRepository)(s) }
func (s *Store) Close() error                                   { return nil }

type itemRepository Store
type tagRepository Store
type tagGroupRepository Store
type tagTemplateRepository Store
type searchHistoryRepository Store
type settingsRepository Store
type usnStateRepository Store
type searchRepository Store

func cloneItem(it *domain.Item) *domain.Item {
	cp := *it
	if it.Size != nil {
		v := *it.Size
		cp.Size = &v
	}
	if it.ModifiedTime != nil {
		v := *it.ModifiedTime
		cp.ModifiedTime = &v
	}
	if it.DeletedAt != nil {
		v := *it.DeletedAt
		cp.DeletedAt = &v
	}
	return &cp
}

func cloneTag(t *domain.Tag) *domain.Tag {
	cp := *t
	return &cp
}

func cloneTagGroup(g *domain.TagGroup) *domain.TagGroup {
	cp := *g
	if g.Color != nil {
		v := *g.Color
		cp.Color = &v
	}
	return &cp
}

func cloneTagTemplate(t *domain.TagTemplate) *domain.TagTemplate {
	cp := *t
	cp.TagIDs = append([]int64(nil), t.TagIDs...)
	return &cp
}
