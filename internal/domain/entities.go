package domain

// Item represents a file or directory that can be tagged.
type Item struct {
	ID                  int64
	Path                FilePath
	IsDirectory         bool
	Size                *int64
	ModifiedTime        *int64
	FileReferenceNumber uint64
	CreatedAt           int64
	UpdatedAt           int64
	IsDeleted           bool
	DeletedAt           *int64
}

// TagGroup is a named, colorable, orderable category of tags.
type TagGroup struct {
	ID           int64
	Name         string
	Color        *Color
	DisplayOrder int32
	CreatedAt    int64
	UpdatedAt    int64
}

// Tag is a single value within a TagGroup.
type Tag struct {
	ID        int64
	GroupID   int64
	Value     TagValue
	CreatedAt int64
	UpdatedAt int64
}

// TagTemplate is a named, reusable set of tag ids.
type TagTemplate struct {
	ID        int64
	Name      string
	TagIDs    []int64
	CreatedAt int64
	UpdatedAt int64
}

// SearchMode selects AND vs OR semantics for a multi-tag search.
type SearchMode string

const (
	SearchModeAnd SearchMode = "and"
	SearchModeOr  SearchMode = "or"
)

// SearchCriteria describes a saved or repeated search: an optional
// filename substring and a set of tags combined by Mode.
type SearchCriteria struct {
	TextQuery     *string
	TagIDs        []int64 // always stored/compared sorted ascending
	Mode          SearchMode
}

// SearchHistory is a previously executed SearchCriteria plus when it was
// last used.
type SearchHistory struct {
	ID         int64
	Criteria   SearchCriteria
	LastUsedAt int64
}

// UsnState is the per-volume USN journal checkpoint.
type UsnState struct {
	DriveLetter  string
	LastUSN      int64
	JournalID    uint64
	LastSyncedAt int64
}

// RefreshAction describes what happened to an item during USN
// reconciliation.
type RefreshAction string

const (
	ActionRenamed RefreshAction = "renamed"
	ActionMoved   RefreshAction = "moved"
	ActionDeleted RefreshAction = "deleted"
)

// ItemUpdate reports a single item mutation performed during a refresh.
type ItemUpdate struct {
	ItemID  int64
	Action  RefreshAction
	OldPath string
	NewPath string
}

// RefreshResult aggregates the outcome of a USN refresh pass across one or
// more drives.
type RefreshResult struct {
	DrivesScanned    []string
	ItemsUpdated     []ItemUpdate
	JournalStale     []string
	JournalInactive  []string
	FirstTimeDrives  []string
	Errors           []string
}
