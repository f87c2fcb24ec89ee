package usn

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/constellation/core/internal/domain"
	"github.com/constellation/core/internal/settings"
	"github.com/constellation/core/internal/storage"
)

// driveContext holds the per-drive data collected during phase 1, kept
// alive so its volume handle can still resolve FRNs during cross-volume
// matching in phase 2.
type driveContext struct {
	drive     byte
	volume    Volume
	records   []RawUsnRecord
	finalUSN  int64
	journalID uint64
}

// pendingDelete is an item whose file was not found on its original
// volume, deferred to cross-volume matching before being marked deleted.
type pendingDelete struct {
	itemID  int64
	oldPath string
}

// Engine reconciles the tracked item index against the NTFS USN Change
// Journal, grounded on usn_refresh_service.rs.
type Engine struct {
	opener   VolumeOpener
	items    storage.ItemRepository
	usnState storage.UsnStateRepository
	settings *settings.Service
	log      *slog.Logger
}

// New returns an Engine backed by the given volume opener and repositories.
func New(opener VolumeOpener, items storage.ItemRepository, usnState storage.UsnStateRepository, settingsSvc *settings.Service, log *slog.Logger) *Engine {
	return &Engine{opener: opener, items: items, usnState: usnState, settings: settingsSvc, log: log}
}

// RefreshAll discovers every NTFS drive A:-Z: and refreshes them.
func (e *Engine) RefreshAll(ctx context.Context) (domain.RefreshResult, error) {
	var drives []byte
	for d := byte('A'); d <= 'Z'; d++ {
		ok, err := e.opener.IsNTFS(d)
		if err != nil || !ok {
			continue
		}
		drives = append(drives, d)
	}
	return e.Refresh(ctx, drives)
}

// Refresh reconciles the tracked item index against the USN journal of
// each given drive. Two-phase process: phase 1 reads each drive's USN
// records and resolves same-volume renames, collecting unmatched items;
// phase 2 searches other drives' records for those items by filename.
func (e *Engine) Refresh(ctx context.Context, drives []byte) (domain.RefreshResult, error) {
	var result domain.RefreshResult

	refreshOnMissing := e.boolSetting(ctx, "usn_refresh_on_missing", true)
	crossVolume := e.boolSetting(ctx, "usn_cross_volume_match", true)

	var driveContexts []*driveContext
	var allPending []pendingDelete

	for _, drive := range drives {
		dc, pending, err := e.processDrive(ctx, drive, refreshOnMissing, &result)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%c: %v", drive, err))
			continue
		}
		if dc != nil {
			driveContexts = append(driveContexts, dc)
		}
		allPending = append(allPending, pending...)
	}
	defer func() {
		for _, dc := range driveContexts {
			if err := dc.volume.Close(); err != nil && e.log != nil {
				e.log.Warn("usn: close volume handle", "drive", driveDisplay(dc.drive), "error", err)
			}
		}
	}()

	if crossVolume && len(allPending) > 0 && len(driveContexts) > 1 {
		allPending = e.crossVolumeMatch(ctx, driveContexts, allPending, &result)
	}

	for _, p := range allPending {
		if err := e.items.SoftDelete(ctx, p.itemID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("mark item %d deleted: %v", p.itemID, err))
			continue
		}
		result.ItemsUpdated = append(result.ItemsUpdated, domain.ItemUpdate{
			ItemID:  p.itemID,
			Action:  domain.ActionDeleted,
			OldPath: p.oldPath,
		})
	}

	for _, dc := range driveContexts {
		state := &domain.UsnState{DriveLetter: driveLabel(dc.drive), LastUSN: dc.finalUSN, JournalID: dc.journalID}
		if err := e.usnState.Upsert(ctx, state); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("save usn state %s: %v", driveDisplay(dc.drive), err))
		}
	}

	return result, nil
}

// processDrive reads and reconciles a single drive's USN records. It
// always returns a *driveContext (keeping the volume handle alive for
// phase 2) unless the drive is skipped entirely (not NTFS or journal
// inactive) or a hard error occurs.
func (e *Engine) processDrive(ctx context.Context, drive byte, refreshOnMissing bool, result *domain.RefreshResult) (*driveContext, []pendingDelete, error) {
	isNTFS, err := e.opener.IsNTFS(drive)
	if err != nil {
		return nil, nil, err
	}
	if !isNTFS {
		return nil, nil, nil
	}
	result.DrivesScanned = append(result.DrivesScanned, driveDisplay(drive))

	volume, err := e.opener.Open(drive)
	if err != nil {
		return nil, nil, err
	}

	journal, err := volume.QueryJournal()
	if err != nil {
		if strings.Contains(err.Error(), "not active") {
			result.JournalInactive = append(result.JournalInactive, driveDisplay(drive))
			_ = volume.Close()
			return nil, nil, nil
		}
		_ = volume.Close()
		return nil, nil, err
	}

	saved, err := e.usnState.Get(ctx, driveLabel(drive))
	firstTime := false
	if err != nil {
		if !domain.Is(err, domain.UsnJournalError) {
			_ = volume.Close()
			return nil, nil, err
		}
		firstTime = true
	}

	if firstTime {
		result.FirstTimeDrives = append(result.FirstTimeDrives, driveDisplay(drive))
		if err := e.usnState.Upsert(ctx, &domain.UsnState{DriveLetter: driveLabel(drive), LastUSN: journal.NextUSN, JournalID: journal.JournalID}); err != nil {
			_ = volume.Close()
			return nil, nil, err
		}
		return &driveContext{drive: drive, volume: volume, finalUSN: journal.NextUSN, journalID: journal.JournalID}, nil, nil
	}

	if saved.JournalID != journal.JournalID || saved.LastUSN < journal.FirstUSN {
		result.JournalStale = append(result.JournalStale, driveDisplay(drive))
		if err := e.usnState.Upsert(ctx, &domain.UsnState{DriveLetter: driveLabel(drive), LastUSN: journal.NextUSN, JournalID: journal.JournalID}); err != nil {
			_ = volume.Close()
			return nil, nil, err
		}
		return &driveContext{drive: drive, volume: volume, finalUSN: journal.NextUSN, journalID: journal.JournalID}, nil, nil
	}

	if saved.LastUSN >= journal.NextUSN {
		return &driveContext{drive: drive, volume: volume, finalUSN: journal.NextUSN, journalID: journal.JournalID}, nil, nil
	}

	finalUSN, records, err := volume.ReadRecords(journal.JournalID, saved.LastUSN)
	if err != nil {
		_ = volume.Close()
		return nil, nil, err
	}

	if len(records) == 0 {
		return &driveContext{drive: drive, volume: volume, finalUSN: finalUSN, journalID: journal.JournalID}, nil, nil
	}

	tracked, err := e.items.FindByPathPrefix(ctx, drivePrefix(drive))
	if err != nil {
		_ = volume.Close()
		return nil, nil, err
	}
	if len(tracked) == 0 {
		return &driveContext{drive: drive, volume: volume, records: records, finalUSN: finalUSN, journalID: journal.JournalID}, nil, nil
	}

	frnMap := make(map[uint64]*domain.Item, len(tracked))
	for _, item := range tracked {
		if item.FileReferenceNumber != 0 {
			frnMap[item.FileReferenceNumber] = item
		}
	}

	matched := make(map[uint64]struct{})
	for _, r := range records {
		if r.Reason&(ReasonRenameNew|ReasonFileDelete) == 0 {
			continue
		}
		if _, ok := frnMap[r.FileReferenceNumber]; ok {
			matched[r.FileReferenceNumber] = struct{}{}
		}
	}

	var pending []pendingDelete
	for frn := range matched {
		item := frnMap[frn]
		oldPath := item.Path.String()

		hasDelete := false
		for _, r := range records {
			if r.FileReferenceNumber == frn && r.Reason&ReasonFileDelete != 0 {
				hasDelete = true
				break
			}
		}

		currentPath, ok, err := volume.ResolveByFRN(frn)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("resolve frn on %s: %v", driveDisplay(drive), err))
			continue
		}

		if ok {
			if currentPath != oldPath {
				if err := e.updateItemPath(ctx, item.ID, currentPath); err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("update item %d path: %v", item.ID, err))
					continue
				}
				result.ItemsUpdated = append(result.ItemsUpdated, domain.ItemUpdate{
					ItemID:  item.ID,
					Action:  domain.ActionRenamed,
					OldPath: oldPath,
					NewPath: currentPath,
				})
			}
			continue
		}

		if hasDelete || !refreshOnMissing {
			pending = append(pending, pendingDelete{itemID: item.ID, oldPath: oldPath})
		}
	}

	return &driveContext{drive: drive, volume: volume, records: records, finalUSN: finalUSN, journalID: journal.JournalID}, pending, nil
}

// crossVolumeMatch resolves FRNs from FILE_CREATE/RENAME_NEW records on
// other drives to full paths, matches them against pending deletes by
// filename, and returns the pending deletes that remain unresolved.
// FSCTL_READ_UNPRIVILEGED_USN_JOURNAL doesn't include filenames in
// records, so filenames are recovered by resolving the FRN through the
// filesystem.
func (e *Engine) crossVolumeMatch(ctx context.Context, driveContexts []*driveContext, pending []pendingDelete, result *domain.RefreshResult) []pendingDelete {
	pendingFilenames := make(map[string]struct{}, len(pending))
	for _, p := range pending {
		pendingFilenames[filenameOf(p.oldPath)] = struct{}{}
	}

	type candidate struct {
		path     string
		frn      uint64
		driveIdx int
	}
	nameIndex := make(map[string][]candidate)

	for idx, dc := range driveContexts {
		createFRNs := make(map[uint64]struct{})
		for _, r := range dc.records {
			if r.Reason&(ReasonFileCreate|ReasonRenameNew) != 0 {
				createFRNs[r.FileReferenceNumber] = struct{}{}
			}
		}
		if len(createFRNs) == 0 {
			continue
		}
		for frn := range createFRNs {
			path, ok, err := dc.volume.ResolveByFRN(frn)
			if err != nil || !ok {
				continue
			}
			name := filenameOf(path)
			if _, want := pendingFilenames[name]; want {
				nameIndex[name] = append(nameIndex[name], candidate{path: path, frn: frn, driveIdx: idx})
			}
		}
	}

	var remaining []pendingDelete
	for _, p := range pending {
		name := filenameOf(p.oldPath)
		sourceDrive := byte(0)
		if len(p.oldPath) > 0 {
			sourceDrive = upperByte(p.oldPath[0])
		}

		resolved := false
		for _, c := range nameIndex[name] {
			dc := driveContexts[c.driveIdx]
			if upperByte(dc.drive) == sourceDrive {
				continue
			}
			if err := e.updateItemPathAndFRN(ctx, p.itemID, c.path, c.frn); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("update item %d path: %v", p.itemID, err))
				continue
			}
			result.ItemsUpdated = append(result.ItemsUpdated, domain.ItemUpdate{
				ItemID:  p.itemID,
				Action:  domain.ActionMoved,
				OldPath: p.oldPath,
				NewPath: c.path,
			})
			resolved = true
			break
		}
		if !resolved {
			remaining = append(remaining, p)
		}
	}

	return remaining
}

func (e *Engine) updateItemPath(ctx context.Context, itemID int64, newPath string) error {
	item, err := e.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	fp, err := domain.NewFilePath(newPath)
	if err != nil {
		return err
	}
	item.Path = fp
	return e.items.Update(ctx, item)
}

func (e *Engine) updateItemPathAndFRN(ctx context.Context, itemID int64, newPath string, newFRN uint64) error {
	item, err := e.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	fp, err := domain.NewFilePath(newPath)
	if err != nil {
		return err
	}
	item.Path = fp
	item.FileReferenceNumber = newFRN
	return e.items.Update(ctx, item)
}

func (e *Engine) boolSetting(ctx context.Context, key string, def bool) bool {
	val, ok, err := e.settings.Get(ctx, key)
	if err != nil || !ok {
		return def
	}
	return val == "true"
}

// DriveStatus reports the USN refresh state of one NTFS drive.
type DriveStatus struct {
	Drive        string
	Supported    bool
	LastUSN      int64
	LastSyncedAt int64
}

// DriveStatusAll reports the USN status of every NTFS drive A:-Z:.
func (e *Engine) DriveStatusAll(ctx context.Context) ([]DriveStatus, error) {
	var out []DriveStatus
	for d := byte('A'); d <= 'Z'; d++ {
		ok, err := e.opener.IsNTFS(d)
		if err != nil || !ok {
			continue
		}
		state, err := e.usnState.Get(ctx, driveLabel(d))
		var lastUSN, lastSynced int64
		if err != nil {
			if !domain.Is(err, domain.UsnJournalError) {
				return nil, err
			}
		} else {
			lastUSN = state.LastUSN
			lastSynced = state.LastSyncedAt
		}
		out = append(out, DriveStatus{Drive: driveDisplay(d), Supported: true, LastUSN: lastUSN, LastSyncedAt: lastSynced})
	}
	return out, nil
}

func driveLabel(drive byte) string   { return string(rune(upperByte(drive))) }
func driveDisplay(drive byte) string { return fmt.Sprintf("%c:", upperByte(drive)) }
func drivePrefix(drive byte) string  { return fmt.Sprintf("%c:\\", upperByte(drive)) }

func upperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}

func filenameOf(path string) string {
	norm := strings.ReplaceAll(path, "/", `\`)
	if idx := strings.LastIndexByte(norm, '\\'); idx >= 0 {
		return norm[idx+1:]
	}
	return norm
}
