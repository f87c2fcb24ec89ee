package usn

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constellation/core/internal/domain"
	"github.com/constellation/core/internal/settings"
	"github.com/constellation/core/internal/storage/memory"
)

type fakeVolume struct {
	drive       byte
	journal     JournalInfo
	journalErr  error
	records     []RawUsnRecord
	readNextUSN int64
	readErr     error
	resolve     map[uint64]string
	closed      bool
}

func (v *fakeVolume) DriveLetter() byte { return v.drive }

func (v *fakeVolume) QueryJournal() (JournalInfo, error) { return v.journal, v.journalErr }

func (v *fakeVolume) ReadRecords(journalID uint64, startUSN int64) (int64, []RawUsnRecord, error) {
	return v.readNextUSN, v.records, v.readErr
}

func (v *fakeVolume) ResolveByFRN(frn uint64) (string, bool, error) {
	p, ok := v.resolve[frn]
	return p, ok, nil
}

func (v *fakeVolume) Close() error {
	v.closed = true
	return nil
}

type fakeOpener struct {
	ntfs    map[byte]bool
	volumes map[byte]*fakeVolume
}

func (o *fakeOpener) IsNTFS(d byte) (bool, error) { return o.ntfs[d], nil }

func (o *fakeOpener) Open(d byte) (Volume, error) {
	v, ok := o.volumes[d]
	if !ok {
		return nil, fmt.Errorf("no volume for drive %c", d)
	}
	return v, nil
}

func TestEngine_Refresh_FirstTimeDrive(t *testing.T) {
	store := memory.New()
	settingsSvc := settings.New(store.Settings())
	opener := &fakeOpener{
		ntfs: map[byte]bool{'C': true},
		volumes: map[byte]*fakeVolume{
			'C': {drive: 'C', journal: JournalInfo{JournalID: 1, FirstUSN: 0, NextUSN: 1000}},
		},
	}
	engine := New(opener, store.Items(), store.UsnStates(), settingsSvc, nil)

	result, err := engine.Refresh(context.Background(), []byte{'C'})
	require.NoError(t, err)

	assert.Contains(t, result.DrivesScanned, "C:")
	assert.Contains(t, result.FirstTimeDrives, "C:")
	assert.Empty(t, result.Errors)

	state, err := store.UsnStates().Get(context.Background(), "C")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), state.LastUSN)
	assert.Equal(t, uint64(1), state.JournalID)
}

func TestEngine_Refresh_JournalInactive(t *testing.T) {
	store := memory.New()
	settingsSvc := settings.New(store.Settings())
	opener := &fakeOpener{
		ntfs: map[byte]bool{'C': true},
		volumes: map[byte]*fakeVolume{
			'C': {drive: 'C', journalErr: domain.New(domain.UsnJournalError, "journal not active on C:")},
		},
	}
	engine := New(opener, store.Items(), store.UsnStates(), settingsSvc, nil)

	result, err := engine.Refresh(context.Background(), []byte{'C'})
	require.NoError(t, err)

	assert.Contains(t, result.JournalInactive, "C:")
	assert.Empty(t, result.FirstTimeDrives)
}

func TestEngine_Refresh_DetectsSameVolumeRename(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	fp, err := domain.NewFilePath(`C:\Users\foo.txt`)
	require.NoError(t, err)
	id, err := store.Items().Save(ctx, &domain.Item{Path: fp, FileReferenceNumber: 42})
	require.NoError(t, err)

	require.NoError(t, store.UsnStates().Upsert(ctx, &domain.UsnState{DriveLetter: "C", LastUSN: 100, JournalID: 1}))

	settingsSvc := settings.New(store.Settings())
	opener := &fakeOpener{
		ntfs: map[byte]bool{'C': true},
		volumes: map[byte]*fakeVolume{
			'C': {
				drive:       'C',
				journal:     JournalInfo{JournalID: 1, FirstUSN: 0, NextUSN: 200},
				records:     []RawUsnRecord{{FileReferenceNumber: 42, Reason: ReasonRenameNew}},
				readNextUSN: 200,
				resolve:     map[uint64]string{42: `C:\Users\bar.txt`},
			},
		},
	}
	engine := New(opener, store.Items(), store.UsnStates(), settingsSvc, nil)

	result, err := engine.Refresh(ctx, []byte{'C'})
	require.NoError(t, err)

	require.Len(t, result.ItemsUpdated, 1)
	update := result.ItemsUpdated[0]
	assert.Equal(t, id, update.ItemID)
	assert.Equal(t, domain.ActionRenamed, update.Action)
	assert.Equal(t, `C:\Users\bar.txt`, update.NewPath)

	item, err := store.Items().FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, `C:\Users\bar.txt`, item.Path.String())
}

func TestEngine_Refresh_CrossVolumeMove(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	fp, err := domain.NewFilePath(`C:\old\file.txt`)
	require.NoError(t, err)
	id, err := store.Items().Save(ctx, &domain.Item{Path: fp, FileReferenceNumber: 7})
	require.NoError(t, err)

	require.NoError(t, store.UsnStates().Upsert(ctx, &domain.UsnState{DriveLetter: "C", LastUSN: 100, JournalID: 1}))
	require.NoError(t, store.UsnStates().Upsert(ctx, &domain.UsnState{DriveLetter: "D", LastUSN: 50, JournalID: 2}))

	settingsSvc := settings.New(store.Settings())
	opener := &fakeOpener{
		ntfs: map[byte]bool{'C': true, 'D': true},
		volumes: map[byte]*fakeVolume{
			'C': {
				drive:       'C',
				journal:     JournalInfo{JournalID: 1, FirstUSN: 0, NextUSN: 200},
				records:     []RawUsnRecord{{FileReferenceNumber: 7, Reason: ReasonFileDelete}},
				readNextUSN: 200,
				resolve:     map[uint64]string{},
			},
			'D': {
				drive:       'D',
				journal:     JournalInfo{JournalID: 2, FirstUSN: 0, NextUSN: 300},
				records:     []RawUsnRecord{{FileReferenceNumber: 9, Reason: ReasonFileCreate}},
				readNextUSN: 300,
				resolve:     map[uint64]string{9: `D:\new\file.txt`},
			},
		},
	}
	engine := New(opener, store.Items(), store.UsnStates(), settingsSvc, nil)

	result, err := engine.Refresh(ctx, []byte{'C', 'D'})
	require.NoError(t, err)

	require.Len(t, result.ItemsUpdated, 1)
	update := result.ItemsUpdated[0]
	assert.Equal(t, id, update.ItemID)
	assert.Equal(t, domain.ActionMoved, update.Action)
	assert.Equal(t, `D:\new\file.txt`, update.NewPath)

	item, err := store.Items().FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, `D:\new\file.txt`, item.Path.String())
	assert.Equal(t, uint64(9), item.FileReferenceNumber)
}

func TestEngine_Refresh_UnresolvedDeleteIsSoftDeleted(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	fp, err := domain.NewFilePath(`C:\gone\file.txt`)
	require.NoError(t, err)
	id, err := store.Items().Save(ctx, &domain.Item{Path: fp, FileReferenceNumber: 11})
	require.NoError(t, err)

	require.NoError(t, store.UsnStates().Upsert(ctx, &domain.UsnState{DriveLetter: "C", LastUSN: 100, JournalID: 1}))

	settingsSvc := settings.New(store.Settings())
	opener := &fakeOpener{
		ntfs: map[byte]bool{'C': true},
		volumes: map[byte]*fakeVolume{
			'C': {
				drive:       'C',
				journal:     JournalInfo{JournalID: 1, FirstUSN: 0, NextUSN: 200},
				records:     []RawUsnRecord{{FileReferenceNumber: 11, Reason: ReasonFileDelete}},
				readNextUSN: 200,
				resolve:     map[uint64]string{},
			},
		},
	}
	engine := New(opener, store.Items(), store.UsnStates(), settingsSvc, nil)

	result, err := engine.Refresh(ctx, []byte{'C'})
	require.NoError(t, err)

	require.Len(t, result.ItemsUpdated, 1)
	assert.Equal(t, domain.ActionDeleted, result.ItemsUpdated[0].Action)

	_, err = store.Items().FindByID(ctx, id)
	assert.True(t, domain.Is(err, domain.ItemNotFound))
}

func TestDriveLabelAndDisplay(t *testing.T) {
	assert.Equal(t, "C", driveLabel('c'))
	assert.Equal(t, "C:", driveDisplay('c'))
	assert.Equal(t, `C:\`, drivePrefix('c'))
}
