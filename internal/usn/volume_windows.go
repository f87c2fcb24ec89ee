//go:build windows

package usn

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/constellation/core/internal/domain"
)

var (
	modkernel32       = windows.NewLazySystemDLL("kernel32.dll")
	procOpenFileByID  = modkernel32.NewProc("OpenFileById")
)

// fileIDDescriptor mirrors FILE_ID_DESCRIPTOR for the 64-bit FRN case
// (Type = 0, FileIdType), matching path_resolver.rs's construction.
type fileIDDescriptor struct {
	dwSize uint32
	idType uint32
	fileID [16]byte // Anonymous union; only the first 8 bytes are used for FileId
}

func newFileIDDescriptor(frn uint64) fileIDDescriptor {
	var d fileIDDescriptor
	d.dwSize = uint32(unsafe.Sizeof(d))
	d.idType = 0 // FileIdType
	copyUint64LE(d.fileID[:8], frn)
	return d
}

func copyUint64LE(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(v >> (8 * uint(i)))
	}
}

type volumeOpenerWindows struct{}

// NewVolumeOpener returns the Windows VolumeOpener backed by real NTFS
// syscalls, grounded on volume.rs/frn.rs/path_resolver.rs/reader.rs.
func NewVolumeOpener() VolumeOpener { return volumeOpenerWindows{} }

func (volumeOpenerWindows) IsNTFS(driveLetter byte) (bool, error) {
	root := fmt.Sprintf("%c:\\", driveLetter)
	rootPtr, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return false, nil
	}
	fsName := make([]uint16, 64)
	err = windows.GetVolumeInformation(rootPtr, nil, 0, nil, nil, nil, &fsName[0], uint32(len(fsName)))
	if err != nil {
		return false, nil
	}
	name := windows.UTF16ToString(fsName)
	return name == "NTFS" || name == "ReFS", nil
}

func (volumeOpenerWindows) Open(driveLetter byte) (Volume, error) {
	drive := strings.ToUpper(string(rune(driveLetter)))[0]
	path := fmt.Sprintf(`\\.\%c:`, drive)
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, domain.New(domain.UsnJournalError, "build volume path for %c: %v", drive, err)
	}

	handle, err := windows.CreateFile(
		pathPtr,
		fileTraverse,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return nil, domain.New(domain.UsnJournalError, "open volume %c: %v", drive, err)
	}

	return &winVolume{handle: handle, drive: drive}, nil
}

type winVolume struct {
	mu     sync.Mutex
	handle windows.Handle
	drive  byte
}

func (v *winVolume) DriveLetter() byte { return v.drive }

func (v *winVolume) QueryJournal() (JournalInfo, error) {
	var data usnJournalDataV0
	var bytesReturned uint32

	err := windows.DeviceIoControl(
		v.handle,
		fsctlQueryUsnJournal,
		nil,
		0,
		(*byte)(unsafe.Pointer(&data)),
		uint32(unsafe.Sizeof(data)),
		&bytesReturned,
		nil,
	)
	if err != nil {
		if code, ok := win32Code(err); ok {
			switch code {
			case errorJournalNotActive:
				return JournalInfo{}, domain.New(domain.UsnJournalError, "journal not active on %c:", v.drive)
			case errorJournalDeleteInProgress:
				return JournalInfo{}, domain.New(domain.UsnJournalError, "journal deletion in progress on %c:", v.drive)
			}
		}
		return JournalInfo{}, domain.New(domain.UsnJournalError, "query usn journal on %c: %v", v.drive, err)
	}

	return JournalInfo{
		JournalID: data.UsnJournalID,
		FirstUSN:  data.FirstUsn,
		NextUSN:   data.NextUsn,
	}, nil
}

func (v *winVolume) ReadRecords(journalID uint64, startUSN int64) (int64, []RawUsnRecord, error) {
	var all []RawUsnRecord
	current := startUSN

	for {
		next, batch, err := v.readBatch(journalID, current)
		if err != nil {
			return 0, nil, err
		}
		if len(batch) == 0 || next == current {
			return next, all, nil
		}
		all = append(all, batch...)
		current = next
	}
}

func (v *winVolume) readBatch(journalID uint64, startUSN int64) (int64, []RawUsnRecord, error) {
	input := readUsnJournalDataV0{
		StartUsn:          startUSN,
		ReasonMask:        ReadMask,
		ReturnOnlyOnClose: 0,
		Timeout:           0,
		BytesToWaitFor:    0,
		UsnJournalID:      journalID,
	}

	buf := make([]byte, journalBufferSize)
	var bytesReturned uint32

	err := windows.DeviceIoControl(
		v.handle,
		fsctlReadUnprivilegedUsnJournal,
		(*byte)(unsafe.Pointer(&input)),
		uint32(unsafe.Sizeof(input)),
		&buf[0],
		uint32(len(buf)),
		&bytesReturned,
		nil,
	)
	if err != nil {
		if code, ok := win32Code(err); ok {
			switch code {
			case errorHandleEOF:
				return startUSN, nil, nil
			case errorJournalNotActive:
				return 0, nil, domain.New(domain.UsnJournalError, "journal not active")
			}
		}
		return 0, nil, domain.New(domain.UsnJournalError, "read usn journal: %v", err)
	}

	next, records := parseUSNRecords(buf, int(bytesReturned))
	return next, records, nil
}

func (v *winVolume) ResolveByFRN(frn uint64) (string, bool, error) {
	descriptor := newFileIDDescriptor(frn)

	r1, _, _ := procOpenFileByID.Call(
		uintptr(v.handle),
		uintptr(unsafe.Pointer(&descriptor)),
		0,
		uintptr(windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE),
		0,
		uintptr(windows.FILE_FLAG_BACKUP_SEMANTICS),
	)
	fileHandle := windows.Handle(r1)
	if fileHandle == windows.InvalidHandle || r1 == 0 {
		return "", false, nil
	}
	defer windows.CloseHandle(fileHandle)

	buf := make([]uint16, 1024)
	n, err := windows.GetFinalPathNameByHandle(fileHandle, &buf[0], uint32(len(buf)), windows.VOLUME_NAME_DOS)
	if err != nil || n == 0 || int(n) >= len(buf) {
		return "", false, nil
	}

	path := windows.UTF16ToString(buf[:n])
	path = strings.TrimPrefix(path, `\\?\`)
	return path, true, nil
}

func (v *winVolume) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(v.handle)
	v.handle = 0
	return err
}

// usnJournalDataV0 mirrors USN_JOURNAL_DATA_V0.
type usnJournalDataV0 struct {
	UsnJournalID    uint64
	FirstUsn        int64
	NextUsn         int64
	LowestValidUsn  int64
	MaxUsn          int64
	MaximumSize     uint64
	AllocationDelta uint64
}

// readUsnJournalDataV0 mirrors READ_USN_JOURNAL_DATA_V0.
type readUsnJournalDataV0 struct {
	StartUsn          int64
	ReasonMask        uint32
	ReturnOnlyOnClose uint32
	Timeout           uint64
	BytesToWaitFor    uint64
	UsnJournalID      uint64
}

func win32Code(err error) (uint32, bool) {
	errno, ok := err.(windows.Errno)
	if !ok {
		return 0, false
	}
	return uint32(errno), true
}
