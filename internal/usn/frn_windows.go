//go:build windows

package usn

import (
	"golang.org/x/sys/windows"
)

// GetFileReferenceNumber returns the NTFS file reference number for path,
// or ok=false if the file does not exist. Grounded on frn.rs.
func GetFileReferenceNumber(path string) (frn uint64, ok bool, err error) {
	pathPtr, e := windows.UTF16PtrFromString(path)
	if e != nil {
		return 0, false, nil
	}

	handle, e := windows.CreateFile(
		pathPtr,
		0,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if e != nil {
		return 0, false, nil
	}
	defer windows.CloseHandle(handle)

	var info windows.ByHandleFileInformation
	if e := windows.GetFileInformationByHandle(handle, &info); e != nil {
		return 0, false, nil
	}

	frn = uint64(info.FileIndexHigh)<<32 | uint64(info.FileIndexLow)
	return frn, true, nil
}
