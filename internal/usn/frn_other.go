//go:build !windows

package usn

// GetFileReferenceNumber always reports the file as not found on
// non-Windows platforms; there is no FRN concept outside NTFS.
func GetFileReferenceNumber(path string) (frn uint64, ok bool, err error) {
	return 0, false, nil
}
