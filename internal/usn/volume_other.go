//go:build !windows

package usn

import "github.com/constellation/core/internal/domain"

type volumeOpenerOther struct{}

// NewVolumeOpener returns a VolumeOpener that reports every operation as
// unsupported. The USN Change Journal is an NTFS/Windows-only facility;
// spec.md's §9 FFI design note calls for a fast, explicit failure on
// other platforms rather than a silent no-op.
func NewVolumeOpener() VolumeOpener { return volumeOpenerOther{} }

func (volumeOpenerOther) IsNTFS(driveLetter byte) (bool, error) {
	return false, nil
}

func (volumeOpenerOther) Open(driveLetter byte) (Volume, error) {
	return nil, domain.New(domain.UsnJournalError, "USN Journal is only supported on Windows")
}
