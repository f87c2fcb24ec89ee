package usn

// FSCTL and access-right constants, grounded on volume.rs/reader.rs.
const (
	fsctlQueryUsnJournal           = 0x000900F4
	fsctlReadUnprivilegedUsnJournal = 0x000903AB
	fileTraverse                    = 0x20

	// Raw Win32 error codes (as returned by windows.Errno, not the HRESULT
	// form the Rust `windows` crate surfaces via e.code()).
	errorJournalNotActive        = 1179
	errorJournalDeleteInProgress = 1178
	errorHandleEOF               = 38
)

// journalBufferSize is the read buffer DeviceIoControl fills per batch.
const journalBufferSize = 64 * 1024

// Volume is an open handle to one NTFS volume, kept alive across a
// refresh pass so cross-volume FRN resolution can still use it after
// same-volume processing finishes.
type Volume interface {
	DriveLetter() byte
	QueryJournal() (JournalInfo, error)
	ReadRecords(journalID uint64, startUSN int64) (int64, []RawUsnRecord, error)
	ResolveByFRN(frn uint64) (string, bool, error)
	Close() error
}

// VolumeOpener abstracts drive probing and volume handle creation so the
// reconciliation engine stays platform-independent.
type VolumeOpener interface {
	IsNTFS(driveLetter byte) (bool, error)
	Open(driveLetter byte) (Volume, error)
}
