// Package usn reconciles the tracked item set against NTFS's USN Change
// Journal, detecting renames, moves (including cross-volume), and
// deletions since the last per-drive checkpoint.
package usn

// USN reason flags read from journal records, grounded on reader.rs.
const (
	ReasonFileCreate uint32 = 0x00000100
	ReasonFileDelete uint32 = 0x00000200
	ReasonRenameOld  uint32 = 0x00001000
	ReasonRenameNew  uint32 = 0x00002000
	ReasonClose      uint32 = 0x80000000

	// ReadMask is the reason_mask passed to FSCTL_READ_UNPRIVILEGED_USN_JOURNAL.
	ReadMask = ReasonFileCreate | ReasonRenameOld | ReasonRenameNew | ReasonFileDelete | ReasonClose

	// keepMask selects the subset of records the engine actually keeps
	// after reading a batch.
	keepMask = ReasonFileCreate | ReasonRenameNew | ReasonFileDelete
)

// RawUsnRecord is one parsed entry from a USN_RECORD_V2 or V3 buffer.
type RawUsnRecord struct {
	USN                       int64
	FileReferenceNumber       uint64
	ParentFileReferenceNumber uint64
	Reason                    uint32
	FileName                  string
}

// JournalInfo is the journal metadata returned by FSCTL_QUERY_USN_JOURNAL.
type JournalInfo struct {
	JournalID uint64
	FirstUSN  int64
	NextUSN   int64
}
