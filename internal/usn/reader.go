package usn

import (
	"encoding/binary"
	"unicode/utf16"
)

// parseUSNRecords walks the batch buffer DeviceIoControl filled (returned
// bytes at buf[:n]), extracting create/rename-new/delete records.
// buf[0:8] is the next USN to resume from; record entries start at
// offset 8. Handles both USN_RECORD_V2 (64-bit FRN, major version < 3)
// and USN_RECORD_V3 (128-bit FRN, major version >= 3, lower 8 bytes
// kept as the NTFS FRN), per the offset table in reader.rs.
func parseUSNRecords(buf []byte, n int) (nextUSN int64, records []RawUsnRecord) {
	if n < 8 {
		return 0, nil
	}
	nextUSN = int64(binary.LittleEndian.Uint64(buf[0:8]))

	offset := 8
	for offset+6 <= n {
		recordLength := int(binary.LittleEndian.Uint32(buf[offset : offset+4]))
		majorVersion := binary.LittleEndian.Uint16(buf[offset+4 : offset+6])
		isV3 := majorVersion >= 3
		minSize := 64
		if isV3 {
			minSize = 76
		}
		if recordLength < minSize || offset+recordLength > n {
			break
		}

		var frn, parentFRN uint64
		var fileUSN int64
		var reason uint32
		var nameLen, nameOffset int

		if isV3 {
			frn = binary.LittleEndian.Uint64(buf[offset+8 : offset+16])
			parentFRN = binary.LittleEndian.Uint64(buf[offset+24 : offset+32])
			fileUSN = int64(binary.LittleEndian.Uint64(buf[offset+40 : offset+48]))
			reason = binary.LittleEndian.Uint32(buf[offset+56 : offset+60])
			nameLen = int(binary.LittleEndian.Uint16(buf[offset+72 : offset+74]))
			nameOffset = int(binary.LittleEndian.Uint16(buf[offset+74 : offset+76]))
		} else {
			frn = binary.LittleEndian.Uint64(buf[offset+8 : offset+16])
			parentFRN = binary.LittleEndian.Uint64(buf[offset+16 : offset+24])
			fileUSN = int64(binary.LittleEndian.Uint64(buf[offset+24 : offset+32]))
			reason = binary.LittleEndian.Uint32(buf[offset+40 : offset+44])
			nameLen = int(binary.LittleEndian.Uint16(buf[offset+56 : offset+58]))
			nameOffset = int(binary.LittleEndian.Uint16(buf[offset+58 : offset+60]))
		}

		nameStart := offset + nameOffset
		nameEnd := nameStart + nameLen
		var fileName string
		if nameEnd <= n && nameLen >= 2 {
			fileName = utf16LEToString(buf[nameStart:nameEnd])
		}

		if reason&keepMask != 0 {
			records = append(records, RawUsnRecord{
				USN:                       fileUSN,
				FileReferenceNumber:       frn,
				ParentFileReferenceNumber: parentFRN,
				Reason:                    reason,
				FileName:                  fileName,
			})
		}

		offset += recordLength
	}
	return nextUSN, records
}

func utf16LEToString(b []byte) string {
	u16 := make([]uint16, len(b)/2)
	for i := range u16 {
		u16[i] = binary.LittleEndian.Uint16(b[i*2 : i*2+2])
	}
	return string(utf16.Decode(u16))
}
