package record

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/bgrewell/mbr-kit/pkg/consts"
	"github.com/lunixbochs/struc"
)

var packOptions = &struc.Options{Order: binary.LittleEndian}

/*
# Partition Record
+--------+------+-----------------------------------------------+
| Offset | Size | Description                                   |
+--------+------+-----------------------------------------------+
| 0      | 1    | Boot indicator (0x80 active, anything else no) |
| 1      | 3    | Starting CHS (not interpreted)                |
| 4      | 1    | System ID                                     |
| 5      | 3    | Ending CHS (not interpreted)                  |
| 8      | 4    | Relative sector (LBA of first sector)         |
| 12     | 4    | Total sectors                                 |
+--------+------+-----------------------------------------------+
*/
type Record struct {
	BootIndicator  uint8    `struc:"uint8"`
	StartCHS       [3]uint8 `struc:"[3]uint8"`
	SystemID       uint8    `struc:"uint8"`
	EndCHS         [3]uint8 `struc:"[3]uint8"`
	RelativeSector uint32   `struc:"uint32,little"`
	TotalSectors   uint32   `struc:"uint32,little"`
}

// Unmarshal decodes a single 16 byte partition record.
func (r *Record) Unmarshal(data []byte) error {
	if len(data) != consts.MBR_RECORD_LEN {
		return fmt.Errorf("invalid record length: %d, expected %d", len(data), consts.MBR_RECORD_LEN)
	}
	if err := struc.UnpackWithOptions(bytes.NewReader(data), r, packOptions); err != nil {
		return fmt.Errorf("failed to unpack partition record: %w", err)
	}
	return nil
}

// Marshal encodes the record into its 16 byte on-disk form.
func (r *Record) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := struc.PackWithOptions(&buf, r, packOptions); err != nil {
		return nil, fmt.Errorf("failed to pack partition record: %w", err)
	}
	if buf.Len() != consts.MBR_RECORD_LEN {
		return nil, fmt.Errorf("packed record has length %d, expected %d", buf.Len(), consts.MBR_RECORD_LEN)
	}
	return buf.Bytes(), nil
}

func (r *Record) Bootable() bool {
	return r.BootIndicator == consts.MBR_BOOT_ACTIVE
}

// StartOffset is the absolute byte offset of the partition on the device.
func (r *Record) StartOffset() uint64 {
	return consts.LBAToOffset(r.RelativeSector)
}

// Length is the size of the partition in bytes.
func (r *Record) Length() uint64 {
	return consts.LBAToOffset(r.TotalSectors)
}

// EndOffset is the absolute byte offset just past the partition. It is not
// checked against the size of the device.
func (r *Record) EndOffset() uint64 {
	return r.StartOffset() + r.Length()
}

// IsEmpty reports whether the slot carries no partition at all.
func (r *Record) IsEmpty() bool {
	return r.SystemID == 0 && r.TotalSectors == 0
}
