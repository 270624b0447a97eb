package consts

const (
	// Size of a logical block. Sector counts in the partition records are
	// multiplied by this value, other block sizes are not supported.
	MBR_BLOCK_SIZE = 512

	// Byte offset of the first partition record within block 0. The bootstrap
	// code and disk signature occupy [0, MBR_RECORDS_START).
	MBR_RECORDS_START = 0x1BE

	// Length of a single partition record.
	MBR_RECORD_LEN = 16

	// Number of partition records in the MBR.
	MBR_RECORD_COUNT = 4

	// Length of the whole record region read in one operation.
	MBR_RECORDS_LEN = MBR_RECORD_LEN * MBR_RECORD_COUNT

	// Offset of the boot signature (0x55 0xAA). Not validated.
	MBR_BOOT_SIGNATURE_OFFSET = 0x1FE

	// Field offsets within a partition record.
	MBR_BOOT_INDICATOR_OFFSET  = 0
	MBR_START_CHS_OFFSET       = 1
	MBR_SYSTEM_ID_OFFSET       = 4
	MBR_END_CHS_OFFSET         = 5
	MBR_RELATIVE_SECTOR_OFFSET = 8
	MBR_TOTAL_SECTORS_OFFSET   = 12

	// Boot indicator value marking the active partition. Any other value,
	// including malformed ones, means not bootable.
	MBR_BOOT_ACTIVE = 0x80
)

// LBAToOffset converts a sector index into a byte offset.
func LBAToOffset(lba uint32) uint64 {
	return uint64(lba) * MBR_BLOCK_SIZE
}
