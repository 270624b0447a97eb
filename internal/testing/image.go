package testing

import (
	"fmt"

	"github.com/bgrewell/mbr-kit/pkg/consts"
	"github.com/bgrewell/mbr-kit/pkg/device"
	"github.com/bgrewell/mbr-kit/pkg/parttype"
	"github.com/bgrewell/mbr-kit/pkg/record"
)

// PartitionSpec describes one slot of a synthetic disk image.
type PartitionSpec struct {
	Bootable    bool
	BootByte    *byte // overrides Bootable when set
	Type        parttype.PartitionType
	StartSector uint32
	Sectors     uint32
	Head        []byte // written at the first byte of the partition
	Tail        []byte // written so that it ends on the last byte of the partition
}

// BuildImage lays out an MBR with up to four records and the requested
// partition contents. The image is sized to the furthest partition end plus
// padding sectors filled with 0xEE, so reads crossing a boundary are visible.
func BuildImage(specs []PartitionSpec, padding uint32) (*device.Memory, error) {
	if len(specs) > consts.MBR_RECORD_COUNT {
		return nil, fmt.Errorf("too many partitions: %d", len(specs))
	}

	var lastSector uint32 = 1
	for _, s := range specs {
		if end := s.StartSector + s.Sectors; end > lastSector {
			lastSector = end
		}
	}
	size := consts.LBAToOffset(lastSector + padding)
	data := make([]byte, size)
	for i := consts.LBAToOffset(lastSector); i < size; i++ {
		data[i] = 0xEE
	}
	data[consts.MBR_BOOT_SIGNATURE_OFFSET] = 0x55
	data[consts.MBR_BOOT_SIGNATURE_OFFSET+1] = 0xAA

	for i, s := range specs {
		r := record.Record{
			SystemID:       uint8(s.Type),
			RelativeSector: s.StartSector,
			TotalSectors:   s.Sectors,
		}
		if s.Bootable {
			r.BootIndicator = consts.MBR_BOOT_ACTIVE
		}
		if s.BootByte != nil {
			r.BootIndicator = *s.BootByte
		}
		raw, err := r.Marshal()
		if err != nil {
			return nil, err
		}
		copy(data[consts.MBR_RECORDS_START+i*consts.MBR_RECORD_LEN:], raw)

		start := consts.LBAToOffset(s.StartSector)
		end := start + consts.LBAToOffset(s.Sectors)
		if uint64(len(s.Head)+len(s.Tail)) > end-start {
			return nil, fmt.Errorf("partition %d is too small for its markers", i)
		}
		copy(data[start:], s.Head)
		copy(data[end-uint64(len(s.Tail)):], s.Tail)
	}

	return device.NewMemory(data), nil
}

// DummySizes are the partition sizes, in sectors, of DummyImage.
var DummySizes = [consts.MBR_RECORD_COUNT]uint32{17, 33, 65, 84}

// DummyMarkers are the strings found at the start of each DummyImage partition.
var DummyMarkers = [consts.MBR_RECORD_COUNT]string{"Partition1", "Partition2", "Partition3", "Partition4"}

// DummyImage returns a four partition image. Each partition starts with
// "PartitionN" and ends with the digit N. Partition 0 is bootable.
func DummyImage() *device.Memory {
	types := [consts.MBR_RECORD_COUNT]parttype.PartitionType{
		parttype.Linux, parttype.W95FAT32LBA, parttype.NTFS, parttype.LinuxSwap,
	}
	specs := make([]PartitionSpec, 0, consts.MBR_RECORD_COUNT)
	start := uint32(1)
	for i, sectors := range DummySizes {
		marker := DummyMarkers[i]
		specs = append(specs, PartitionSpec{
			Bootable:    i == 0,
			Type:        types[i],
			StartSector: start,
			Sectors:     sectors,
			Head:        []byte(marker),
			Tail:        []byte(marker[len(marker)-1:]),
		})
		start += sectors
	}
	img, err := BuildImage(specs, 1)
	if err != nil {
		panic(err)
	}
	return img
}
