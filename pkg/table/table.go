// Package table decodes the four primary partition records of a Master Boot
// Record and hands out bounded windows over the partitions they describe.
package table

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bgrewell/mbr-kit/pkg/consts"
	"github.com/bgrewell/mbr-kit/pkg/device"
	"github.com/bgrewell/mbr-kit/pkg/logging"
	"github.com/bgrewell/mbr-kit/pkg/option"
	"github.com/bgrewell/mbr-kit/pkg/partition"
	"github.com/bgrewell/mbr-kit/pkg/parttype"
	"github.com/bgrewell/mbr-kit/pkg/record"
)

var (
	ErrShortRead            = errors.New("short read of partition records")
	ErrSlotOutOfRange       = errors.New("partition slot out of range")
	ErrPartitionInUse       = errors.New("a partition window is already open")
	ErrPartitionOutOfBounds = errors.New("partition extends past the end of the device")
	ErrClosed               = errors.New("partition table is closed")
)

// Descriptor is the decoded, immutable view of one partition record.
type Descriptor struct {
	Slot          int
	RelativeStart uint64
	Length        uint64
	Type          parttype.PartitionType
	Bootable      bool
	Record        record.Record
}

// End is the absolute device offset just past the partition.
func (d Descriptor) End() uint64 {
	return d.RelativeStart + d.Length
}

func (d Descriptor) IsEmpty() bool {
	return d.Record.IsEmpty()
}

func (d Descriptor) String() string {
	boot := " "
	if d.Bootable {
		boot = "*"
	}
	return fmt.Sprintf("%d %s start=%d length=%d type=0x%02x (%s)",
		d.Slot, boot, d.RelativeStart, d.Length, byte(d.Type), d.Type)
}

// Table owns a device and the four descriptors decoded from it. At most one
// partition window can be leased from a table at a time.
type Table struct {
	dev         device.Device
	descriptors [consts.MBR_RECORD_COUNT]Descriptor
	opts        *option.OpenOptions
	logger      *logging.Logger
	leased      bool
	closed      bool
}

// Open reads the partition records of dev. The table takes ownership of dev.
func Open(dev device.Device, opts ...option.OpenOption) (*Table, error) {
	o := option.Apply(opts...)
	t := &Table{
		dev:    dev,
		opts:   o,
		logger: o.Logger.WithName("mbr"),
	}

	if _, err := dev.Seek(consts.MBR_RECORDS_START, io.SeekStart); err != nil {
		return nil, &partition.DeviceError{Op: "seek", Err: err}
	}
	buf := make([]byte, consts.MBR_RECORDS_LEN)
	n, err := dev.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &partition.DeviceError{Op: "read", Err: err}
	}
	if n < consts.MBR_RECORDS_LEN {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, n, consts.MBR_RECORDS_LEN)
	}

	for i := range t.descriptors {
		d, err := decodeDescriptor(i, buf[i*consts.MBR_RECORD_LEN:(i+1)*consts.MBR_RECORD_LEN])
		if err != nil {
			if !errors.Is(err, parttype.ErrUnknownPartitionType) || o.StrictPartitionTypes {
				return nil, fmt.Errorf("failed to decode partition %d: %w", i, err)
			}
			t.logger.Debug("keeping unrecognized partition type", "slot", i, "type", fmt.Sprintf("0x%02x", byte(d.Type)))
		}
		t.descriptors[i] = d
		t.logger.Trace("decoded partition record", "slot", i, "start", d.RelativeStart, "length", d.Length,
			"type", d.Type.String(), "bootable", d.Bootable)
	}

	if o.ValidateDeviceSize {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}

	t.logger.Debug("partition table opened")
	return t, nil
}

// decodeDescriptor decodes one record. On an unrecognized type the returned
// descriptor is complete and the error wraps parttype.ErrUnknownPartitionType.
func decodeDescriptor(slot int, raw []byte) (Descriptor, error) {
	var r record.Record
	if err := r.Unmarshal(raw); err != nil {
		return Descriptor{}, err
	}
	pt, typeErr := parttype.Lookup(r.SystemID)
	return Descriptor{
		Slot:          slot,
		RelativeStart: r.StartOffset(),
		Length:        r.Length(),
		Type:          pt,
		Bootable:      r.Bootable(),
		Record:        r,
	}, typeErr
}

// Validate checks every non-empty partition against the size of the device.
func (t *Table) Validate() error {
	if t.leased {
		return ErrPartitionInUse
	}
	size, err := device.Size(t.dev)
	if err != nil {
		return &partition.DeviceError{Op: "seek", Err: err}
	}
	for _, d := range t.descriptors {
		if d.IsEmpty() {
			continue
		}
		if d.End() > uint64(size) {
			return fmt.Errorf("%w: partition %d ends at %d, device size is %d",
				ErrPartitionOutOfBounds, d.Slot, d.End(), size)
		}
	}
	return nil
}

func validSlot(slot int) bool {
	return slot >= 0 && slot < consts.MBR_RECORD_COUNT
}

// GetPartition leases a window over the partition in slot. The window must be
// released before another one can be obtained.
func (t *Table) GetPartition(slot int) (*partition.Window, error) {
	if !validSlot(slot) {
		return nil, fmt.Errorf("%w: %d", ErrSlotOutOfRange, slot)
	}
	if t.closed {
		return nil, ErrClosed
	}
	if t.leased {
		return nil, ErrPartitionInUse
	}

	d := t.descriptors[slot]
	w, err := partition.New(t.dev, d.RelativeStart, d.End(), t.opts)
	if err != nil {
		return nil, err
	}
	t.leased = true
	w.OnRelease(func() {
		t.leased = false
	})
	t.logger.Debug("leased partition window", "slot", slot)
	return w, nil
}

// GetPartitionType returns the type of slot, or parttype.Empty for a slot
// outside 0-3.
func (t *Table) GetPartitionType(slot int) parttype.PartitionType {
	if !validSlot(slot) {
		return parttype.Empty
	}
	return t.descriptors[slot].Type
}

// IsBootable reports the boot flag of slot. Slots outside 0-3 are never bootable.
func (t *Table) IsBootable(slot int) bool {
	if !validSlot(slot) {
		return false
	}
	return t.descriptors[slot].Bootable
}

func (t *Table) Descriptor(slot int) (Descriptor, error) {
	if !validSlot(slot) {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrSlotOutOfRange, slot)
	}
	return t.descriptors[slot], nil
}

// Descriptors returns a copy of all four descriptors.
func (t *Table) Descriptors() [consts.MBR_RECORD_COUNT]Descriptor {
	return t.descriptors
}

// Leased reports whether a partition window is currently open.
func (t *Table) Leased() bool {
	return t.leased
}

func (t *Table) String() string {
	var sb strings.Builder
	for _, d := range t.descriptors {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Close closes the device if it implements io.Closer. It fails while a
// window is still leased.
func (t *Table) Close() error {
	if t.closed {
		return nil
	}
	if t.leased {
		return ErrPartitionInUse
	}
	t.closed = true
	if c, ok := t.dev.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
