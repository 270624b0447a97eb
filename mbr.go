package mbr

import (
	"github.com/bgrewell/mbr-kit/pkg/device"
	"github.com/bgrewell/mbr-kit/pkg/option"
	"github.com/bgrewell/mbr-kit/pkg/table"
)

// Open opens the disk image or block device at location and decodes its
// partition table. The returned table owns the file; Close releases it.
func Open(location string, opts ...option.OpenOption) (*table.Table, error) {
	o := option.Apply(opts...)
	f, err := device.OpenFile(location, o.ReadOnly)
	if err != nil {
		return nil, err
	}
	t, err := table.Open(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return t, nil
}

// New decodes the partition table of an already opened device.
func New(dev device.Device, opts ...option.OpenOption) (*table.Table, error) {
	return table.Open(dev, opts...)
}
