package testing

import (
	"github.com/bgrewell/mbr-kit/pkg/device"
)

// FaultyDevice wraps a device and injects failures or short transfers.
type FaultyDevice struct {
	device.Device

	// MaxRead and MaxWrite cap the bytes moved per call when non-zero.
	MaxRead  int
	MaxWrite int

	SeekErr  error
	ReadErr  error
	WriteErr error
	FlushErr error

	Seeks  int
	Reads  int
	Writes int
}

func NewFaultyDevice(dev device.Device) *FaultyDevice {
	return &FaultyDevice{Device: dev}
}

func (f *FaultyDevice) Seek(offset int64, whence int) (int64, error) {
	f.Seeks++
	if f.SeekErr != nil {
		return 0, f.SeekErr
	}
	return f.Device.Seek(offset, whence)
}

func (f *FaultyDevice) Read(p []byte) (int, error) {
	f.Reads++
	if f.ReadErr != nil {
		return 0, f.ReadErr
	}
	if f.MaxRead > 0 && len(p) > f.MaxRead {
		p = p[:f.MaxRead]
	}
	return f.Device.Read(p)
}

func (f *FaultyDevice) Write(p []byte) (int, error) {
	f.Writes++
	if f.WriteErr != nil {
		return 0, f.WriteErr
	}
	if f.MaxWrite > 0 && len(p) > f.MaxWrite {
		p = p[:f.MaxWrite]
	}
	return f.Device.Write(p)
}

func (f *FaultyDevice) Flush() error {
	if f.FlushErr != nil {
		return f.FlushErr
	}
	return f.Device.Flush()
}

// Calls is the number of seek, read and write calls seen so far.
func (f *FaultyDevice) Calls() int {
	return f.Seeks + f.Reads + f.Writes
}
