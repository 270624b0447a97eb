// Package device defines the block device abstraction the partition table is
// decoded from, along with file and in-memory implementations.
package device

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Device is a synchronous, seekable byte device. A partition window
// satisfies the same interface so it can be handed to any consumer of a
// generic device.
type Device interface {
	io.Reader
	io.Writer
	io.Seeker
	Flush() error
}

// File adapts an *os.File to Device. Flush maps to Sync.
type File struct {
	*os.File
}

// OpenFile opens the file or block device at path.
func OpenFile(path string, readOnly bool) (*File, error) {
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &File{File: f}, nil
}

func (f *File) Flush() error {
	return f.Sync()
}

type nopFlusher struct {
	io.ReadWriteSeeker
}

func (nopFlusher) Flush() error { return nil }

// NopFlusher returns a Device with a no-op Flush wrapping rws.
func NopFlusher(rws io.ReadWriteSeeker) Device {
	return nopFlusher{rws}
}

// Size reports the addressable size of dev by seeking to its end. The
// cursor is restored before returning.
func Size(dev io.Seeker) (int64, error) {
	cur, err := dev.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("failed to get current position: %w", err)
	}
	end, err := dev.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to seek to end: %w", err)
	}
	if _, err := dev.Seek(cur, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to restore position: %w", err)
	}
	return end, nil
}

var (
	ErrNegativePosition = errors.New("negative position")
)

// Memory is a growable in-memory device. Writes past the end extend it with
// zero fill, reads past the end return io.EOF.
type Memory struct {
	data []byte
	pos  int64
}

// NewMemory returns a device backed by data. The slice is used directly.
func NewMemory(data []byte) *Memory {
	return &Memory{data: data}
}

func (m *Memory) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *Memory) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	n := copy(m.data[m.pos:end], p)
	m.pos = end
	return n, nil
}

func (m *Memory) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.pos + offset
	case io.SeekEnd:
		abs = int64(len(m.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativePosition, abs)
	}
	m.pos = abs
	return abs, nil
}

func (m *Memory) Flush() error {
	return nil
}

// Bytes returns the backing slice.
func (m *Memory) Bytes() []byte {
	return m.data
}

func (m *Memory) Size() int64 {
	return int64(len(m.data))
}
