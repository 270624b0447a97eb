// Package partition exposes a single partition of a device as a bounded
// stream whose address space is [0, length).
package partition

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/bgrewell/mbr-kit/pkg/device"
	"github.com/bgrewell/mbr-kit/pkg/logging"
	"github.com/bgrewell/mbr-kit/pkg/option"
)

var (
	// ErrWindowReleased is returned by every operation on a window after Release.
	ErrWindowReleased = errors.New("partition window has been released")
	// ErrInvalidWhence is returned by Seek for an unknown origin.
	ErrInvalidWhence = errors.New("invalid whence")
	// ErrInvalidBounds is returned when the end of a window lies before its start.
	ErrInvalidBounds = errors.New("invalid partition bounds")
)

// DeviceError tags a failure reported by the underlying device. Clamping at
// the partition boundary never produces an error.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device %s failed: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// deviceError wraps err for op. io.EOF is passed through untouched so that
// io.ReadFull and friends keep recognising it.
func deviceError(op string, err error) error {
	if err == nil || err == io.EOF {
		return err
	}
	return &DeviceError{Op: op, Err: err}
}

// Window is a read/write/seek view over [start, end) of a device. The device
// cursor is assumed to be owned by the window for as long as it is alive.
type Window struct {
	dev       device.Device
	start     uint64
	end       uint64
	pos       uint64
	policy    option.CursorPolicy
	logger    *logging.Logger
	onRelease func()
	released  bool
}

var _ device.Device = (*Window)(nil)

// New creates a window over [start, end) of dev and seeks dev to start.
func New(dev device.Device, start, end uint64, opts *option.OpenOptions) (*Window, error) {
	if opts == nil {
		opts = option.DefaultOpenOptions()
	}
	if end < start {
		return nil, fmt.Errorf("%w: start %d, end %d", ErrInvalidBounds, start, end)
	}
	if end > math.MaxInt64 {
		return nil, fmt.Errorf("%w: end %d is not addressable", ErrInvalidBounds, end)
	}
	if _, err := dev.Seek(int64(start), io.SeekStart); err != nil {
		return nil, deviceError("seek", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Window{
		dev:    dev,
		start:  start,
		end:    end,
		policy: opts.CursorPolicy,
		logger: logger.WithName("window").WithValues("start", start, "length", end-start),
	}, nil
}

// OnRelease registers fn to be called once when the window is released.
func (w *Window) OnRelease(fn func()) {
	w.onRelease = fn
}

// Len is the partition length in bytes.
func (w *Window) Len() uint64 {
	return w.end - w.start
}

// Size is Len as an int64, for consumers that size streams that way.
func (w *Window) Size() int64 {
	return int64(w.Len())
}

// Pos is the current cursor, relative to the start of the partition.
func (w *Window) Pos() uint64 {
	return w.pos
}

// Start is the absolute device offset of the first partition byte.
func (w *Window) Start() uint64 {
	return w.start
}

// End is the absolute device offset just past the partition.
func (w *Window) End() uint64 {
	return w.end
}

func (w *Window) available() uint64 {
	return w.Len() - w.pos
}

// clamp shortens n to what is left before the end of the partition.
func (w *Window) clamp(op string, n int) int {
	available := w.available()
	if uint64(n) > available {
		w.logger.Trace("clamped to partition end", "op", op, "requested", n, "available", available)
		return int(available)
	}
	return n
}

// advance moves the cursor after a transfer of n bytes out of a clamped
// request of size requested.
func (w *Window) advance(requested, n int) {
	switch w.policy {
	case option.CURSOR_ADVANCE_TRANSFERRED:
		if n < 0 {
			n = 0
		}
		if n > requested {
			n = requested
		}
		w.pos += uint64(n)
	default:
		// The cursor was already moved before the device was called.
	}
}

// Read reads at most Len()-Pos() bytes. At the end of the partition a
// non-empty read returns 0, io.EOF and never touches the device.
func (w *Window) Read(p []byte) (int, error) {
	if w.released {
		return 0, ErrWindowReleased
	}
	if len(p) == 0 {
		return 0, nil
	}
	if w.available() == 0 {
		return 0, io.EOF
	}
	p = p[:w.clamp("read", len(p))]

	if w.policy == option.CURSOR_ADVANCE_REQUESTED {
		w.pos += uint64(len(p))
	}
	n, err := w.dev.Read(p)
	w.advance(len(p), n)
	return n, deviceError("read", err)
}

// Write writes at most Len()-Pos() bytes. The clamp is not an error: a write
// at the end of the partition transfers nothing and returns 0, nil.
func (w *Window) Write(p []byte) (int, error) {
	if w.released {
		return 0, ErrWindowReleased
	}
	p = p[:w.clamp("write", len(p))]
	if len(p) == 0 {
		return 0, nil
	}

	if w.policy == option.CURSOR_ADVANCE_REQUESTED {
		w.pos += uint64(len(p))
	}
	n, err := w.dev.Write(p)
	w.advance(len(p), n)
	return n, deviceError("write", err)
}

// Seek moves the cursor relative to whence, clamped to [0, Len()]. Landing
// exactly on Len() is valid.
func (w *Window) Seek(offset int64, whence int) (int64, error) {
	if w.released {
		return 0, ErrWindowReleased
	}
	length := int64(w.Len())

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = saturatingAdd(int64(w.pos), offset)
	case io.SeekEnd:
		target = saturatingAdd(length, offset)
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidWhence, whence)
	}
	target = clampRange(target, 0, length)

	if _, err := w.dev.Seek(int64(w.start)+target, io.SeekStart); err != nil {
		return 0, deviceError("seek", err)
	}
	w.pos = uint64(target)
	w.logger.Trace("seek", "whence", whence, "offset", offset, "pos", target)
	return target, nil
}

// Flush flushes the underlying device.
func (w *Window) Flush() error {
	if w.released {
		return ErrWindowReleased
	}
	return deviceError("flush", w.dev.Flush())
}

// Release gives the device back to its owner. The window is unusable
// afterwards. Releasing twice is a no-op.
func (w *Window) Release() error {
	if w.released {
		return nil
	}
	w.released = true
	w.logger.Debug("released")
	if w.onRelease != nil {
		w.onRelease()
	}
	return nil
}

// Close is Release, so a window can be used as an io.Closer.
func (w *Window) Close() error {
	return w.Release()
}

// saturatingAdd returns a+b for a >= 0, pinned to math.MaxInt64 instead of
// wrapping.
func saturatingAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func clampRange(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
