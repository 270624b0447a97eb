package partition_test

import (
	"errors"
	"io"
	"math"
	"testing"

	itesting "github.com/bgrewell/mbr-kit/internal/testing"
	"github.com/bgrewell/mbr-kit/pkg/device"
	"github.com/bgrewell/mbr-kit/pkg/option"
	"github.com/bgrewell/mbr-kit/pkg/partition"
	"github.com/stretchr/testify/require"
)

const (
	testStart = 100
	testEnd   = 200
	testLen   = testEnd - testStart
)

func patternDevice(size int) *device.Memory {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return device.NewMemory(data)
}

func newWindow(t *testing.T, dev device.Device, opts ...option.OpenOption) *partition.Window {
	t.Helper()
	w, err := partition.New(dev, testStart, testEnd, option.Apply(opts...))
	require.NoError(t, err)
	return w
}

func TestNew(t *testing.T) {
	t.Run("seeks the device to the partition start", func(t *testing.T) {
		dev := patternDevice(1000)
		w := newWindow(t, dev)

		require.Equal(t, uint64(testLen), w.Len())
		require.Equal(t, int64(testLen), w.Size())
		require.Equal(t, uint64(0), w.Pos())
		require.Equal(t, uint64(testStart), w.Start())
		require.Equal(t, uint64(testEnd), w.End())

		pos, err := dev.Seek(0, io.SeekCurrent)
		require.NoError(t, err)
		require.Equal(t, int64(testStart), pos)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		_, err := partition.New(patternDevice(10), 5, 4, nil)
		require.Error(t, err)
		require.True(t, errors.Is(err, partition.ErrInvalidBounds))
	})

	t.Run("zero length window is valid", func(t *testing.T) {
		w, err := partition.New(patternDevice(10), 5, 5, nil)
		require.NoError(t, err)
		require.Equal(t, uint64(0), w.Len())

		n, err := w.Read(make([]byte, 4))
		require.Equal(t, 0, n)
		require.Equal(t, io.EOF, err)
	})

	t.Run("seek failure is a device error", func(t *testing.T) {
		faulty := itesting.NewFaultyDevice(patternDevice(1000))
		faulty.SeekErr = errors.New("seek exploded")

		_, err := partition.New(faulty, testStart, testEnd, nil)
		var devErr *partition.DeviceError
		require.True(t, errors.As(err, &devErr))
		require.Equal(t, "seek", devErr.Op)
		require.True(t, errors.Is(err, faulty.SeekErr))
	})
}

func TestWindow_Read(t *testing.T) {
	t.Run("reads are relative to the partition start", func(t *testing.T) {
		dev := patternDevice(1000)
		w := newWindow(t, dev)

		buf := make([]byte, 10)
		n, err := w.Read(buf)
		require.NoError(t, err)
		require.Equal(t, 10, n)
		require.Equal(t, dev.Bytes()[testStart:testStart+10], buf)
		require.Equal(t, uint64(10), w.Pos())
	})

	t.Run("oversized read is clamped to the partition end", func(t *testing.T) {
		dev := patternDevice(1000)
		w := newWindow(t, dev)
		_, err := w.Seek(60, io.SeekStart)
		require.NoError(t, err)

		buf := make([]byte, 150)
		n, err := w.Read(buf)
		require.NoError(t, err)
		require.Equal(t, testLen-60, n)
		require.Equal(t, dev.Bytes()[testStart+60:testEnd], buf[:n])
		require.Equal(t, w.Len(), w.Pos())

		// Nothing past the boundary was copied.
		for _, b := range buf[n:] {
			require.Zero(t, b)
		}
	})

	t.Run("read at the end returns EOF without touching the device", func(t *testing.T) {
		faulty := itesting.NewFaultyDevice(patternDevice(1000))
		w := newWindow(t, faulty)
		_, err := w.Seek(0, io.SeekEnd)
		require.NoError(t, err)

		reads := faulty.Reads
		n, err := w.Read(make([]byte, 10))
		require.Equal(t, 0, n)
		require.Equal(t, io.EOF, err)
		require.Equal(t, reads, faulty.Reads)
	})

	t.Run("empty buffer is a no-op", func(t *testing.T) {
		w := newWindow(t, patternDevice(1000))
		n, err := w.Read(nil)
		require.NoError(t, err)
		require.Zero(t, n)
		require.Zero(t, w.Pos())
	})

	t.Run("read error is tagged as a device error", func(t *testing.T) {
		faulty := itesting.NewFaultyDevice(patternDevice(1000))
		w := newWindow(t, faulty)
		faulty.ReadErr = errors.New("bad sector")

		_, err := w.Read(make([]byte, 10))
		var devErr *partition.DeviceError
		require.True(t, errors.As(err, &devErr))
		require.Equal(t, "read", devErr.Op)
		require.True(t, errors.Is(err, faulty.ReadErr))
	})

	t.Run("EOF from the device is passed through unwrapped", func(t *testing.T) {
		// The device is shorter than the partition claims.
		w, err := partition.New(patternDevice(150), testStart, testEnd, nil)
		require.NoError(t, err)

		buf := make([]byte, testLen)
		n, err := w.Read(buf)
		require.NoError(t, err)
		require.Equal(t, 50, n)

		_, err = w.Read(buf)
		require.Equal(t, io.EOF, err)
	})
}

func TestWindow_Write(t *testing.T) {
	t.Run("round trip at the start of the partition", func(t *testing.T) {
		dev := patternDevice(1000)
		w := newWindow(t, dev)

		payload := []byte("round trip payload")
		n, err := w.Write(payload)
		require.NoError(t, err)
		require.Equal(t, len(payload), n)

		_, err = w.Seek(0, io.SeekStart)
		require.NoError(t, err)

		got := make([]byte, len(payload))
		_, err = io.ReadFull(w, got)
		require.NoError(t, err)
		require.Equal(t, payload, got)
		require.Equal(t, payload, dev.Bytes()[testStart:testStart+len(payload)])
	})

	t.Run("oversized write is clamped to the partition end", func(t *testing.T) {
		dev := patternDevice(1000)
		before := append([]byte{}, dev.Bytes()...)
		w := newWindow(t, dev)
		_, err := w.Seek(50, io.SeekStart)
		require.NoError(t, err)

		payload := make([]byte, 150)
		for i := range payload {
			payload[i] = 0xAB
		}
		n, err := w.Write(payload)
		require.NoError(t, err)
		require.Equal(t, testLen-50, n)
		require.Equal(t, w.Len(), w.Pos())

		// Bytes outside the partition are untouched.
		require.Equal(t, before[:testStart+50], dev.Bytes()[:testStart+50])
		require.Equal(t, before[testEnd:], dev.Bytes()[testEnd:])
		for _, b := range dev.Bytes()[testStart+50 : testEnd] {
			require.Equal(t, byte(0xAB), b)
		}
	})

	t.Run("write at the end transfers nothing and is not an error", func(t *testing.T) {
		faulty := itesting.NewFaultyDevice(patternDevice(1000))
		w := newWindow(t, faulty)
		_, err := w.Seek(0, io.SeekEnd)
		require.NoError(t, err)

		n, err := w.Write([]byte("overflow"))
		require.NoError(t, err)
		require.Zero(t, n)
		require.Zero(t, faulty.Writes)
	})

	t.Run("write error is tagged as a device error", func(t *testing.T) {
		faulty := itesting.NewFaultyDevice(patternDevice(1000))
		faulty.WriteErr = errors.New("read-only medium")
		w := newWindow(t, faulty)

		_, err := w.Write([]byte("x"))
		var devErr *partition.DeviceError
		require.True(t, errors.As(err, &devErr))
		require.Equal(t, "write", devErr.Op)
		require.Contains(t, err.Error(), "read-only medium")
	})
}

func TestWindow_Seek(t *testing.T) {
	t.Run("every origin stays within the partition", func(t *testing.T) {
		offsets := []int64{
			math.MinInt64, -1 << 40, -testLen - 1, -testLen, -testLen + 1, -1,
			0, 1, testLen - 1, testLen, testLen + 1, 1 << 40, math.MaxInt64,
		}
		whences := []int{io.SeekStart, io.SeekCurrent, io.SeekEnd}

		for _, start := range []int64{0, 37, testLen} {
			for _, whence := range whences {
				for _, offset := range offsets {
					w := newWindow(t, patternDevice(1000))
					_, err := w.Seek(start, io.SeekStart)
					require.NoError(t, err)

					pos, err := w.Seek(offset, whence)
					require.NoError(t, err)
					require.GreaterOrEqual(t, pos, int64(0))
					require.LessOrEqual(t, pos, int64(testLen))
					require.Equal(t, uint64(pos), w.Pos())
				}
			}
		}
	})

	t.Run("clamped targets", func(t *testing.T) {
		tests := []struct {
			name   string
			offset int64
			whence int
			want   int64
		}{
			{name: "start in range", offset: 10, whence: io.SeekStart, want: 10},
			{name: "start negative", offset: -10, whence: io.SeekStart, want: 0},
			{name: "start past end", offset: 500, whence: io.SeekStart, want: testLen},
			{name: "current forward", offset: 5, whence: io.SeekCurrent, want: 25},
			{name: "current backward", offset: -5, whence: io.SeekCurrent, want: 15},
			{name: "current below zero", offset: -21, whence: io.SeekCurrent, want: 0},
			{name: "current overflow", offset: math.MaxInt64, whence: io.SeekCurrent, want: testLen},
			{name: "current underflow", offset: math.MinInt64, whence: io.SeekCurrent, want: 0},
			{name: "end exact", offset: 0, whence: io.SeekEnd, want: testLen},
			{name: "end minus one", offset: -1, whence: io.SeekEnd, want: testLen - 1},
			{name: "end positive", offset: 1, whence: io.SeekEnd, want: testLen},
			{name: "end before start", offset: -testLen - 1, whence: io.SeekEnd, want: 0},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dev := patternDevice(1000)
				w := newWindow(t, dev)
				_, err := w.Seek(20, io.SeekStart)
				require.NoError(t, err)

				pos, err := w.Seek(tt.offset, tt.whence)
				require.NoError(t, err)
				require.Equal(t, tt.want, pos)

				// The device cursor is translated to the absolute position.
				abs, err := dev.Seek(0, io.SeekCurrent)
				require.NoError(t, err)
				require.Equal(t, testStart+tt.want, abs)
			})
		}
	})

	t.Run("last byte is reachable from the end", func(t *testing.T) {
		dev := patternDevice(1000)
		w := newWindow(t, dev)
		_, err := w.Seek(-1, io.SeekEnd)
		require.NoError(t, err)

		buf := make([]byte, 4)
		n, err := w.Read(buf)
		require.NoError(t, err)
		require.Equal(t, 1, n)
		require.Equal(t, dev.Bytes()[testEnd-1], buf[0])
	})

	t.Run("invalid whence", func(t *testing.T) {
		w := newWindow(t, patternDevice(1000))
		_, err := w.Seek(0, 7)
		require.True(t, errors.Is(err, partition.ErrInvalidWhence))
	})

	t.Run("device failure leaves the cursor in place", func(t *testing.T) {
		faulty := itesting.NewFaultyDevice(patternDevice(1000))
		w := newWindow(t, faulty)
		_, err := w.Seek(30, io.SeekStart)
		require.NoError(t, err)

		faulty.SeekErr = errors.New("seek exploded")
		_, err = w.Seek(10, io.SeekStart)
		var devErr *partition.DeviceError
		require.True(t, errors.As(err, &devErr))
		require.Equal(t, uint64(30), w.Pos())
	})
}

func TestWindow_CursorPolicy(t *testing.T) {
	t.Run("requested length is the default", func(t *testing.T) {
		faulty := itesting.NewFaultyDevice(patternDevice(1000))
		faulty.MaxRead = 4
		faulty.MaxWrite = 3
		w := newWindow(t, faulty)

		n, err := w.Read(make([]byte, 10))
		require.NoError(t, err)
		require.Equal(t, 4, n)
		require.Equal(t, uint64(10), w.Pos())

		n, err = w.Write(make([]byte, 10))
		require.NoError(t, err)
		require.Equal(t, 3, n)
		require.Equal(t, uint64(20), w.Pos())
	})

	t.Run("transferred length follows the device", func(t *testing.T) {
		faulty := itesting.NewFaultyDevice(patternDevice(1000))
		faulty.MaxRead = 4
		faulty.MaxWrite = 3
		w := newWindow(t, faulty, option.WithCursorPolicy(option.CURSOR_ADVANCE_TRANSFERRED))

		n, err := w.Read(make([]byte, 10))
		require.NoError(t, err)
		require.Equal(t, 4, n)
		require.Equal(t, uint64(4), w.Pos())

		n, err = w.Write(make([]byte, 10))
		require.NoError(t, err)
		require.Equal(t, 3, n)
		require.Equal(t, uint64(7), w.Pos())
	})

	t.Run("transferred policy keeps the cursor on failure", func(t *testing.T) {
		faulty := itesting.NewFaultyDevice(patternDevice(1000))
		faulty.ReadErr = errors.New("bad sector")
		w := newWindow(t, faulty, option.WithCursorPolicy(option.CURSOR_ADVANCE_TRANSFERRED))

		_, err := w.Read(make([]byte, 10))
		require.Error(t, err)
		require.Zero(t, w.Pos())
	})
}

func TestWindow_Flush(t *testing.T) {
	faulty := itesting.NewFaultyDevice(patternDevice(1000))
	w := newWindow(t, faulty)
	require.NoError(t, w.Flush())

	faulty.FlushErr = errors.New("sync failed")
	err := w.Flush()
	var devErr *partition.DeviceError
	require.True(t, errors.As(err, &devErr))
	require.Equal(t, "flush", devErr.Op)
}

func TestWindow_Release(t *testing.T) {
	w := newWindow(t, patternDevice(1000))
	calls := 0
	w.OnRelease(func() { calls++ })

	require.NoError(t, w.Release())
	require.NoError(t, w.Close())
	require.Equal(t, 1, calls)

	_, err := w.Read(make([]byte, 1))
	require.True(t, errors.Is(err, partition.ErrWindowReleased))
	_, err = w.Write([]byte{1})
	require.True(t, errors.Is(err, partition.ErrWindowReleased))
	_, err = w.Seek(0, io.SeekStart)
	require.True(t, errors.Is(err, partition.ErrWindowReleased))
	require.True(t, errors.Is(w.Flush(), partition.ErrWindowReleased))
}
