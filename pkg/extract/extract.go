// Package extract copies a partition window out to a writer, optionally
// compressing it on the way.
package extract

import (
	"errors"
	"fmt"
	"io"

	"github.com/bgrewell/mbr-kit/pkg/option"
	"github.com/bgrewell/mbr-kit/pkg/partition"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

type Algorithm string

const (
	NONE Algorithm = "none"
	GZIP Algorithm = "gzip"
	ZSTD Algorithm = "zstd"
	ZLIB Algorithm = "zlib"
)

const copyBufferSize = 64 * 1024

var ErrUnsupportedAlgorithm = errors.New("unsupported compression algorithm")

// ParseAlgorithm maps a name to an Algorithm. An empty name means NONE.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "", NONE:
		return NONE, nil
	case GZIP, ZSTD, ZLIB:
		return Algorithm(name), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, name)
}

// Extension is the file suffix conventionally used for the algorithm.
func (a Algorithm) Extension() string {
	switch a {
	case GZIP:
		return ".gz"
	case ZSTD:
		return ".zst"
	case ZLIB:
		return ".zlib"
	default:
		return ""
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func newCompressor(a Algorithm, dst io.Writer) (io.WriteCloser, error) {
	switch a {
	case NONE:
		return nopWriteCloser{dst}, nil
	case GZIP:
		return gzip.NewWriter(dst), nil
	case ZLIB:
		return zlib.NewWriter(dst), nil
	case ZSTD:
		enc, err := zstd.NewWriter(dst)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, a)
}

// progressReader reports the running total after every read.
type progressReader struct {
	r        io.Reader
	total    int64
	done     int64
	callback option.ProgressCallback
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.done += int64(n)
		p.callback(p.done, p.total)
	}
	return n, err
}

// Partition writes the whole of w to dst, compressed with a, and returns the
// number of uncompressed bytes copied. The window is rewound first.
func Partition(dst io.Writer, w *partition.Window, a Algorithm, progress option.ProgressCallback) (int64, error) {
	if progress == nil {
		progress = func(int64, int64) {}
	}
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to rewind partition: %w", err)
	}

	out, err := newCompressor(a, dst)
	if err != nil {
		return 0, err
	}

	src := &progressReader{r: w, total: w.Size(), callback: progress}
	n, err := io.CopyBuffer(out, src, make([]byte, copyBufferSize))
	if err != nil {
		_ = out.Close()
		return n, fmt.Errorf("failed to copy partition: %w", err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("failed to finish %s stream: %w", a, err)
	}
	return n, nil
}
