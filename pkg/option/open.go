package option

import (
	"github.com/bgrewell/mbr-kit/pkg/logging"
)

// CursorPolicy controls how far a partition window advances its cursor on a
// read or write.
type CursorPolicy int

const (
	// CURSOR_ADVANCE_REQUESTED advances by the clamped requested length before
	// the device is called, even if the device moves fewer bytes.
	CURSOR_ADVANCE_REQUESTED CursorPolicy = iota
	// CURSOR_ADVANCE_TRANSFERRED advances by the byte count the device reports.
	CURSOR_ADVANCE_TRANSFERRED
)

func (p CursorPolicy) String() string {
	switch p {
	case CURSOR_ADVANCE_REQUESTED:
		return "requested"
	case CURSOR_ADVANCE_TRANSFERRED:
		return "transferred"
	default:
		return "unknown"
	}
}

// ProgressCallback receives copy progress for a single partition.
type ProgressCallback func(
	bytesTransferred int64,
	totalBytes int64,
)

type OpenOptions struct {
	ReadOnly             bool
	StrictPartitionTypes bool
	ValidateDeviceSize   bool
	CursorPolicy         CursorPolicy
	ProgressCallback     ProgressCallback
	Logger               *logging.Logger
}

type OpenOption func(*OpenOptions)

// DefaultOpenOptions returns the options used when none are supplied.
func DefaultOpenOptions() *OpenOptions {
	return &OpenOptions{
		ReadOnly:             false,
		StrictPartitionTypes: false,
		ValidateDeviceSize:   false,
		CursorPolicy:         CURSOR_ADVANCE_REQUESTED,
		ProgressCallback:     func(int64, int64) {},
		Logger:               logging.DefaultLogger(),
	}
}

// Apply builds OpenOptions from the defaults and opts.
func Apply(opts ...OpenOption) *OpenOptions {
	o := DefaultOpenOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = logging.DefaultLogger()
	}
	if o.ProgressCallback == nil {
		o.ProgressCallback = func(int64, int64) {}
	}
	return o
}

func WithLogger(logger *logging.Logger) OpenOption {
	return func(o *OpenOptions) {
		o.Logger = logger
	}
}

// WithReadOnly opens file backed devices without write access.
func WithReadOnly(readOnly bool) OpenOption {
	return func(o *OpenOptions) {
		o.ReadOnly = readOnly
	}
}

// WithStrictPartitionTypes makes an unrecognized system ID byte fail table
// construction instead of being kept as an unrecognized type.
func WithStrictPartitionTypes(strict bool) OpenOption {
	return func(o *OpenOptions) {
		o.StrictPartitionTypes = strict
	}
}

// WithDeviceSizeValidation checks every non-empty partition against the size
// of the device when the table is opened.
func WithDeviceSizeValidation(validate bool) OpenOption {
	return func(o *OpenOptions) {
		o.ValidateDeviceSize = validate
	}
}

func WithCursorPolicy(policy CursorPolicy) OpenOption {
	return func(o *OpenOptions) {
		o.CursorPolicy = policy
	}
}

// WithProgress sets a callback that is called while a partition is copied.
// Parameters:
// - bytesTransferred: The number of bytes copied so far.
// - totalBytes: The length of the partition.
func WithProgress(callback ProgressCallback) OpenOption {
	return func(o *OpenOptions) {
		o.ProgressCallback = callback
	}
}
