package sysmem

import "errors"

// ErrUnsupported is returned on platforms without a system memory query.
var ErrUnsupported = errors.New("sysmem: system memory query not supported on this platform")

// Snapshot captures system memory state at a point in time.
type Snapshot struct {
	// TotalBytes is the total physical RAM.
	TotalBytes uint64
	// UsedBytes is an estimate of RAM in use: total minus free minus
	// buffers. Page cache beyond buffers is counted as used, which makes
	// the estimate conservative for budgeting purposes.
	UsedBytes uint64
}
