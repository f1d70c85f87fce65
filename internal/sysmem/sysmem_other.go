//go:build !linux

package sysmem

import "runtime"

// ReadSnapshot is unsupported on non-Linux platforms; callers fall back to
// explicit -max-memory budgets.
func ReadSnapshot() (Snapshot, error) {
	return Snapshot{}, ErrUnsupported
}

// PeakRSSBytes approximates peak memory with the Go heap high-water mark.
// This undercounts C allocations (e.g., the GMP engine) but keeps the
// end-of-run report meaningful on platforms without getrusage.
func PeakRSSBytes() (int64, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return int64(ms.HeapSys), nil
}
