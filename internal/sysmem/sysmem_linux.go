//go:build linux

// Package sysmem queries system memory characteristics: total and used
// physical RAM (for deriving a memory budget from a free-RAM percentage)
// and the process peak resident set size (for the end-of-run report).
//
// The package reports what the kernel exposes; it makes no attempt to model
// cgroup limits or overcommit. Values are snapshots and can be stale by the
// time they are used.
package sysmem

import (
	"golang.org/x/sys/unix"
)

// ReadSnapshot reads the current system memory state via sysinfo(2).
//
// Returns:
//   - Snapshot: The current memory snapshot.
//   - error: An error if the sysinfo call fails.
func ReadSnapshot() (Snapshot, error) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return Snapshot{}, err
	}
	unit := uint64(si.Unit)
	total := uint64(si.Totalram) * unit
	free := uint64(si.Freeram) * unit
	buffered := uint64(si.Bufferram) * unit

	used := total
	if free+buffered < total {
		used = total - free - buffered
	}
	return Snapshot{TotalBytes: total, UsedBytes: used}, nil
}

// PeakRSSBytes returns the peak resident set size of the current process.
// On Linux, getrusage(2) reports ru_maxrss in kilobytes.
//
// Returns:
//   - int64: The peak RSS in bytes.
//   - error: An error if the getrusage call fails.
func PeakRSSBytes() (int64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	return ru.Maxrss * 1024, nil
}
