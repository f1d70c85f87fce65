package factor

import "math/big"

// Options carries the per-run tuning knobs for a Factorer.
// The zero value means: no bound, no memory budget, sequential tree merges.
type Options struct {
	// Bound restricts the search to factors <= Bound. Nil means no bound;
	// the step size is then derived from N alone.
	Bound *big.Int

	// MaxMemoryBytes caps the step size via the memory cost model.
	// Zero or negative means unbounded.
	MaxMemoryBytes int64

	// TreeWorkers is the number of concurrent product-tree merge workers.
	// Values below 2 select the sequential build.
	TreeWorkers int
}
