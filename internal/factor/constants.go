package factor

// Algorithm thresholds and the memory cost model. The cost model is a
// heuristic linear fit, not exact accounting: its constants were calibrated
// against observed peak RSS and may be recalibrated per engine.
const (
	// SmallCompositeThreshold is the largest N handled by plain trial
	// division instead of the polynomial pipeline.
	SmallCompositeThreshold = 1000

	// MinStepSizeFloor is the smallest step size the selector will settle
	// on when a memory budget cannot be honored. Below this the pipeline
	// overhead dwarfs any memory savings.
	MinStepSizeFloor = 1000

	// FixedOverheadBytes is the engine/runtime baseline charged before any
	// per-step cost: context state, code, allocator slack.
	FixedOverheadBytes = 25 << 20

	// Per-step cost: perStepWordBytes * (perStepBaseBytes +
	// perStepModulusFactor * byteLen(N)) bytes for one leaf polynomial,
	// its tree-internal duplicates, and working buffers.
	perStepBaseBytes     = 256
	perStepModulusFactor = 4
	perStepWordBytes     = 8
)

// cancelCheckInterval is how many backtracking candidates are scanned between
// context cancellation checks.
const cancelCheckInterval = 4096

// Progress fractions at the end of each pipeline phase. Tree construction and
// evaluation carry most of the weight because they dominate run time.
const (
	progressSelectionDone = 0.05
	progressLeavesBuilt   = 0.10
	progressTreeBuilt     = 0.70
	progressEvaluated     = 0.95
	progressComplete      = 1.0
)
