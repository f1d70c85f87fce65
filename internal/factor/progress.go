package factor

// ProgressUpdate reports the completion fraction of one factoring run.
// FactorerIndex distinguishes concurrent runs (e.g., the "all" engine mode)
// sharing a single progress channel.
type ProgressUpdate struct {
	FactorerIndex int
	Value         float64
}
