package factor

import "math/big"

// CostModel estimates the memory footprint of a run as a linear function of
// the step size: FixedOverheadBytes plus PerStepBytes per unit of L.
// The per-step cost grows with the byte length of N because every polynomial
// coefficient is a residue modulo N.
type CostModel struct {
	FixedBytes   int64
	PerStepBytes int64
}

// NewCostModel builds the cost model for factoring n.
func NewCostModel(n *big.Int) CostModel {
	byteLen := int64((n.BitLen() + 7) / 8)
	return CostModel{
		FixedBytes:   FixedOverheadBytes,
		PerStepBytes: perStepWordBytes * (perStepBaseBytes + perStepModulusFactor*byteLen),
	}
}

// MaxStepSize returns the largest step size that fits in budgetBytes.
// The second return value is false when the budget does not even cover the
// fixed overhead; the caller is expected to fall back to MinStepSizeFloor
// and warn that the budget cannot be honored.
func (m CostModel) MaxStepSize(budgetBytes int64) (uint64, bool) {
	available := budgetBytes - m.FixedBytes
	if available <= 0 {
		return 0, false
	}
	return uint64(available / m.PerStepBytes), true
}

// RequiredBytes returns the estimated footprint of a run with step size l.
func (m CostModel) RequiredBytes(l uint64) int64 {
	return m.FixedBytes + int64(l)*m.PerStepBytes
}
