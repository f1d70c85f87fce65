package factor

import "math/big"

// TrialDivide factors a small integer by exhaustive trial division.
// It exists so that inputs at or below SmallCompositeThreshold never pay for
// a polynomial context.
//
// Returns the smallest divisor d with 1 < d < n, or nil when n is prime,
// 1, zero or negative.
func TrialDivide(n *big.Int) *big.Int {
	if n == nil || !n.IsInt64() {
		return nil
	}
	v := n.Int64()
	if v <= 3 {
		return nil
	}
	for d := int64(2); d*d <= v; d++ {
		if v%d == 0 {
			return big.NewInt(d)
		}
	}
	return nil
}
