package factor

import (
	"math/big"

	"github.com/rs/zerolog/log"

	apperrors "github.com/agbru/psfactor/internal/errors"
)

// StepSizeSource identifies how the pre-clamp step size was derived.
type StepSizeSource string

const (
	// StepSizeFromBound means L = ceil(sqrt(bound)).
	StepSizeFromBound StepSizeSource = "bound"
	// StepSizeDefault means L = floor(N^(1/4)) + 1.
	StepSizeDefault StepSizeSource = "default"
)

// StepSize is the outcome of step-size selection. A clamped step size narrows
// the guaranteed factor coverage to [1, L²], so callers surface Clamped to
// the user.
type StepSize struct {
	L           uint64
	Source      StepSizeSource
	Clamped     bool
	MaxByBudget uint64
	// BudgetHonored is false when the budget was below even the fixed
	// overhead and the floor step size was used instead.
	BudgetHonored bool
}

// Coverage returns L², the largest factor the run is guaranteed to cover.
func (s StepSize) Coverage() *big.Int {
	l := new(big.Int).SetUint64(s.L)
	return l.Mul(l, l)
}

// SelectStepSize derives the step size for factoring n.
//
// With a bound B the step size is ceil(sqrt(B)), so the scanned range
// [1, L²] covers [1, B]. Without a bound it is floor(N^(1/4)) + 1, computed
// with exact integer square roots; float64 loses precision long before N
// reaches interesting sizes. A positive budgetBytes clamps the result via
// the cost model.
//
// Parameters:
//   - n: The integer being factored (> SmallCompositeThreshold).
//   - bound: Optional factor bound; nil means unbounded.
//   - budgetBytes: Memory budget in bytes; <= 0 means unbounded.
//
// Returns:
//   - StepSize: The selected step size and its provenance.
//   - error: A ConfigError if the derived step size overflows uint64.
func SelectStepSize(n, bound *big.Int, budgetBytes int64) (StepSize, error) {
	var (
		raw    *big.Int
		source StepSizeSource
	)
	if bound != nil {
		raw = ceilSqrt(bound)
		source = StepSizeFromBound
	} else {
		// floor(N^(1/4)) = isqrt(isqrt(N)).
		raw = new(big.Int).Sqrt(new(big.Int).Sqrt(n))
		raw.Add(raw, big.NewInt(1))
		source = StepSizeDefault
	}
	if raw.Sign() < 1 {
		raw.SetInt64(1)
	}
	if !raw.IsUint64() {
		return StepSize{}, apperrors.NewConfigError(
			"step size %s exceeds the addressable range; supply a bound or memory limit", raw.String())
	}

	sel := StepSize{L: raw.Uint64(), Source: source, BudgetHonored: true}
	if budgetBytes > 0 {
		model := NewCostModel(n)
		maxL, honored := model.MaxStepSize(budgetBytes)
		switch {
		case !honored:
			// The budget does not even cover the fixed overhead; run at the
			// floor step size rather than refuse, and flag the overrun.
			maxL = MinStepSizeFloor
			sel.BudgetHonored = false
			log.Warn().
				Int64("budgetBytes", budgetBytes).
				Uint64("floor", uint64(MinStepSizeFloor)).
				Msg("Memory budget below the fixed overhead; using floor step size")
		case maxL < 1:
			maxL = 1
		}
		sel.MaxByBudget = maxL
		if sel.L > maxL {
			sel.L = maxL
			sel.Clamped = true
		}
	}
	if sel.L < 1 {
		sel.L = 1
	}
	return sel, nil
}

// ceilSqrt returns ceil(sqrt(x)) for x >= 0 using integer arithmetic only.
func ceilSqrt(x *big.Int) *big.Int {
	r := new(big.Int).Sqrt(x)
	if new(big.Int).Mul(r, r).Cmp(x) < 0 {
		r.Add(r, big.NewInt(1))
	}
	return r
}
