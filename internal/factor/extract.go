package factor

import (
	"context"
	"math/big"

	"github.com/rs/zerolog/log"

	"github.com/agbru/psfactor/internal/engine"
)

// ExtractFactor recovers a nontrivial factor of n from the residue vector,
// or reports that none surfaced.
//
// The accumulated product of all residues modulo n is the cheap path: its
// gcd with n usually exposes a factor directly. When that gcd saturates to n
// every nontrivial factor was absorbed into the product, and the extractor
// backtracks: first per-residue gcds, then, for each interval whose residue
// gcd is still uninformative (0 or n), a linear scan of the interval's
// candidates kL+1 .. kL+L.
//
// The returned degenerate flag records that the saturated-gcd path was
// entered. When it is set and no factor is returned, the caller cannot tell
// "no factor <= L² exists" apart from an engine inconsistency; the ambiguity
// is reported as-is rather than guessed at.
//
// Parameters:
//   - ctx: Cancellation context, checked periodically during the scan.
//   - ec: The engine context (supplies gcd).
//   - n: The integer being factored.
//   - values: The residue vector, index-aligned with the evaluation grid.
//   - l: The step size.
//
// Returns:
//   - *big.Int: A factor g with 1 < g < n, or nil.
//   - bool: Whether the degenerate (gcd == n) path was entered.
//   - error: Context cancellation only.
func ExtractFactor(ctx context.Context, ec engine.Context, n *big.Int, values []*big.Int, l uint64) (*big.Int, bool, error) {
	one := big.NewInt(1)

	accumulated := big.NewInt(1)
	for _, v := range values {
		accumulated.Mul(accumulated, v)
		accumulated.Mod(accumulated, n)
	}

	g := ec.GCD(accumulated, n)
	if g.Cmp(one) > 0 && g.Cmp(n) < 0 {
		return g, false, nil
	}
	if g.Cmp(n) != 0 {
		// gcd == 1: no factor in range.
		return nil, false, nil
	}

	log.Debug().Msg("Aggregate gcd saturated to N; entering backtracking search")

	step := new(big.Int).SetUint64(l)
	candidate := new(big.Int)
	for k, v := range values {
		gi := ec.GCD(v, n)
		if gi.Cmp(one) > 0 && gi.Cmp(n) < 0 {
			return gi, true, nil
		}
		if gi.Sign() != 0 && gi.Cmp(n) != 0 {
			continue
		}
		// The factors hide inside interval k: scan kL+1 .. kL+L.
		base := new(big.Int).Mul(big.NewInt(int64(k)), step)
		for j := uint64(1); j <= l; j++ {
			if j%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return nil, true, err
				}
			}
			candidate.Add(base, new(big.Int).SetUint64(j))
			gc := ec.GCD(candidate, n)
			if gc.Cmp(one) > 0 && gc.Cmp(n) < 0 {
				return gc, true, nil
			}
		}
	}
	return nil, true, nil
}
