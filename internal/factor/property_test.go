package factor

import (
	"context"
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/psfactor/internal/engine"
)

// TestFactorization_PropertyBased checks the defining property of the whole
// pipeline on random semiprimes: whenever a factor is reported, it must be a
// non-trivial divisor of the target and the complement must reconstruct it.
// The prime pool keeps every product above the trial-division threshold while
// staying small enough for quick tree builds, and since the smallest prime
// factor is always below the default coverage, a factor must be found.
func TestFactorization_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	primes := []int64{
		1009, 1013, 1019, 1021, 1031, 1033, 1039, 1049, 1051, 1061,
		1063, 1069, 1087, 1091, 1093, 1097, 1103, 1109, 1117, 1123,
	}

	properties.Property("semiprime factoring yields a verified divisor", prop.ForAll(
		func(i, j int) bool {
			p := big.NewInt(primes[i])
			q := big.NewInt(primes[j])
			n := new(big.Int).Mul(p, q)

			f := NewFactorer(&engine.BigEngine{}, Options{})
			res, err := f.Factorize(context.Background(), nil, 0, n)
			if err != nil {
				t.Logf("Factorize(%s) failed: %v", n, err)
				return false
			}
			if res.Outcome != OutcomeFactorFound {
				t.Logf("no factor found for %s = %s × %s", n, p, q)
				return false
			}
			one := big.NewInt(1)
			if res.Factor.Cmp(one) <= 0 || res.Factor.Cmp(n) >= 0 {
				return false
			}
			if new(big.Int).Mod(n, res.Factor).Sign() != 0 {
				return false
			}
			return new(big.Int).Mul(res.Factor, res.Complement).Cmp(n) == 0
		},
		gen.IntRange(0, len(primes)-1),
		gen.IntRange(0, len(primes)-1),
	))

	properties.TestingRun(t)
}
