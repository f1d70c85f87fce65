// Package engine defines the arithmetic engine contract used by the factoring
// core: arbitrary-precision integers and polynomial arithmetic over Z/NZ.
//
// The core treats the engine as an injected capability. The default "big"
// engine is a dependency-free reference implementation on math/big; the "gmp"
// engine (build tag "gmp") binds the same contract to GMP for production use.
// The contract is kept minimal (linear polynomials, ring multiplication,
// multipoint evaluation, gcd) so the core can be tested against the reference
// engine and shipped against the fast one.
package engine

import (
	"math/big"

	apperrors "github.com/agbru/psfactor/internal/errors"
)

// Poly is an opaque polynomial over Z/NZ, owned by the Context that built it.
// Polynomials from different contexts (or different engines) must not be
// mixed; doing so is a programming error and panics.
type Poly interface {
	// Degree returns the degree of the polynomial. The zero polynomial
	// reports degree -1.
	Degree() int
}

// Context binds an engine to a fixed modulus N and performs all polynomial
// and integer operations in that ring. A Context is owned by a single
// factoring run and must not be shared across runs with different moduli.
//
// None of the methods accept a cancellation context: each call is treated as
// an atomic, blocking primitive by the core (multipoint evaluation in
// particular is the single most expensive external call of a run).
type Context interface {
	// LinearPoly returns the monic degree-1 polynomial x + c, with c
	// reduced modulo N.
	LinearPoly(c *big.Int) Poly

	// Mul returns the product a*b in (Z/NZ)[x].
	Mul(a, b Poly) Poly

	// MultipointEvaluate evaluates p at every point, returning residues
	// modulo N with the same length and order as points.
	MultipointEvaluate(p Poly, points []*big.Int) []*big.Int

	// GCD returns gcd(|a|, |b|), with gcd(0, b) = |b|.
	GCD(a, b *big.Int) *big.Int
}

// Engine creates per-modulus contexts. Implementations are stateless and
// safe for concurrent use; all run state lives in the Context.
type Engine interface {
	// Name returns the display name of the engine (e.g., "big", "gmp").
	Name() string

	// NewContext creates a Context for arithmetic modulo the given modulus.
	// It fails with an EngineError if the modulus is nil or below 1.
	NewContext(modulus *big.Int) (Context, error)
}

// validateModulus performs the shared modulus check for NewContext
// implementations.
func validateModulus(modulus *big.Int) error {
	if modulus == nil || modulus.Sign() < 1 {
		return apperrors.NewEngineError("new context", errInvalidModulus)
	}
	return nil
}
