package engine

import (
	"errors"
	"math/big"
)

// karatsubaDegreeThreshold is the coefficient count below which the naive
// O(n²) schoolbook product is faster than Karatsuba. The crossover sits at
// roughly the same operand size as for word-slice multiplication; coefficient
// multiplies are big.Int operations, so the constant factors are comparable.
const karatsubaDegreeThreshold = 32

var errInvalidModulus = errors.New("modulus must be >= 1")

// BigEngine is the reference arithmetic engine built on math/big.
// It favors clarity over speed: schoolbook/Karatsuba ring multiplication and
// per-point Horner evaluation. It exists so the factoring core can be tested
// without cgo and serves as the correctness baseline for other engines.
type BigEngine struct{}

// Name returns the engine name.
func (e *BigEngine) Name() string { return "big" }

// NewContext creates a math/big context for arithmetic modulo the given
// modulus.
func (e *BigEngine) NewContext(modulus *big.Int) (Context, error) {
	if err := validateModulus(modulus); err != nil {
		return nil, err
	}
	return &bigContext{n: new(big.Int).Set(modulus)}, nil
}

type bigContext struct {
	n *big.Int
}

// bigPoly stores coefficients little-endian, each reduced to [0, n).
// The empty slice is the zero polynomial.
type bigPoly struct {
	coeffs []*big.Int
}

// Degree returns the degree of the polynomial (-1 for the zero polynomial).
func (p *bigPoly) Degree() int { return len(p.coeffs) - 1 }

func mustBigPoly(p Poly) *bigPoly {
	bp, ok := p.(*bigPoly)
	if !ok {
		panic("engine: polynomial does not belong to the big engine")
	}
	return bp
}

// LinearPoly returns the monic polynomial x + c with c reduced modulo n.
func (c *bigContext) LinearPoly(constant *big.Int) Poly {
	c0 := new(big.Int).Mod(constant, c.n)
	c1 := new(big.Int).Mod(big.NewInt(1), c.n)
	return &bigPoly{coeffs: []*big.Int{c0, c1}}
}

// Mul returns the product a*b in (Z/nZ)[x].
func (c *bigContext) Mul(a, b Poly) Poly {
	pa, pb := mustBigPoly(a), mustBigPoly(b)
	return &bigPoly{coeffs: c.mul(pa.coeffs, pb.coeffs)}
}

// MultipointEvaluate evaluates p at every point by Horner's rule, one pass
// over the coefficients per point, so a full run costs O(L²) coefficient
// multiplies.
func (c *bigContext) MultipointEvaluate(p Poly, points []*big.Int) []*big.Int {
	bp := mustBigPoly(p)
	out := make([]*big.Int, len(points))
	x := new(big.Int)
	for i, pt := range points {
		x.Mod(pt, c.n)
		out[i] = c.horner(bp.coeffs, x)
	}
	return out
}

// GCD returns gcd(|a|, |b|), with gcd(0, b) = |b|.
func (c *bigContext) GCD(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	if x.Sign() == 0 {
		return y
	}
	if y.Sign() == 0 {
		return x
	}
	return new(big.Int).GCD(nil, nil, x, y)
}

func (c *bigContext) horner(coeffs []*big.Int, x *big.Int) *big.Int {
	if len(coeffs) == 0 {
		return new(big.Int)
	}
	acc := new(big.Int).Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, coeffs[i])
		acc.Mod(acc, c.n)
	}
	acc.Mod(acc, c.n)
	return acc
}

// ─────────────────────────────────────────────────────────────────────────────
// Ring multiplication: schoolbook base case + Karatsuba recursion
// ─────────────────────────────────────────────────────────────────────────────

// mul multiplies two coefficient slices modulo n. The zero polynomial
// (empty slice) annihilates the product.
func (c *bigContext) mul(x, y []*big.Int) []*big.Int {
	n, m := len(x), len(y)
	if n < m {
		x, y = y, x
		n, m = m, n
	}
	if m == 0 {
		return nil
	}
	if m <= karatsubaDegreeThreshold {
		return c.mulSchoolbook(x, y)
	}
	return c.karatsuba(x, y)
}

// mulSchoolbook is the O(n·m) base case. Coefficients are accumulated
// unreduced and folded modulo n once per output slot; the intermediate
// magnitude is bounded by m·(n-1)², well within big.Int territory.
func (c *bigContext) mulSchoolbook(x, y []*big.Int) []*big.Int {
	out := make([]*big.Int, len(x)+len(y)-1)
	for i := range out {
		out[i] = new(big.Int)
	}
	t := new(big.Int)
	for i, xi := range x {
		if xi.Sign() == 0 {
			continue
		}
		for j, yj := range y {
			if yj.Sign() == 0 {
				continue
			}
			t.Mul(xi, yj)
			out[i+j].Add(out[i+j], t)
		}
	}
	for i := range out {
		out[i].Mod(out[i], c.n)
	}
	return out
}

// karatsuba splits both operands at k = len(x)/2 and recurses:
//
//	z0 = x0·y0
//	z2 = x1·y1
//	z1 = (x0+x1)·(y0+y1) − z0 − z2
//	result = z0 + z1·t^k + z2·t^2k
//
// Requires len(x) >= len(y) > karatsubaDegreeThreshold.
func (c *bigContext) karatsuba(x, y []*big.Int) []*big.Int {
	k := len(x) / 2
	x0, x1 := x[:k], x[k:]
	y0, y1 := y[:k], y[k:]
	if len(y) <= k {
		y0, y1 = y, nil
	}

	z0 := c.mul(x0, y0)
	z2 := c.mul(x1, y1)

	sumX := c.polyAdd(x0, x1)
	sumY := c.polyAdd(y0, y1)
	z1 := c.mul(sumX, sumY)
	z1 = c.polySub(z1, z0)
	z1 = c.polySub(z1, z2)

	out := make([]*big.Int, len(x)+len(y)-1)
	for i := range out {
		out[i] = new(big.Int)
	}
	c.addAt(out, z0, 0)
	c.addAt(out, z1, k)
	c.addAt(out, z2, 2*k)
	return out
}

// polyAdd returns (x + y) mod n coefficient-wise, sized to the longer input.
func (c *bigContext) polyAdd(x, y []*big.Int) []*big.Int {
	if len(x) < len(y) {
		x, y = y, x
	}
	out := make([]*big.Int, len(x))
	for i := range x {
		s := new(big.Int).Set(x[i])
		if i < len(y) {
			s.Add(s, y[i])
			s.Mod(s, c.n)
		}
		out[i] = s
	}
	return out
}

// polySub returns (x − y) mod n coefficient-wise, sized to the longer input.
func (c *bigContext) polySub(x, y []*big.Int) []*big.Int {
	size := len(x)
	if len(y) > size {
		size = len(y)
	}
	out := make([]*big.Int, size)
	for i := 0; i < size; i++ {
		s := new(big.Int)
		if i < len(x) {
			s.Set(x[i])
		}
		if i < len(y) {
			s.Sub(s, y[i])
		}
		s.Mod(s, c.n)
		out[i] = s
	}
	return out
}

// addAt folds part into out starting at the given shift, reducing modulo n.
func (c *bigContext) addAt(out, part []*big.Int, shift int) {
	for i, p := range part {
		if p.Sign() == 0 {
			continue
		}
		slot := out[shift+i]
		slot.Add(slot, p)
		slot.Mod(slot, c.n)
	}
}
