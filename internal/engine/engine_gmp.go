//go:build gmp

package engine

import (
	"math/big"

	"github.com/ncw/gmp"
)

// The GMP engine registers itself only when compiled in, so "go build" without
// the tag needs neither cgo nor libgmp.
func init() {
	_ = RegisterEngine("gmp", func() Engine { return &GMPEngine{} })
}

// GMPEngine binds the engine contract to GNU GMP via github.com/ncw/gmp.
// Coefficient multiplies dominate a factoring run, and GMP's native
// multiplication is several times faster than math/big on large operands,
// so this is the engine to use for serious moduli.
type GMPEngine struct{}

// Name returns the engine name.
func (e *GMPEngine) Name() string { return "gmp" }

// NewContext creates a GMP-backed context for arithmetic modulo the given
// modulus.
func (e *GMPEngine) NewContext(modulus *big.Int) (Context, error) {
	if err := validateModulus(modulus); err != nil {
		return nil, err
	}
	return &gmpContext{n: bigToGMP(modulus)}, nil
}

type gmpContext struct {
	n *gmp.Int
}

// gmpPoly stores coefficients little-endian, each reduced to [0, n).
// The empty slice is the zero polynomial.
type gmpPoly struct {
	coeffs []*gmp.Int
}

func (p *gmpPoly) Degree() int { return len(p.coeffs) - 1 }

func mustGMPPoly(p Poly) *gmpPoly {
	gp, ok := p.(*gmpPoly)
	if !ok {
		panic("engine: polynomial does not belong to the gmp engine")
	}
	return gp
}

// bigToGMP converts a math/big integer to a gmp integer.
// Bytes() drops the sign, so it is restored explicitly.
func bigToGMP(x *big.Int) *gmp.Int {
	g := new(gmp.Int).SetBytes(x.Bytes())
	if x.Sign() < 0 {
		g.Neg(g)
	}
	return g
}

// gmpToBig converts a gmp integer back to math/big.
func gmpToBig(x *gmp.Int) *big.Int {
	b := new(big.Int).SetBytes(x.Bytes())
	if x.Sign() < 0 {
		b.Neg(b)
	}
	return b
}

func (c *gmpContext) LinearPoly(constant *big.Int) Poly {
	c0 := new(gmp.Int).Mod(bigToGMP(constant), c.n)
	c1 := new(gmp.Int).Mod(gmp.NewInt(1), c.n)
	return &gmpPoly{coeffs: []*gmp.Int{c0, c1}}
}

func (c *gmpContext) Mul(a, b Poly) Poly {
	pa, pb := mustGMPPoly(a), mustGMPPoly(b)
	return &gmpPoly{coeffs: c.mul(pa.coeffs, pb.coeffs)}
}

func (c *gmpContext) MultipointEvaluate(p Poly, points []*big.Int) []*big.Int {
	gp := mustGMPPoly(p)
	out := make([]*big.Int, len(points))
	x := new(gmp.Int)
	for i, pt := range points {
		x.Mod(bigToGMP(pt), c.n)
		out[i] = gmpToBig(c.horner(gp.coeffs, x))
	}
	return out
}

func (c *gmpContext) GCD(a, b *big.Int) *big.Int {
	x := new(gmp.Int).Abs(bigToGMP(a))
	y := new(gmp.Int).Abs(bigToGMP(b))
	if x.Sign() == 0 {
		return gmpToBig(y)
	}
	if y.Sign() == 0 {
		return gmpToBig(x)
	}
	return gmpToBig(new(gmp.Int).GCD(nil, nil, x, y))
}

func (c *gmpContext) horner(coeffs []*gmp.Int, x *gmp.Int) *gmp.Int {
	if len(coeffs) == 0 {
		return new(gmp.Int)
	}
	acc := new(gmp.Int).Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, coeffs[i])
		acc.Mod(acc, c.n)
	}
	acc.Mod(acc, c.n)
	return acc
}

// mul mirrors the big engine's split: schoolbook below the degree threshold,
// Karatsuba above. GMP already accelerates the coefficient multiplies; the
// polynomial-level recursion still pays off once operands are long enough.
func (c *gmpContext) mul(x, y []*gmp.Int) []*gmp.Int {
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

func (c *gmpContext) mulSchoolbook(x, y []*gmp.Int) []*gmp.Int {
	out := make([]*gmp.Int, len(x)+len(y)-1)
	for i := range out {
		out[i] = new(gmp.Int)
	}
	t := new(gmp.Int)
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

func (c *gmpContext) karatsuba(x, y []*gmp.Int) []*gmp.Int {
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

	out := make([]*gmp.Int, len(x)+len(y)-1)
	for i := range out {
		out[i] = new(gmp.Int)
	}
	c.addAt(out, z0, 0)
	c.addAt(out, z1, k)
	c.addAt(out, z2, 2*k)
	return out
}

func (c *gmpContext) polyAdd(x, y []*gmp.Int) []*gmp.Int {
	if len(x) < len(y) {
		x, y = y, x
	}
	out := make([]*gmp.Int, len(x))
	for i := range x {
		s := new(gmp.Int).Set(x[i])
		if i < len(y) {
			s.Add(s, y[i])
			s.Mod(s, c.n)
		}
		out[i] = s
	}
	return out
}

func (c *gmpContext) polySub(x, y []*gmp.Int) []*gmp.Int {
	size := len(x)
	if len(y) > size {
		size = len(y)
	}
	out := make([]*gmp.Int, size)
	for i := 0; i < size; i++ {
		s := new(gmp.Int)
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

func (c *gmpContext) addAt(out, part []*gmp.Int, shift int) {
	for i, p := range part {
		if p.Sign() == 0 {
			continue
		}
		slot := out[shift+i]
		slot.Add(slot, p)
		slot.Mod(slot, c.n)
	}
}
