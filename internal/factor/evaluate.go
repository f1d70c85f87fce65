package factor

import (
	"errors"
	"math/big"

	"github.com/agbru/psfactor/internal/engine"
	apperrors "github.com/agbru/psfactor/internal/errors"
)

var (
	errStepSizeZero = errors.New("step size must be >= 1")
	errRootDegree   = errors.New("product tree root degree does not match step size")
	errResultLength = errors.New("multipoint evaluation returned wrong residue count")
)

// Points returns the evaluation grid [0, L, 2L, ..., (L-1)·L]. The order is
// load-bearing: residue index k identifies the candidate interval
// [kL+1, kL+L] during backtracking.
func Points(l uint64) []*big.Int {
	points := make([]*big.Int, l)
	step := new(big.Int).SetUint64(l)
	for k := uint64(0); k < l; k++ {
		points[k] = new(big.Int).Mul(new(big.Int).SetUint64(k), step)
	}
	return points
}

// Evaluate runs the engine's multipoint evaluation of root over points and
// validates the residue count. This is the single most expensive engine call
// of a run and is treated as atomic: cancellation is only observed between
// pipeline phases, not inside it.
func Evaluate(ec engine.Context, root engine.Poly, points []*big.Int) ([]*big.Int, error) {
	values := ec.MultipointEvaluate(root, points)
	if len(values) != len(points) {
		return nil, apperrors.NewEngineError("multipoint evaluation", errResultLength)
	}
	return values, nil
}
