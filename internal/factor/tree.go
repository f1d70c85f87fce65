package factor

import (
	"context"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/psfactor/internal/engine"
	apperrors "github.com/agbru/psfactor/internal/errors"
)

// BuildProductTree constructs f(x) = ∏_{i=1}^{l} (x+i) over the engine
// context as a balanced binary product tree. The build is an explicit
// iterative bottom-up merge rather than a recursion: for large l the
// recursive formulation risks stack depth, and the worklist form makes the
// parallel variant straightforward.
//
// With workers >= 2 the merges of one level run concurrently through an
// errgroup. Each product is written to its own slot, so the coefficient
// ordering of the root is identical to the sequential build.
//
// Leaf and intermediate polynomials are dropped as soon as they are merged;
// only the current level is live at any time.
//
// Parameters:
//   - ctx: Cancellation context, checked between merges.
//   - ec: The engine context for the run's modulus.
//   - l: The step size (number of linear factors), >= 1.
//   - workers: Concurrent merge workers; < 2 selects the sequential build.
//   - onMerge: Optional callback invoked after each completed merge with
//     the number of merges done so far and the total. May be nil.
//
// Returns:
//   - engine.Poly: The root polynomial of degree l.
//   - error: Context cancellation, or an EngineError when the root degree
//     does not match l.
func BuildProductTree(ctx context.Context, ec engine.Context, l uint64, workers int, onMerge func(done, total uint64)) (engine.Poly, error) {
	if l < 1 {
		return nil, apperrors.NewEngineError("product tree", errStepSizeZero)
	}

	level := make([]engine.Poly, 0, l)
	c := new(big.Int)
	for i := uint64(1); i <= l; i++ {
		level = append(level, ec.LinearPoly(c.SetUint64(i)))
	}

	totalMerges := l - 1
	var done uint64
	for len(level) > 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pairs := len(level) / 2
		next := make([]engine.Poly, pairs)
		if workers >= 2 && pairs > 1 {
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(workers)
			for idx := 0; idx < pairs; idx++ {
				idx := idx
				a, b := level[2*idx], level[2*idx+1]
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					next[idx] = ec.Mul(a, b)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
			done += uint64(pairs)
			if onMerge != nil {
				onMerge(done, totalMerges)
			}
		} else {
			for idx := 0; idx < pairs; idx++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				next[idx] = ec.Mul(level[2*idx], level[2*idx+1])
				done++
				if onMerge != nil {
					onMerge(done, totalMerges)
				}
			}
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		// Drop the merged level so its polynomials can be collected.
		for i := range level {
			level[i] = nil
		}
		level = next
	}

	root := level[0]
	if root.Degree() < 0 || uint64(root.Degree()) != l {
		return nil, apperrors.NewEngineError("product tree", errRootDegree)
	}
	return root, nil
}
