package factor

import (
	"context"
	"math/big"
	"testing"

	"github.com/agbru/psfactor/internal/engine"
)

func newBigContext(t *testing.T, modulus int64) engine.Context {
	t.Helper()
	eng := &engine.BigEngine{}
	ec, err := eng.NewContext(big.NewInt(modulus))
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	return ec
}

// risingProduct computes ∏_{i=1}^{l} (x+i) mod n directly.
func risingProduct(x, n *big.Int, l uint64) *big.Int {
	acc := big.NewInt(1)
	term := new(big.Int)
	for i := uint64(1); i <= l; i++ {
		term.Add(x, new(big.Int).SetUint64(i))
		acc.Mul(acc, term)
		acc.Mod(acc, n)
	}
	return acc
}

func TestBuildProductTreeSmall(t *testing.T) {
	ec := newBigContext(t, 97)
	root, err := BuildProductTree(context.Background(), ec, 5, 0, nil)
	if err != nil {
		t.Fatalf("BuildProductTree failed: %v", err)
	}
	if got := root.Degree(); got != 5 {
		t.Fatalf("root degree = %d, want 5", got)
	}

	n := big.NewInt(97)
	for _, x := range []int64{0, 1, 2, 10, 96} {
		got := ec.MultipointEvaluate(root, []*big.Int{big.NewInt(x)})[0]
		want := risingProduct(big.NewInt(x), n, 5)
		if got.Cmp(want) != 0 {
			t.Errorf("root(%d) = %s, want %s", x, got, want)
		}
	}
}

func TestBuildProductTreeSingleLeaf(t *testing.T) {
	ec := newBigContext(t, 97)
	root, err := BuildProductTree(context.Background(), ec, 1, 0, nil)
	if err != nil {
		t.Fatalf("BuildProductTree failed: %v", err)
	}
	if got := root.Degree(); got != 1 {
		t.Errorf("root degree = %d, want 1", got)
	}
}

func TestBuildProductTreeZeroSteps(t *testing.T) {
	ec := newBigContext(t, 97)
	if _, err := BuildProductTree(context.Background(), ec, 0, 0, nil); err == nil {
		t.Error("BuildProductTree(l=0) succeeded, want error")
	}
}

// TestBuildProductTreeParallelMatchesSequential verifies that concurrent
// merges preserve the deterministic coefficient ordering of the root.
func TestBuildProductTreeParallelMatchesSequential(t *testing.T) {
	const l = 37
	ec := newBigContext(t, 1_000_003)
	n := big.NewInt(1_000_003)

	seq, err := BuildProductTree(context.Background(), ec, l, 0, nil)
	if err != nil {
		t.Fatalf("sequential build failed: %v", err)
	}
	par, err := BuildProductTree(context.Background(), ec, l, 4, nil)
	if err != nil {
		t.Fatalf("parallel build failed: %v", err)
	}
	if seq.Degree() != par.Degree() {
		t.Fatalf("degree mismatch: sequential %d, parallel %d", seq.Degree(), par.Degree())
	}
	for _, x := range []int64{0, 1, 7, 500_000, 1_000_002} {
		pt := []*big.Int{big.NewInt(x)}
		a := ec.MultipointEvaluate(seq, pt)[0]
		b := ec.MultipointEvaluate(par, pt)[0]
		if a.Cmp(b) != 0 {
			t.Errorf("evaluation mismatch at %d: sequential %s, parallel %s", x, a, b)
		}
		if want := risingProduct(big.NewInt(x), n, l); a.Cmp(want) != 0 {
			t.Errorf("root(%d) = %s, want %s", x, a, want)
		}
	}
}

func TestBuildProductTreeMergeProgress(t *testing.T) {
	ec := newBigContext(t, 97)
	var lastDone, lastTotal uint64
	calls := 0
	_, err := BuildProductTree(context.Background(), ec, 5, 0, func(done, total uint64) {
		lastDone, lastTotal = done, total
		calls++
	})
	if err != nil {
		t.Fatalf("BuildProductTree failed: %v", err)
	}
	// 5 leaves need exactly 4 merges.
	if lastTotal != 4 || lastDone != 4 {
		t.Errorf("final progress = %d/%d, want 4/4", lastDone, lastTotal)
	}
	if calls != 4 {
		t.Errorf("onMerge called %d times, want 4", calls)
	}
}

func TestBuildProductTreeCanceled(t *testing.T) {
	ec := newBigContext(t, 97)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := BuildProductTree(ctx, ec, 64, 0, nil); err == nil {
		t.Error("BuildProductTree with canceled context succeeded, want error")
	}
}
