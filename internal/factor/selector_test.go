package factor

import (
	"math/big"
	"testing"
)

func TestSelectStepSizeFromBound(t *testing.T) {
	tests := []struct {
		name  string
		bound int64
		want  uint64
	}{
		{"perfect square", 400, 20},
		{"just above square", 401, 21},
		{"one", 1, 1},
		{"non square", 1000, 32},
	}
	n := big.NewInt(3837523)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := SelectStepSize(n, big.NewInt(tc.bound), 0)
			if err != nil {
				t.Fatalf("SelectStepSize failed: %v", err)
			}
			if sel.L != tc.want {
				t.Errorf("L = %d, want %d", sel.L, tc.want)
			}
			if sel.Source != StepSizeFromBound {
				t.Errorf("Source = %q, want %q", sel.Source, StepSizeFromBound)
			}
			if sel.Clamped {
				t.Error("Clamped = true without a budget")
			}
		})
	}
}

func TestSelectStepSizeDefault(t *testing.T) {
	// floor(3837523^(1/4)) = 44, so L = 45.
	sel, err := SelectStepSize(big.NewInt(3837523), nil, 0)
	if err != nil {
		t.Fatalf("SelectStepSize failed: %v", err)
	}
	if sel.L != 45 {
		t.Errorf("L = %d, want 45", sel.L)
	}
	if sel.Source != StepSizeDefault {
		t.Errorf("Source = %q, want %q", sel.Source, StepSizeDefault)
	}
}

// TestSelectStepSizeExactFourthRoot uses a perfect fourth power large enough
// that a float64 fourth root would be off by one in either direction.
func TestSelectStepSizeExactFourthRoot(t *testing.T) {
	root := new(big.Int).SetUint64(10_000_019) // prime, so no rounding luck
	n := new(big.Int).Mul(root, root)
	n.Mul(n, n) // root^4

	sel, err := SelectStepSize(n, nil, 0)
	if err != nil {
		t.Fatalf("SelectStepSize failed: %v", err)
	}
	if want := root.Uint64() + 1; sel.L != want {
		t.Errorf("L = %d, want %d", sel.L, want)
	}

	// One below the fourth power must floor to root-1.
	nMinus := new(big.Int).Sub(n, big.NewInt(1))
	sel, err = SelectStepSize(nMinus, nil, 0)
	if err != nil {
		t.Fatalf("SelectStepSize failed: %v", err)
	}
	if want := root.Uint64(); sel.L != want {
		t.Errorf("L = %d, want %d (floor((root^4 - 1)^(1/4)) + 1)", sel.L, want)
	}
}

func TestSelectStepSizeMemoryClamp(t *testing.T) {
	n := big.NewInt(3837523)
	model := NewCostModel(n)

	// Budget sized for exactly 5000 steps.
	budget := model.RequiredBytes(5000)
	bound := new(big.Int).SetUint64(1_000_000_000) // would give L ~ 31623
	sel, err := SelectStepSize(n, bound, budget)
	if err != nil {
		t.Fatalf("SelectStepSize failed: %v", err)
	}
	if !sel.Clamped {
		t.Fatal("Clamped = false, want true")
	}
	if sel.L > sel.MaxByBudget {
		t.Errorf("L = %d exceeds budget maximum %d", sel.L, sel.MaxByBudget)
	}
	if !sel.BudgetHonored {
		t.Error("BudgetHonored = false for a workable budget")
	}
	// Coverage must reflect the clamped step size, not the requested bound.
	wantCoverage := new(big.Int).SetUint64(sel.L)
	wantCoverage.Mul(wantCoverage, wantCoverage)
	if sel.Coverage().Cmp(wantCoverage) != 0 {
		t.Errorf("Coverage() = %s, want %s", sel.Coverage(), wantCoverage)
	}
}

// A budget that covers the overhead but allows fewer steps than the floor
// must still be respected: the step size drops to the budget maximum instead
// of escalating to the floor.
func TestSelectStepSizeBudgetBelowFloor(t *testing.T) {
	n := big.NewInt(3837523)
	model := NewCostModel(n)

	// Budget sized for exactly 500 steps, well under the floor of 1000.
	budget := model.RequiredBytes(500)
	bound := new(big.Int).SetUint64(1_000_000_000) // would give L ~ 31623
	sel, err := SelectStepSize(n, bound, budget)
	if err != nil {
		t.Fatalf("SelectStepSize failed: %v", err)
	}
	if sel.L != 500 {
		t.Errorf("L = %d, want 500", sel.L)
	}
	if sel.MaxByBudget != 500 {
		t.Errorf("MaxByBudget = %d, want 500", sel.MaxByBudget)
	}
	if !sel.Clamped {
		t.Error("Clamped = false, want true")
	}
	if !sel.BudgetHonored {
		t.Error("BudgetHonored = false for a budget that covers the overhead")
	}
}

func TestSelectStepSizeBudgetBelowOverhead(t *testing.T) {
	n := big.NewInt(3837523)
	bound := new(big.Int).SetUint64(1_000_000_000_000)
	sel, err := SelectStepSize(n, bound, 1) // below fixed overhead
	if err != nil {
		t.Fatalf("SelectStepSize failed: %v", err)
	}
	if sel.BudgetHonored {
		t.Error("BudgetHonored = true for a budget below the fixed overhead")
	}
	if sel.L != MinStepSizeFloor {
		t.Errorf("L = %d, want floor %d", sel.L, uint64(MinStepSizeFloor))
	}
	if !sel.Clamped {
		t.Error("Clamped = false, want true")
	}
}

func TestSelectStepSizeOverflow(t *testing.T) {
	// ceil(sqrt(2^130)) = 2^65 does not fit in uint64.
	bound := new(big.Int).Lsh(big.NewInt(1), 130)
	if _, err := SelectStepSize(big.NewInt(3837523), bound, 0); err == nil {
		t.Error("SelectStepSize succeeded for an unaddressable step size, want error")
	}
}
