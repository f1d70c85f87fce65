package orchestration

import (
	"context"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/agbru/psfactor/internal/cli"
	apperrors "github.com/agbru/psfactor/internal/errors"
	"github.com/agbru/psfactor/internal/factor"
)

// fakeFactorer returns a canned result without touching the arithmetic
// pipeline, so the coordination logic can be tested in isolation.
type fakeFactorer struct {
	name   string
	result *factor.Result
	err    error
	delay  time.Duration
}

func (f *fakeFactorer) Name() string { return f.name }

func (f *fakeFactorer) Factorize(ctx context.Context, progressChan chan<- factor.ProgressUpdate, index int, n *big.Int) (*factor.Result, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if progressChan != nil {
		select {
		case progressChan <- factor.ProgressUpdate{FactorerIndex: index, Value: 1.0}:
		default:
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func foundResult(g, complement int64) *factor.Result {
	return &factor.Result{
		Outcome:    factor.OutcomeFactorFound,
		Factor:     big.NewInt(g),
		Complement: big.NewInt(complement),
		Engine:     "fake",
	}
}

func noFactorResult() *factor.Result {
	return &factor.Result{Outcome: factor.OutcomeNoFactor, Engine: "fake"}
}

func TestExecuteFactorizations(t *testing.T) {
	factorers := []factor.Factorer{
		&fakeFactorer{name: "alpha", result: foundResult(7, 13)},
		&fakeFactorer{name: "beta", err: context.DeadlineExceeded, delay: time.Millisecond},
	}

	results := ExecuteFactorizations(context.Background(), factorers, big.NewInt(91), io.Discard)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Name != "alpha" || results[1].Name != "beta" {
		t.Errorf("results not index-aligned: %q, %q", results[0].Name, results[1].Name)
	}
	if results[0].Err != nil || results[0].Result == nil {
		t.Errorf("alpha result = %+v, want success", results[0])
	}
	if results[1].Err == nil {
		t.Error("beta error was not captured")
	}
}

func TestAnalyzeResults(t *testing.T) {
	n := big.NewInt(91)
	quiet := cli.OutputConfig{Quiet: true}

	t.Run("SingleValidFactor", func(t *testing.T) {
		results := []FactorizationResult{
			{Name: "big", Result: foundResult(7, 13), Duration: time.Millisecond},
		}
		if code := AnalyzeResults(results, n, quiet, io.Discard); code != apperrors.ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
		}
	})

	t.Run("NoFactorIsSuccess", func(t *testing.T) {
		results := []FactorizationResult{
			{Name: "big", Result: noFactorResult(), Duration: time.Millisecond},
		}
		if code := AnalyzeResults(results, n, quiet, io.Discard); code != apperrors.ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
		}
	})

	t.Run("NonDividingFactor", func(t *testing.T) {
		results := []FactorizationResult{
			{Name: "big", Result: foundResult(11, 9), Duration: time.Millisecond},
		}
		if code := AnalyzeResults(results, n, quiet, io.Discard); code != apperrors.ExitErrorMismatch {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorMismatch)
		}
	})

	t.Run("OutcomeDisagreement", func(t *testing.T) {
		results := []FactorizationResult{
			{Name: "big", Result: foundResult(7, 13), Duration: time.Millisecond},
			{Name: "gmp", Result: noFactorResult(), Duration: 2 * time.Millisecond},
		}
		if code := AnalyzeResults(results, n, quiet, io.Discard); code != apperrors.ExitErrorMismatch {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorMismatch)
		}
	})

	t.Run("AllFailedWithTimeout", func(t *testing.T) {
		results := []FactorizationResult{
			{Name: "big", Err: context.DeadlineExceeded, Duration: time.Second},
		}
		if code := AnalyzeResults(results, n, quiet, io.Discard); code != apperrors.ExitErrorTimeout {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
		}
	})

	t.Run("FastestValidWins", func(t *testing.T) {
		// One engine fails, the other succeeds: the run still succeeds.
		results := []FactorizationResult{
			{Name: "gmp", Err: context.Canceled, Duration: time.Millisecond},
			{Name: "big", Result: foundResult(7, 13), Duration: time.Second},
		}
		if code := AnalyzeResults(results, n, quiet, io.Discard); code != apperrors.ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
		}
	})
}

func TestValidFactorResult(t *testing.T) {
	n := big.NewInt(91)

	cases := []struct {
		name string
		res  *factor.Result
		want bool
	}{
		{"nil result", nil, false},
		{"no factor", noFactorResult(), true},
		{"valid", foundResult(7, 13), true},
		{"non-dividing", foundResult(11, 9), false},
		{"factor one", foundResult(1, 91), false},
		{"factor equals target", foundResult(91, 1), false},
		{"bad complement", foundResult(7, 14), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := validFactorResult(tc.res, n); got != tc.want {
				t.Errorf("validFactorResult = %v, want %v", got, tc.want)
			}
		})
	}
}
