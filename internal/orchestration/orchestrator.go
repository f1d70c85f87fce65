// Package orchestration coordinates one or more concurrent factoring runs,
// collects their results, validates them against the target, and renders the
// comparison summary.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/psfactor/internal/cli"
	apperrors "github.com/agbru/psfactor/internal/errors"
	"github.com/agbru/psfactor/internal/factor"
	"github.com/agbru/psfactor/internal/ui"
)

// FactorizationResult encapsulates the outcome of a single engine's run.
// It is the standardized container used to compare results across engines.
type FactorizationResult struct {
	// Name is the engine identifier (e.g., "big", "gmp").
	Name string
	// Result is the factoring outcome. It is nil if an error occurred.
	Result *factor.Result
	// Duration is the time taken to complete the run.
	Duration time.Duration
	// Err contains any error that occurred during the run.
	Err error
}

// ProgressBufferMultiplier defines the buffer size multiplier for the
// progress channel. A larger buffer reduces the likelihood of blocking
// factoring goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// ExecuteFactorizations runs every factorer concurrently against the same
// target and collects their results.
//
// It manages the lifecycle of the factoring goroutines and coordinates the
// shared progress display. Individual failures are captured per result, not
// propagated; the analysis step decides what they mean for the exit code.
//
// Parameters:
//   - ctx: The context carrying cancellation and the run deadline.
//   - factorers: The factorers to execute, one per engine.
//   - n: The target integer.
//   - out: The io.Writer for progress updates.
//
// Returns:
//   - []FactorizationResult: One result per factorer, index-aligned.
func ExecuteFactorizations(ctx context.Context, factorers []factor.Factorer, n *big.Int, out io.Writer) []FactorizationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]FactorizationResult, len(factorers))
	progressChan := make(chan factor.ProgressUpdate, len(factorers)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(factorers), out)

	for i, f := range factorers {
		idx, factorer := i, f
		g.Go(func() error {
			startTime := time.Now()
			res, err := factorer.Factorize(ctx, progressChan, idx, n)
			results[idx] = FactorizationResult{
				Name: factorer.Name(), Result: res, Duration: time.Since(startTime), Err: err,
			}
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeResults validates and reports the collected results.
//
// Every reported factor is re-verified against the target (divisibility and
// complement round-trip); engines disagreeing on whether a factor exists, or
// reporting a non-dividing factor, is a critical inconsistency. The fastest
// valid result is displayed.
//
// Parameters:
//   - results: The slice of factoring results to analyze.
//   - n: The target integer.
//   - outCfg: Output-mode flags for result display.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeResults(results []FactorizationResult, n *big.Int, outCfg cli.OutputConfig, out io.Writer) int {
	sort.Slice(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *FactorizationResult
	var firstError error
	successCount := 0
	mismatch := false

	if len(results) > 1 && !outCfg.Quiet && !outCfg.JSON {
		printComparisonTable(results, out)
	}

	for i := range results {
		res := &results[i]
		if res.Err != nil {
			if firstError == nil {
				firstError = res.Err
			}
			continue
		}
		if !validFactorResult(res.Result, n) {
			mismatch = true
			continue
		}
		successCount++
		if firstValid == nil {
			firstValid = res
		}
	}

	if successCount == 0 {
		if firstError != nil {
			fmt.Fprintf(out, "\nGlobal Status: Failure. No engine could complete the run.\n")
			return apperrors.HandleFactorizationError(firstError, 0, out, cli.CLIColorProvider{})
		}
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! A reported factor does not divide the target.\n")
		return apperrors.ExitErrorMismatch
	}

	// All valid results must agree on whether a factor exists.
	for i := range results {
		res := &results[i]
		if res.Err != nil || !validFactorResult(res.Result, n) {
			continue
		}
		if res.Result.Outcome != firstValid.Result.Outcome {
			mismatch = true
			break
		}
	}
	if mismatch {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the engines.\n")
		return apperrors.ExitErrorMismatch
	}

	cli.DisplayFactorResult(out, firstValid.Result, n, outCfg)
	return apperrors.ExitSuccess
}

// validFactorResult re-verifies a result against the target: a reported
// factor must satisfy 1 < g < n, divide n exactly, and round-trip with its
// complement. A no-factor outcome is always internally valid.
func validFactorResult(res *factor.Result, n *big.Int) bool {
	if res == nil {
		return false
	}
	if res.Outcome != factor.OutcomeFactorFound {
		return true
	}
	g := res.Factor
	if g == nil || res.Complement == nil {
		return false
	}
	one := big.NewInt(1)
	if g.Cmp(one) <= 0 || g.Cmp(n) >= 0 {
		return false
	}
	if new(big.Int).Mod(n, g).Sign() != 0 {
		return false
	}
	return new(big.Int).Mul(g, res.Complement).Cmp(n) == 0
}

func printComparisonTable(results []FactorizationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Engine Comparison ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sEngine%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		switch {
		case res.Err != nil:
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		case res.Result.Outcome == factor.OutcomeFactorFound:
			status = fmt.Sprintf("%s✅ Factor found%s", ui.ColorGreen(), ui.ColorReset())
		default:
			status = fmt.Sprintf("%s∅ No factor%s", ui.ColorYellow(), ui.ColorReset())
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}
}
