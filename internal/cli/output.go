// Result output for the factoring CLI: human-readable, quiet and JSON modes.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/agbru/psfactor/internal/factor"
)

// OutputConfig holds the output-mode flags for result display.
type OutputConfig struct {
	// Quiet prints only the machine-readable result line.
	Quiet bool
	// JSON prints the result as a single JSON object.
	JSON bool
	// Details prints the extended analysis section.
	Details bool
	// Verbose prints full numbers regardless of size.
	Verbose bool
}

// DisplayFactorResult formats and prints the outcome of a factoring run.
//
// Parameters:
//   - out: The io.Writer for the output.
//   - res: The factoring result.
//   - n: The factored target.
//   - cfg: Output-mode flags.
func DisplayFactorResult(out io.Writer, res *factor.Result, n *big.Int, cfg OutputConfig) {
	if cfg.JSON {
		displayJSONResult(out, res, n)
		return
	}
	if cfg.Quiet {
		DisplayQuietResult(out, res)
		return
	}

	if res.Outcome == factor.OutcomeFactorFound {
		fmt.Fprintf(out, "\n%s--- Factor found ---%s\n", ColorBold(), ColorReset())
		fmt.Fprintf(out, "Factor     : %s%s%s\n", ColorGreen(), formatNumberString(res.Factor.String()), ColorReset())
		fmt.Fprintf(out, "Complement : %s%s%s\n", ColorGreen(), formatNumberString(res.Complement.String()), ColorReset())
	} else {
		fmt.Fprintf(out, "\n%sNo factor found within the covered range.%s\n", ColorYellow(), ColorReset())
		if res.Degenerate {
			fmt.Fprintf(out, "The aggregate gcd saturated and the backtracking search was exhausted;\n")
			fmt.Fprintf(out, "this means either no factor exists in range or the engine misbehaved.\n")
		}
	}

	if cfg.Details {
		fmt.Fprintf(out, "\n%s--- Run analysis ---%s\n", ColorBold(), ColorReset())
		fmt.Fprintf(out, "Engine            : %s%s%s\n", ColorBlue(), res.Engine, ColorReset())
		fmt.Fprintf(out, "Duration          : %s%s%s\n", ColorGreen(), nonZeroDuration(res.Duration), ColorReset())
		if res.StepSize.L > 0 {
			fmt.Fprintf(out, "Step size (L)     : %s%s%s (%s)\n",
				ColorCyan(), formatNumberString(fmt.Sprintf("%d", res.StepSize.L)), ColorReset(), res.StepSize.Source)
			fmt.Fprintf(out, "Covered range     : [1, %s%s%s]\n",
				ColorCyan(), formatNumberString(res.StepSize.Coverage().String()), ColorReset())
			if res.StepSize.Clamped {
				fmt.Fprintf(out, "%sNote: step size clamped by the memory budget; coverage is narrowed.%s\n",
					ColorYellow(), ColorReset())
			}
		}
		fmt.Fprintf(out, "Target size       : %s%s%s bits\n",
			ColorCyan(), formatNumberString(fmt.Sprintf("%d", n.BitLen())), ColorReset())
	}
}

// DisplayQuietResult prints a single-line result suitable for scripting:
// "factor complement" on success, "none" otherwise.
func DisplayQuietResult(out io.Writer, res *factor.Result) {
	if res.Outcome == factor.OutcomeFactorFound {
		fmt.Fprintf(out, "%s %s\n", res.Factor.String(), res.Complement.String())
		return
	}
	fmt.Fprintln(out, "none")
}

type jsonResult struct {
	Outcome     string `json:"outcome"`
	Factor      string `json:"factor,omitempty"`
	Complement  string `json:"complement,omitempty"`
	Target      string `json:"target"`
	Engine      string `json:"engine,omitempty"`
	StepSize    uint64 `json:"stepSize,omitempty"`
	Coverage    string `json:"coverage,omitempty"`
	Clamped     bool   `json:"clamped,omitempty"`
	Degenerate  bool   `json:"degenerate,omitempty"`
	DurationMS  int64  `json:"durationMs"`
}

func displayJSONResult(out io.Writer, res *factor.Result, n *big.Int) {
	jr := jsonResult{
		Outcome:    res.Outcome.String(),
		Target:     n.String(),
		Engine:     res.Engine,
		Degenerate: res.Degenerate,
		DurationMS: res.Duration.Milliseconds(),
	}
	if res.Outcome == factor.OutcomeFactorFound {
		jr.Factor = res.Factor.String()
		jr.Complement = res.Complement.String()
	}
	if res.StepSize.L > 0 {
		jr.StepSize = res.StepSize.L
		jr.Coverage = res.StepSize.Coverage().String()
		jr.Clamped = res.StepSize.Clamped
	}
	enc := json.NewEncoder(out)
	_ = enc.Encode(jr)
}

// PrintExecutionConfig announces the run parameters before the pipeline
// starts, mirroring what the flags resolved to.
func PrintExecutionConfig(out io.Writer, n, bound *big.Int, budgetBytes int64, engines []string, timeout time.Duration) {
	fmt.Fprintf(out, "Factoring %s%s%s (%s bits)",
		ColorMagenta(), truncateNumber(n.String(), 50), ColorReset(),
		formatNumberString(fmt.Sprintf("%d", n.BitLen())))
	if bound != nil {
		fmt.Fprintf(out, ", bound %s%s%s", ColorCyan(), formatNumberString(bound.String()), ColorReset())
	}
	if budgetBytes > 0 {
		fmt.Fprintf(out, ", memory budget %s%s%s", ColorCyan(), FormatBytes(budgetBytes), ColorReset())
	}
	fmt.Fprintf(out, "\nEngines: %s%v%s | Timeout: %s%s%s\n",
		ColorBlue(), engines, ColorReset(),
		ColorYellow(), timeout, ColorReset())
}

// PrintPeakMemory reports the process peak RSS at the end of a run.
func PrintPeakMemory(out io.Writer, peakBytes int64) {
	fmt.Fprintf(out, "Peak memory usage: %s%s%s\n", ColorCyan(), FormatBytes(peakBytes), ColorReset())
}

// FormatBytes renders a byte count with a binary-unit suffix.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func truncateNumber(s string, max int) string {
	if len(s) <= max {
		return formatNumberString(s)
	}
	edge := max / 2
	return s[:edge] + "..." + s[len(s)-edge:]
}

func nonZeroDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return FormatExecutionDuration(d)
}
