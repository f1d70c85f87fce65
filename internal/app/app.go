package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/agbru/psfactor/internal/cli"
	"github.com/agbru/psfactor/internal/config"
	"github.com/agbru/psfactor/internal/engine"
	apperrors "github.com/agbru/psfactor/internal/errors"
	"github.com/agbru/psfactor/internal/factor"
	"github.com/agbru/psfactor/internal/logging"
	"github.com/agbru/psfactor/internal/orchestration"
	"github.com/agbru/psfactor/internal/sysmem"
	"github.com/agbru/psfactor/internal/ui"
)

// Application represents the psfactor application instance.
// It encapsulates the configuration, the resolved numeric inputs, and the
// engine factory used to build factorers.
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Resolved holds the parsed numeric values (target, bound, budget).
	Resolved config.ResolvedConfig
	// Factory provides access to the registered arithmetic engines.
	Factory *engine.DefaultFactory
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration, resolves the numeric inputs, and returns
// an error if any step fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing, validation or resolution fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := engine.GlobalFactory()
	availableEngines := factory.List()

	// args[0] is program name, args[1:] are the actual arguments
	programName := "psfactor"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, availableEngines)
	if err != nil {
		return nil, err
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		fmt.Fprintln(errWriter, "Configuration error:", err)
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Resolved:  resolved,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// Run executes the factoring run and returns the process exit code.
//
// Parameters:
//   - ctx: The parent context.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Initialize CLI theme (respects -no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)
	a.setupLogging()

	if err := a.validateTarget(); err != nil {
		return apperrors.HandleFactorizationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	budget, err := a.resolveMemoryBudget()
	if err != nil {
		return apperrors.HandleFactorizationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	if err := a.precheckProof(budget); err != nil {
		return apperrors.HandleFactorizationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	factorers, err := a.buildFactorers(budget)
	if err != nil {
		return apperrors.HandleFactorizationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	engineNames := make([]string, len(factorers))
	for i, f := range factorers {
		engineNames[i] = f.Name()
	}
	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(out, a.Resolved.N, a.Resolved.Bound, budget, engineNames, a.Config.Timeout)
	}

	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	// Progress spinners would pollute quiet and JSON output.
	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}

	results := orchestration.ExecuteFactorizations(ctx, factorers, a.Resolved.N, progressOut)

	outCfg := cli.OutputConfig{
		Quiet:   a.Config.Quiet,
		JSON:    a.Config.JSONOutput,
		Details: a.Config.Details,
		Verbose: a.Config.Verbose,
	}
	exitCode := orchestration.AnalyzeResults(results, a.Resolved.N, outCfg, out)

	if exitCode == apperrors.ExitSuccess && a.Resolved.ClaimedFactor != nil {
		a.printProofConclusion(results, out)
	}

	a.reportPeakMemory(out)
	return exitCode
}

// setupLogging configures the global zerolog logger: console output on the
// error writer, warn level by default, debug when details or verbose are on.
func (a *Application) setupLogging() {
	level := zerolog.WarnLevel
	if a.Config.Details || a.Config.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zlog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: a.ErrWriter}).With().Timestamp().Logger()
}

// validateTarget enforces the minimal constraints on the resolved target.
func (a *Application) validateTarget() error {
	n := a.Resolved.N
	if n == nil || n.Cmp(big.NewInt(2)) < 0 {
		return apperrors.NewConfigError("target must be an integer >= 2")
	}
	if b := a.Resolved.Bound; b != nil && b.Sign() < 1 {
		return apperrors.NewConfigError("bound must be a positive integer")
	}
	return nil
}

// resolveMemoryBudget combines the explicit -max-memory cap with the budget
// derived from the free-RAM percentage, taking the stricter of the two.
// On platforms without a system memory query the derived budget is skipped.
func (a *Application) resolveMemoryBudget() (int64, error) {
	explicit := a.Resolved.MaxMemoryBytes

	var derived int64
	if a.Config.FreeRAMPercent > 0 {
		snap, err := sysmem.ReadSnapshot()
		switch {
		case errors.Is(err, sysmem.ErrUnsupported):
			zlog.Debug().Msg("System memory query unsupported; skipping free-RAM budget")
		case err != nil:
			return 0, apperrors.WrapError(err, "querying system memory")
		default:
			allowed := int64(float64(snap.TotalBytes) * (1 - a.Config.FreeRAMPercent/100))
			derived = allowed - int64(snap.UsedBytes)
			if derived < 1 {
				zlog.Warn().
					Str("used", cli.FormatBytes(int64(snap.UsedBytes))).
					Float64("freePercent", a.Config.FreeRAMPercent).
					Msg("System memory already above the free-RAM threshold; using minimal budget")
				derived = 1
			}
		}
	}

	switch {
	case explicit > 0 && derived > 0:
		if derived < explicit {
			return derived, nil
		}
		return explicit, nil
	case explicit > 0:
		return explicit, nil
	default:
		return derived, nil
	}
}

// precheckProof validates proof mode before the run starts: the claimed
// factor must divide the target, and the budget must cover the step size the
// proof requires. Both violations are hard input errors.
func (a *Application) precheckProof(budget int64) error {
	p := a.Resolved.ClaimedFactor
	if p == nil {
		return nil
	}
	if new(big.Int).Mod(a.Resolved.N, p).Sign() != 0 {
		return apperrors.NewConfigError("claimed factor %s does not divide the target", p.String())
	}
	if budget > 0 {
		// Unclamped selection gives the step size the proof needs.
		sel, err := factor.SelectStepSize(a.Resolved.N, a.Resolved.Bound, 0)
		if err != nil {
			return err
		}
		required := factor.NewCostModel(a.Resolved.N).RequiredBytes(sel.L)
		if required > budget {
			return apperrors.NewConfigError(
				"insufficient memory for the proof: requires %s, budget is %s",
				cli.FormatBytes(required), cli.FormatBytes(budget))
		}
	}
	return nil
}

// buildFactorers constructs one factorer per selected engine.
func (a *Application) buildFactorers(budget int64) ([]factor.Factorer, error) {
	names := []string{a.Config.Engine}
	if a.Config.Engine == "all" {
		names = a.Factory.List()
	}
	opts := factor.Options{
		Bound:          a.Resolved.Bound,
		MaxMemoryBytes: budget,
		TreeWorkers:    a.Config.Workers,
	}
	runLogger := logging.NewLogger(a.ErrWriter, "factor")
	factorers := make([]factor.Factorer, 0, len(names))
	for _, name := range names {
		eng, err := a.Factory.Get(name)
		if err != nil {
			return nil, apperrors.NewConfigError("%v", err)
		}
		factorers = append(factorers, factor.NewFactorer(eng, opts, factor.WithLogger(runLogger)))
	}
	return factorers, nil
}

// printProofConclusion interprets the run outcome in proof mode. The bound
// equals the claimed factor, so the run covers every candidate below it: a
// smaller factor disproves the claim, the claimed factor itself (or nothing
// smaller) is consistent with it.
func (a *Application) printProofConclusion(results []orchestration.FactorizationResult, out io.Writer) {
	p := a.Resolved.ClaimedFactor
	for i := range results {
		res := results[i].Result
		if results[i].Err != nil || res == nil || res.Outcome != factor.OutcomeFactorFound {
			continue
		}
		switch res.Factor.Cmp(p) {
		case -1:
			fmt.Fprintf(out, "\n%sClaim disproved:%s %s is a smaller factor than the claimed %s.\n",
				cli.ColorRed(), cli.ColorReset(), res.Factor.String(), p.String())
		default:
			fmt.Fprintf(out, "\n%sClaim upheld:%s no factor smaller than %s was found in the covered range.\n",
				cli.ColorGreen(), cli.ColorReset(), p.String())
		}
		return
	}
	fmt.Fprintf(out, "\n%sClaim upheld:%s no factor smaller than %s was found in the covered range.\n",
		cli.ColorGreen(), cli.ColorReset(), p.String())
}

// reportPeakMemory prints and logs the process peak RSS at the end of a run.
func (a *Application) reportPeakMemory(out io.Writer) {
	peak, err := sysmem.PeakRSSBytes()
	if err != nil {
		zlog.Debug().Err(err).Msg("Peak memory query failed")
		return
	}
	zlog.Debug().Int64("peakBytes", peak).Msg("Peak memory usage")
	if !a.Config.Quiet && !a.Config.JSONOutput {
		cli.PrintPeakMemory(out, peak)
	}
}
