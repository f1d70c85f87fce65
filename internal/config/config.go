// Package config provides the configuration management for the psfactor
// application. It defines the configuration structure, parses command-line
// flags with environment overrides, resolves the raw string inputs into
// arbitrary-precision values, and validates the result.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	apperrors "github.com/agbru/psfactor/internal/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables used by
	// psfactor. Environment variables provide an alternative to CLI flags,
	// following the 12-Factor App methodology.
	EnvPrefix = "PSFACTOR_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultTimeout is the default wall-clock cap for a run.
	DefaultTimeout = 10 * time.Minute
	// DefaultEngine is the default arithmetic engine selection.
	DefaultEngine = "big"
	// DefaultFreeRAMPercent is the percentage of total RAM kept free when
	// deriving a memory budget from the system. Zero disables the derived
	// budget.
	DefaultFreeRAMPercent = 10.0
)

// AppConfig aggregates the application's configuration parameters as parsed
// from the command line. Numeric targets are kept as raw strings here;
// Resolve turns them into arbitrary-precision values.
type AppConfig struct {
	// N is the target integer to factor (decimal or 0x-prefixed hex).
	N string
	// Bound restricts the search to factors <= Bound (raw string).
	Bound string
	// MaxMemory is the memory cap as bytes or a suffixed string ("1GB").
	MaxMemory string
	// FreeRAMPercent is the percentage of total RAM to keep free.
	FreeRAMPercent float64
	// ProveSmallestFactor is a claimed smallest factor to prove. It fixes
	// the bound and triggers the pre-run divisibility and memory checks.
	ProveSmallestFactor string
	// Engine selects the arithmetic engine ("big", "gmp", or "all").
	Engine string
	// Workers is the number of parallel product-tree merge workers.
	Workers int
	// Timeout sets the maximum duration for the run.
	Timeout time.Duration
	// Verbose, if true, displays full numbers regardless of size.
	Verbose bool
	// Details, if true, provides a detailed report with run metrics.
	Details bool
	// JSONOutput, if true, outputs the result in JSON format.
	JSONOutput bool
	// Quiet mode - minimal output for scripting purposes.
	Quiet bool
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
}

// ResolvedConfig carries the configuration after the raw strings have been
// parsed into usable values.
type ResolvedConfig struct {
	N              *big.Int
	Bound          *big.Int
	ClaimedFactor  *big.Int
	MaxMemoryBytes int64
}

// Resolve parses the raw numeric strings of the configuration.
// In proof mode the bound is fixed to the claimed factor.
//
// Returns:
//   - ResolvedConfig: The parsed values.
//   - error: A ConfigError describing the first malformed input.
func (c AppConfig) Resolve() (ResolvedConfig, error) {
	var r ResolvedConfig
	n, err := parseBigInt("n", c.N)
	if err != nil {
		return r, err
	}
	r.N = n

	if c.Bound != "" {
		b, err := parseBigInt("bound", c.Bound)
		if err != nil {
			return r, err
		}
		r.Bound = b
	}
	if c.ProveSmallestFactor != "" {
		p, err := parseBigInt("prove-smallest-factor", c.ProveSmallestFactor)
		if err != nil {
			return r, err
		}
		if p.Cmp(big.NewInt(2)) < 0 {
			return r, apperrors.NewConfigError("claimed factor must be >= 2, got %s", p.String())
		}
		r.ClaimedFactor = p
		// Proving p smallest only requires covering factors up to p.
		r.Bound = new(big.Int).Set(p)
	}
	if c.MaxMemory != "" {
		bytes, err := ParseMemoryLimit(c.MaxMemory)
		if err != nil {
			return r, err
		}
		r.MaxMemoryBytes = bytes
	}
	return r, nil
}

// parseBigInt parses a decimal or 0x-prefixed integer string.
func parseBigInt(name, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return nil, apperrors.NewConfigError("invalid integer for -%s: %q", name, s)
	}
	return v, nil
}

// Validate checks the semantic consistency of the configuration parameters.
//
// Parameters:
//   - availableEngines: The registered engine names (e.g., ["big", "gmp"]).
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate(availableEngines []string) error {
	if strings.TrimSpace(c.N) == "" {
		return apperrors.NewConfigError("a target integer is required: use -n <N>")
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("worker count cannot be negative: %d", c.Workers)
	}
	if c.FreeRAMPercent < 0 || c.FreeRAMPercent >= 100 {
		return apperrors.NewConfigError("free RAM percentage must be in [0, 100), got %g", c.FreeRAMPercent)
	}
	isEngineAvailable := false
	for _, e := range availableEngines {
		if e == c.Engine {
			isEngineAvailable = true
			break
		}
	}
	if c.Engine != "all" && !isEngineAvailable {
		return apperrors.NewConfigError("unrecognized engine: '%s'. Valid engines are: 'all' or [%s]",
			c.Engine, strings.Join(availableEngines, ", "))
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig.
// It defines all flags, applies environment overrides for flags not set on
// the command line (CLI > env > default), and validates the result.
//
// Parameters:
//   - programName: The program name, used in the usage message.
//   - args: The command-line arguments (typically os.Args[1:]).
//   - errorWriter: Where parsing errors and usage information are printed.
//   - availableEngines: The valid engine names for validation.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableEngines []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	engineHelp := fmt.Sprintf("Arithmetic engine: 'all' or one of [%s].", strings.Join(availableEngines, ", "))

	config := AppConfig{}
	fs.StringVar(&config.N, "n", "", "Target integer N to factor (decimal or 0x-prefixed hex).")
	fs.StringVar(&config.Bound, "bound", "", "Restrict the search to factors <= bound.")
	fs.StringVar(&config.MaxMemory, "max-memory", "", "Memory cap: bytes or suffixed string (\"1GB\", \"512M\").")
	fs.Float64Var(&config.FreeRAMPercent, "free-ram-percent", DefaultFreeRAMPercent, "Percentage of total RAM to keep free (0 disables).")
	fs.StringVar(&config.ProveSmallestFactor, "prove-smallest-factor", "", "Prove the claimed factor is the smallest (fixes the bound).")
	fs.StringVar(&config.Engine, "engine", DefaultEngine, engineHelp)
	fs.IntVar(&config.Workers, "workers", 0, "Parallel product-tree merge workers (0 = sequential).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the run.")
	fs.BoolVar(&config.Verbose, "v", false, "Display full values of results (can be very long).")
	fs.BoolVar(&config.Details, "d", false, "Display run details and result metadata.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Apply environment variable overrides for flags not explicitly set
	applyEnvOverrides(&config, fs)

	config.Engine = strings.ToLower(config.Engine)
	if err := config.Validate(availableEngines); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
