// Package config environment variable utilities for configuration override.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// getEnvString returns the value of the environment variable with the given
// key (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the environment value parsed as int, or the default if
// not set or invalid.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvFloat returns the environment value parsed as float64, or the default
// if not set or invalid.
func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool returns the environment value parsed as bool, or the default if
// not set. Accepts "true", "1", "yes" as true; "false", "0", "no" as false
// (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration returns the environment value parsed as time.Duration, or
// the default if not set or invalid. Accepts formats like "5m", "1h30m".
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables:
//   - PSFACTOR_N: Target integer to factor (string)
//   - PSFACTOR_BOUND: Factor search bound (string)
//   - PSFACTOR_MAX_MEMORY: Memory cap ("1GB", "512M", bytes)
//   - PSFACTOR_FREE_RAM_PERCENT: Percentage of RAM to keep free (float)
//   - PSFACTOR_ENGINE: Arithmetic engine (big, gmp, all)
//   - PSFACTOR_WORKERS: Parallel tree merge workers (int)
//   - PSFACTOR_TIMEOUT: Run timeout (duration: "10m", "30s")
//   - PSFACTOR_VERBOSE: Enable verbose output (bool)
//   - PSFACTOR_DETAILS: Enable detailed report (bool)
//   - PSFACTOR_JSON: Enable JSON output (bool)
//   - PSFACTOR_QUIET: Enable quiet mode (bool)
//   - PSFACTOR_NO_COLOR: Disable colored output (bool)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "n") {
		config.N = getEnvString("N", config.N)
	}
	if !isFlagSet(fs, "bound") {
		config.Bound = getEnvString("BOUND", config.Bound)
	}
	if !isFlagSet(fs, "max-memory") {
		config.MaxMemory = getEnvString("MAX_MEMORY", config.MaxMemory)
	}
	if !isFlagSet(fs, "free-ram-percent") {
		config.FreeRAMPercent = getEnvFloat("FREE_RAM_PERCENT", config.FreeRAMPercent)
	}
	if !isFlagSet(fs, "engine") {
		config.Engine = getEnvString("ENGINE", config.Engine)
	}
	if !isFlagSet(fs, "workers") {
		config.Workers = getEnvInt("WORKERS", config.Workers)
	}
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
	if !isFlagSet(fs, "v") {
		config.Verbose = getEnvBool("VERBOSE", config.Verbose)
	}
	if !isFlagSet(fs, "d") && !isFlagSet(fs, "details") {
		config.Details = getEnvBool("DETAILS", config.Details)
	}
	if !isFlagSet(fs, "json") {
		config.JSONOutput = getEnvBool("JSON", config.JSONOutput)
	}
	if !isFlagSet(fs, "quiet") && !isFlagSet(fs, "q") {
		config.Quiet = getEnvBool("QUIET", config.Quiet)
	}
	if !isFlagSet(fs, "no-color") {
		config.NoColor = getEnvBool("NO_COLOR", config.NoColor)
	}
}
