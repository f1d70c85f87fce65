package config

import (
	"strconv"
	"strings"

	apperrors "github.com/agbru/psfactor/internal/errors"
)

// ParseMemoryLimit parses a human-readable memory size into bytes.
//
// Accepted forms: a plain byte count ("1073741824"), or a number with a
// K/M/G/T suffix and optional trailing "B" ("512M", "1GB", "1.5g").
// Parsing is case-insensitive; the multipliers are binary (K = 1024).
//
// Returns:
//   - int64: The size in bytes.
//   - error: A ConfigError for empty, malformed or non-positive input.
func ParseMemoryLimit(s string) (int64, error) {
	raw := s
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, apperrors.NewConfigError("empty memory limit")
	}

	multiplier := int64(1)
	if strings.HasSuffix(s, "B") && len(s) > 1 {
		s = s[:len(s)-1]
	}
	switch {
	case strings.HasSuffix(s, "K"):
		multiplier = 1 << 10
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "M"):
		multiplier = 1 << 20
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "G"):
		multiplier = 1 << 30
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "T"):
		multiplier = 1 << 40
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, apperrors.NewConfigError("invalid memory limit: %q", raw)
	}
	bytes := int64(value * float64(multiplier))
	if bytes <= 0 {
		return 0, apperrors.NewConfigError("memory limit must be positive: %q", raw)
	}
	return bytes, nil
}
