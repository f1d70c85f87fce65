package factor

import (
	"math/big"
	"time"
)

// Outcome classifies the result of a factoring run.
type Outcome int

const (
	// OutcomeFactorFound means a nontrivial factor was recovered.
	OutcomeFactorFound Outcome = iota
	// OutcomeNoFactor means the search completed without finding a factor:
	// either no factor exists within the covered range, or (when Degenerate
	// is set) the backtracking search came up empty.
	OutcomeNoFactor
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeFactorFound:
		return "factor found"
	case OutcomeNoFactor:
		return "no factor found"
	default:
		return "unknown"
	}
}

// Result is the outcome of one factoring run.
type Result struct {
	Outcome Outcome

	// Factor is a nontrivial divisor of the target (1 < Factor < N),
	// nil unless Outcome is OutcomeFactorFound.
	Factor *big.Int

	// Complement is N / Factor, nil unless a factor was found.
	Complement *big.Int

	// StepSize records the selected step size and its provenance.
	// It is the zero value for runs short-circuited by trial division.
	StepSize StepSize

	// Degenerate records that the aggregate gcd saturated to N and the
	// backtracking search ran. With OutcomeNoFactor it deliberately leaves
	// open whether no factor exists in range or the engine misbehaved.
	Degenerate bool

	// Engine is the name of the arithmetic engine that produced the result.
	Engine string

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}
