// Package factor implements Pollard–Strassen integer factoring: step-size
// selection under bound and memory constraints, balanced product-tree
// construction, multipoint evaluation, and gcd-based factor extraction with
// a two-level backtracking search for the degenerate case.
//
// The package owns the algorithmic orchestration only; all modular polynomial
// arithmetic is delegated to an injected engine.Context.
package factor

import (
	"context"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/psfactor/internal/engine"
	apperrors "github.com/agbru/psfactor/internal/errors"
	"github.com/agbru/psfactor/internal/logging"
)

const tracerName = "psfactor/factor"

var (
	factorizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psfactor_factorizations_total",
			Help: "Total number of factoring runs by engine and status.",
		},
		[]string{"engine", "status"},
	)
	factorizationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "psfactor_factorization_duration_seconds",
			Help:    "Wall-clock duration of factoring runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
		},
		[]string{"engine"},
	)
)

// Factorer runs the full factoring pipeline for one target integer.
//
// Progress updates are sent to progressChan (which may be nil) tagged with
// index, so several concurrent factorers can share one channel.
type Factorer interface {
	// Factorize attempts to find a nontrivial factor of n.
	Factorize(ctx context.Context, progressChan chan<- ProgressUpdate, index int, n *big.Int) (*Result, error)

	// Name returns the name of the underlying arithmetic engine.
	Name() string
}

// FactorerOption customizes a Factorer built by NewFactorer.
type FactorerOption func(*factorer)

// WithLogger replaces the default logger of the factorer decorator.
func WithLogger(l logging.Logger) FactorerOption {
	return func(f *factorer) { f.logger = l }
}

// NewFactorer builds a Factorer on the given engine. The returned
// implementation decorates the core pipeline with metrics, tracing and
// structured logging.
func NewFactorer(eng engine.Engine, opts Options, fopts ...FactorerOption) Factorer {
	f := &factorer{
		core:   coreFactorer{eng: eng, opts: opts},
		logger: logging.NewDefaultLogger(),
	}
	for _, opt := range fopts {
		opt(f)
	}
	return f
}

// factorer decorates coreFactorer with the observability concerns so the
// core stays a plain, testable algorithm.
type factorer struct {
	core   coreFactorer
	logger logging.Logger
}

// Name returns the engine name.
func (f *factorer) Name() string { return f.core.eng.Name() }

// Factorize implements Factorer.
func (f *factorer) Factorize(ctx context.Context, progressChan chan<- ProgressUpdate, index int, n *big.Int) (*Result, error) {
	engineName := f.core.eng.Name()
	targetBits := 0
	if n != nil {
		targetBits = n.BitLen()
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Factorize",
		trace.WithAttributes(
			attribute.String("factor.engine", engineName),
			attribute.Int("factor.target_bits", targetBits),
		))
	defer span.End()

	start := time.Now()
	result, err := f.core.factorize(ctx, progressChan, index, n)
	duration := time.Since(start)

	factorizationDuration.WithLabelValues(engineName).Observe(duration.Seconds())
	switch {
	case err != nil && apperrors.IsContextError(err):
		factorizationsTotal.WithLabelValues(engineName, "canceled").Inc()
		span.RecordError(err)
	case err != nil:
		factorizationsTotal.WithLabelValues(engineName, "error").Inc()
		span.RecordError(err)
	case result.Outcome == OutcomeFactorFound:
		factorizationsTotal.WithLabelValues(engineName, "success").Inc()
	default:
		factorizationsTotal.WithLabelValues(engineName, "no_factor").Inc()
	}

	if err != nil {
		if apperrors.IsContextError(err) {
			// Cancellation and timeouts are expected shutdown paths, not
			// failures of the run itself.
			f.logger.Debug("Factoring run interrupted",
				logging.Err(err),
				logging.String("engine", engineName),
				logging.String("duration", duration.String()))
		} else {
			f.logger.Error("Factoring run failed", err,
				logging.String("engine", engineName),
				logging.String("duration", duration.String()))
		}
		return nil, err
	}

	result.Engine = engineName
	result.Duration = duration
	span.SetAttributes(
		attribute.String("factor.outcome", result.Outcome.String()),
		attribute.Bool("factor.degenerate", result.Degenerate),
	)
	f.logger.Debug("Factoring run complete",
		logging.String("engine", engineName),
		logging.String("outcome", result.Outcome.String()),
		logging.Uint64("stepSize", result.StepSize.L),
		logging.Int("targetBits", targetBits),
		logging.String("duration", duration.String()))
	return result, nil
}

// coreFactorer is the undecorated pipeline.
type coreFactorer struct {
	eng  engine.Engine
	opts Options
}

func (c *coreFactorer) factorize(ctx context.Context, progressChan chan<- ProgressUpdate, index int, n *big.Int) (*Result, error) {
	if n == nil || n.Sign() < 1 {
		return nil, apperrors.NewConfigError("target must be a positive integer")
	}

	subject := &ProgressSubject{}
	if progressChan != nil {
		subject.Attach(&ChannelObserver{Ch: progressChan})
	}
	report := func(v float64) {
		subject.Notify(ProgressUpdate{FactorerIndex: index, Value: v})
	}

	if n.Cmp(big.NewInt(SmallCompositeThreshold)) <= 0 {
		report(progressComplete)
		return smallCompositeResult(n), nil
	}

	sel, err := SelectStepSize(n, c.opts.Bound, c.opts.MaxMemoryBytes)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Uint64("stepSize", sel.L).
		Str("source", string(sel.Source)).
		Bool("clamped", sel.Clamped).
		Msg("Step size selected")
	report(progressSelectionDone)

	ec, err := c.eng.NewContext(n)
	if err != nil {
		return nil, err
	}

	report(progressLeavesBuilt)
	root, err := BuildProductTree(ctx, ec, sel.L, c.opts.TreeWorkers, func(done, total uint64) {
		frac := progressLeavesBuilt + (progressTreeBuilt-progressLeavesBuilt)*float64(done)/float64(total)
		report(frac)
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Uint64("degree", sel.L).Msg("Product tree built")
	report(progressTreeBuilt)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	values, err := Evaluate(ec, root, Points(sel.L))
	if err != nil {
		return nil, err
	}
	log.Debug().Int("residues", len(values)).Msg("Multipoint evaluation complete")
	report(progressEvaluated)

	g, degenerate, err := ExtractFactor(ctx, ec, n, values, sel.L)
	if err != nil {
		return nil, err
	}
	report(progressComplete)

	result := &Result{Outcome: OutcomeNoFactor, StepSize: sel, Degenerate: degenerate}
	if g != nil {
		result.Outcome = OutcomeFactorFound
		result.Factor = g
		result.Complement = new(big.Int).Quo(n, g)
	}
	return result, nil
}

// smallCompositeResult handles targets at or below SmallCompositeThreshold
// with trial division; building a polynomial context for them costs more
// than the factoring itself.
func smallCompositeResult(n *big.Int) *Result {
	if d := TrialDivide(n); d != nil {
		return &Result{
			Outcome:    OutcomeFactorFound,
			Factor:     d,
			Complement: new(big.Int).Quo(n, d),
		}
	}
	return &Result{Outcome: OutcomeNoFactor}
}
