package policy

import (
	"log/slog"

	"github.com/poiesic/kbforge/core"
)

// Evaluator applies thresholds to quality metrics.
type Evaluator struct {
	thresholds *Thresholds
	logger     *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewEvaluator creates an evaluator. A nil thresholds value takes the
// built-in defaults.
func NewEvaluator(thresholds *Thresholds, opts ...Option) (*Evaluator, error) {
	if thresholds == nil {
		thresholds = DefaultThresholds()
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	e := &Evaluator{
		thresholds: thresholds,
		logger:     slog.Default().With("component", "policy-evaluator"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Evaluate checks the gated metrics against their thresholds.
//
// FAILED when any metric falls below its threshold. PASSED when every metric
// clears its threshold by at least the warning margin. WARNINGS when all
// pass but at least one sits inside the margin (soft pass).
func (e *Evaluator) Evaluate(metrics *core.QualityMetrics) *core.PolicyResult {
	checks := []core.MetricCheck{
		e.check("trust_score", metrics.TrustScore, e.thresholds.TrustScore),
		e.check(core.DimensionSecurity, metrics.Dimension(core.DimensionSecurity), e.thresholds.Security),
		e.check(core.DimensionMetadataPresence, metrics.Dimension(core.DimensionMetadataPresence), e.thresholds.MetadataPresence),
		e.check(core.DimensionKBReady, metrics.Dimension(core.DimensionKBReady), e.thresholds.KBReady),
	}

	status := core.PolicyPassed
	for _, c := range checks {
		if !c.Passed {
			status = core.PolicyFailed
			break
		}
		if c.Borderline {
			status = core.PolicyWarnings
		}
	}

	e.logger.Info("policy evaluated",
		"product", metrics.ProductID,
		"version", metrics.Version,
		"status", status.String())

	return &core.PolicyResult{
		Status:     status,
		Checks:     checks,
		Thresholds: e.thresholds.Snapshot(),
	}
}

func (e *Evaluator) check(name string, value, threshold float64) core.MetricCheck {
	passed := value >= threshold
	return core.MetricCheck{
		Name:       name,
		Value:      value,
		Threshold:  threshold,
		Passed:     passed,
		Borderline: passed && e.thresholds.WarnMargin > 0 && value < threshold+e.thresholds.WarnMargin,
	}
}
