package optimize

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/kbforge/ai"
	"github.com/poiesic/kbforge/core"
)

// HybridOptimizer implements the two-phase optimization design: the free
// pattern pass runs once over the whole document before chunking, and the
// paid LLM pass runs per chunk afterwards, gated by mode and estimated
// quality. The per-chunk entry point takes a *core.Chunk, so a
// whole-document LLM call is unrepresentable; provider input limits made
// single-shot document calls a real failure mode.
type HybridOptimizer struct {
	config   *Config
	enhancer ai.Enhancer
	estimate func(string) float64
	usage    *Usage
	logger   *slog.Logger
}

// Option configures a HybridOptimizer.
type Option func(*HybridOptimizer)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *HybridOptimizer) {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
	}
}

// WithQualityEstimator replaces the chunk quality estimator.
// Default is EstimateQuality. Intended for tests.
func WithQualityEstimator(estimate func(string) float64) Option {
	return func(h *HybridOptimizer) {
		if estimate != nil {
			h.estimate = estimate
		}
	}
}

// NewHybridOptimizer creates an optimizer for the given configuration.
// The enhancer may be nil only in pattern mode.
func NewHybridOptimizer(config *Config, enhancer ai.Enhancer, opts ...Option) (*HybridOptimizer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Mode != ModePattern && enhancer == nil {
		return nil, ErrEnhancerRequired
	}

	h := &HybridOptimizer{
		config:   config,
		enhancer: enhancer,
		estimate: EstimateQuality,
		usage:    &Usage{},
		logger:   slog.Default().With("component", "hybrid-optimizer"),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h, nil
}

// OptimizeDocument runs the document-level pattern pass and metadata
// extraction. It returns the normalized text and any extracted tags.
// This always runs, regardless of mode: the pattern pass is free and fast.
func (h *HybridOptimizer) OptimizeDocument(text string) (string, core.DocumentMetadata, []string) {
	normalized := Apply(text, h.config.Flags)

	var meta core.DocumentMetadata
	var tags []string
	if h.config.Flags.ExtractMetadata {
		meta, tags = ExtractMetadata(normalized)
	}

	return normalized, meta, tags
}

// OptimizeChunk runs the per-chunk phase on a single chunk, mutating its
// text, method, cost and quality score exactly once. The chunk's text is
// expected to already be pattern-normalized by the document pass.
//
// Failure semantics: any enhancer error degrades to the pattern text with
// zero cost; the chunk is never lost to a provider outage.
func (h *HybridOptimizer) OptimizeChunk(ctx context.Context, chunk *core.Chunk) error {
	quality := h.estimate(chunk.Text)
	chunk.QualityScore = quality

	switch h.config.Mode {
	case ModePattern:
		h.keepPattern(chunk)
		return nil

	case ModeHybrid:
		if quality >= h.config.QualityThreshold {
			h.keepPattern(chunk)
			return nil
		}
		h.enhance(ctx, chunk, core.MethodHybrid)
		return nil

	case ModeLLM:
		h.enhance(ctx, chunk, core.MethodLLM)
		return nil

	default:
		return ErrUnknownMode
	}
}

// Usage returns the accumulated run-level telemetry.
func (h *HybridOptimizer) Usage() UsageReport {
	return h.usage.Report()
}

func (h *HybridOptimizer) keepPattern(chunk *core.Chunk) {
	chunk.Method = core.MethodPattern
	chunk.Cost = 0
	chunk.UpdatedAt = time.Now().UTC()
	h.usage.AddPattern()
}

// enhance sends one chunk to the LLM and applies the result, falling back
// to the pattern text on any failure.
func (h *HybridOptimizer) enhance(ctx context.Context, chunk *core.Chunk, method core.OptimizationMethod) {
	result, err := h.enhancer.Enhance(ctx, chunk.Text)
	if err != nil {
		h.logger.Warn("enhancement failed, keeping pattern text",
			"chunk", chunk.Seq, "err", err)
		h.keepPattern(chunk)
		return
	}

	chunk.Text = result.Text
	chunk.Method = method
	chunk.Cost = result.Cost
	chunk.UpdatedAt = time.Now().UTC()
	h.usage.AddLLM(result.Cost, result.TokensUsed)
}
