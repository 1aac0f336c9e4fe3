package optimize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/kbforge/ai"
	"github.com/poiesic/kbforge/ai/mock"
	"github.com/poiesic/kbforge/core"
)

// fixedEstimator returns the same quality score for every chunk.
func fixedEstimator(score float64) func(string) float64 {
	return func(string) float64 { return score }
}

func hybridConfig(threshold float64) *Config {
	return &Config{
		Mode: ModeHybrid,
		Flags: PatternFlags{
			EnhancedNormalization: true,
			ErrorCorrection:       true,
		},
		QualityThreshold: threshold,
	}
}

func TestNewHybridOptimizer(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		h, err := NewHybridOptimizer(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, ModePattern, h.config.Mode)
	})

	t.Run("enhancer required outside pattern mode", func(t *testing.T) {
		_, err := NewHybridOptimizer(hybridConfig(75), nil)
		assert.ErrorIs(t, err, ErrEnhancerRequired)

		_, err = NewHybridOptimizer(&Config{Mode: ModeLLM, QualityThreshold: 75}, nil)
		assert.ErrorIs(t, err, ErrEnhancerRequired)
	})

	t.Run("pattern mode needs no enhancer", func(t *testing.T) {
		_, err := NewHybridOptimizer(&Config{Mode: ModePattern, QualityThreshold: 75}, nil)
		assert.NoError(t, err)
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		_, err := NewHybridOptimizer(&Config{Mode: ModePattern, QualityThreshold: 150}, nil)
		assert.ErrorIs(t, err, ErrMalformedConfig)
	})
}

func TestOptimizeChunkHybridGating(t *testing.T) {
	t.Run("high quality keeps pattern text", func(t *testing.T) {
		enhancer := mock.NewMockEnhancer()
		h, err := NewHybridOptimizer(hybridConfig(75), enhancer,
			WithQualityEstimator(fixedEstimator(80)))
		require.NoError(t, err)

		chunk := &core.Chunk{Seq: 0, Text: "clean enough text"}
		require.NoError(t, h.OptimizeChunk(context.Background(), chunk))

		assert.Equal(t, core.MethodPattern, chunk.Method)
		assert.Zero(t, chunk.Cost)
		assert.Equal(t, 80.0, chunk.QualityScore)
		assert.Equal(t, 0, enhancer.CallCount())
	})

	t.Run("low quality escalates to LLM", func(t *testing.T) {
		enhancer := mock.NewMockEnhancer()
		h, err := NewHybridOptimizer(hybridConfig(75), enhancer,
			WithQualityEstimator(fixedEstimator(60)))
		require.NoError(t, err)

		chunk := &core.Chunk{Seq: 0, Text: "noisy   text"}
		require.NoError(t, h.OptimizeChunk(context.Background(), chunk))

		assert.Equal(t, core.MethodHybrid, chunk.Method)
		assert.Positive(t, chunk.Cost)
		assert.Equal(t, "noisy text", chunk.Text)
		assert.Equal(t, 1, enhancer.CallCount())
	})

	t.Run("quality at threshold keeps pattern", func(t *testing.T) {
		enhancer := mock.NewMockEnhancer()
		h, err := NewHybridOptimizer(hybridConfig(75), enhancer,
			WithQualityEstimator(fixedEstimator(75)))
		require.NoError(t, err)

		chunk := &core.Chunk{Seq: 0, Text: "borderline text"}
		require.NoError(t, h.OptimizeChunk(context.Background(), chunk))

		assert.Equal(t, core.MethodPattern, chunk.Method)
		assert.Equal(t, 0, enhancer.CallCount())
	})
}

func TestOptimizeChunkLLMMode(t *testing.T) {
	enhancer := mock.NewMockEnhancer()
	cfg := &Config{Mode: ModeLLM, QualityThreshold: 75}
	h, err := NewHybridOptimizer(cfg, enhancer,
		WithQualityEstimator(fixedEstimator(99)))
	require.NoError(t, err)

	chunk := &core.Chunk{Seq: 0, Text: "pristine text"}
	require.NoError(t, h.OptimizeChunk(context.Background(), chunk))

	// LLM mode ignores the quality estimate entirely.
	assert.Equal(t, core.MethodLLM, chunk.Method)
	assert.Equal(t, 1, enhancer.CallCount())
}

func TestOptimizeChunkPatternMode(t *testing.T) {
	h, err := NewHybridOptimizer(&Config{Mode: ModePattern, QualityThreshold: 75}, nil)
	require.NoError(t, err)

	chunk := &core.Chunk{Seq: 0, Text: "some text"}
	require.NoError(t, h.OptimizeChunk(context.Background(), chunk))

	assert.Equal(t, core.MethodPattern, chunk.Method)
	assert.Zero(t, chunk.Cost)
	assert.False(t, chunk.UpdatedAt.IsZero())
}

func TestOptimizeChunkEnhancerFailureFallsBack(t *testing.T) {
	enhancer := mock.NewMockEnhancer()
	enhancer.EnhanceFunc = func(ctx context.Context, text string) (*ai.EnhanceResult, error) {
		return nil, errors.New("provider unavailable")
	}

	h, err := NewHybridOptimizer(hybridConfig(75), enhancer,
		WithQualityEstimator(fixedEstimator(10)))
	require.NoError(t, err)

	original := "text that needed help"
	chunk := &core.Chunk{Seq: 3, Text: original}
	require.NoError(t, h.OptimizeChunk(context.Background(), chunk))

	// Failure degrades to the pattern text with zero cost.
	assert.Equal(t, original, chunk.Text)
	assert.Equal(t, core.MethodPattern, chunk.Method)
	assert.Zero(t, chunk.Cost)
}

func TestOptimizeDocument(t *testing.T) {
	cfg := &Config{
		Mode: ModePattern,
		Flags: PatternFlags{
			EnhancedNormalization: true,
			ErrorCorrection:       true,
			ExtractMetadata:       true,
		},
		QualityThreshold: 75,
	}
	h, err := NewHybridOptimizer(cfg, nil)
	require.NoError(t, err)

	text, meta, tags := h.OptimizeDocument("Release  notes v2.1 by teh team.\nDate: 2025-03-14")
	assert.Equal(t, "Release notes v2.1 by the team.\nDate: 2025-03-14", text)
	assert.Equal(t, "2025-03-14", meta.Date)
	assert.Equal(t, "v2.1", meta.DocVersion)
	assert.Contains(t, tags, "date:2025-03-14")
	assert.Contains(t, tags, "version:v2.1")
}

func TestUsageAccumulation(t *testing.T) {
	enhancer := mock.NewMockEnhancer()

	calls := 0
	h, err := NewHybridOptimizer(hybridConfig(75), enhancer,
		WithQualityEstimator(func(string) float64 {
			calls++
			if calls%2 == 0 {
				return 50 // escalate every second chunk
			}
			return 90
		}))
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		chunk := &core.Chunk{Seq: i, Text: "chunk text"}
		require.NoError(t, h.OptimizeChunk(context.Background(), chunk))
	}

	report := h.Usage()
	assert.Equal(t, 3, report.PatternChunks)
	assert.Equal(t, 3, report.LLMChunks)
	assert.InDelta(t, 0.0003, report.TotalCost, 1e-9)
	assert.Positive(t, report.TotalTokens)
}
