// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package quality

import (
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/kbforge/core"
	"github.com/poiesic/kbforge/optimize"
)

// DefaultWeights gives every dimension equal weight in the trust score.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		core.DimensionQuality:          1,
		core.DimensionCompleteness:     1,
		core.DimensionSecurity:         1,
		core.DimensionMetadataPresence: 1,
		core.DimensionKBReady:          1,
	}
}

// Input is the material a scoring pass works on: the optimized chunk set of
// one document plus its extracted metadata.
type Input struct {
	ProductID string
	Version   string
	Chunks    []core.Chunk
	Metadata  core.DocumentMetadata
}

// Scorer computes QualityMetrics for a document's chunk set.
// Scoring is pure: no network calls, no randomness, no hidden state.
type Scorer struct {
	weights map[string]float64
	logger  *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the trust-score weighting. Missing dimensions get
// weight zero; weights are normalized, so only their ratios matter.
func WithWeights(weights map[string]float64) Option {
	return func(s *Scorer) {
		if len(weights) > 0 {
			s.weights = weights
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewScorer creates a scorer with equal default weighting.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights: DefaultWeights(),
		logger:  slog.Default().With("component", "quality-scorer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes all dimension scores and the aggregate trust score.
// All values are clamped to [0,100]; empty input scores zero on the content
// dimensions rather than erroring.
func (s *Scorer) Score(input Input) core.QualityMetrics {
	dimensions := map[string]float64{
		core.DimensionQuality:          scoreQuality(input.Chunks),
		core.DimensionCompleteness:     scoreCompleteness(input.Chunks),
		core.DimensionSecurity:         scoreSecurity(input.Chunks),
		core.DimensionMetadataPresence: scoreMetadataPresence(input.Metadata),
	}
	dimensions[core.DimensionKBReady] = scoreKBReady(dimensions)

	metrics := core.QualityMetrics{
		ProductID:  input.ProductID,
		Version:    input.Version,
		Dimensions: dimensions,
		TrustScore: s.trustScore(dimensions),
		ComputedAt: time.Now().UTC(),
	}

	s.logger.Debug("quality scored",
		"product", input.ProductID,
		"version", input.Version,
		"trust", metrics.TrustScore)
	return metrics
}

// trustScore is the weighted aggregate of the dimension scores.
func (s *Scorer) trustScore(dimensions map[string]float64) float64 {
	var sum, totalWeight float64
	for name, value := range dimensions {
		w := s.weights[name]
		sum += value * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return core.ClampScore(sum / totalWeight)
}

// scoreQuality averages the per-chunk heuristic quality estimate.
func scoreQuality(chunks []core.Chunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	var sum float64
	for _, chunk := range chunks {
		sum += optimize.EstimateQuality(chunk.Text)
	}
	return core.ClampScore(sum / float64(len(chunks)))
}

// scoreCompleteness measures how self-contained the chunks read: whether
// they end on sentence boundaries and carry enough words to stand alone.
func scoreCompleteness(chunks []core.Chunk) float64 {
	if len(chunks) == 0 {
		return 0
	}

	var sum float64
	for _, chunk := range chunks {
		sum += chunkCompleteness(chunk.Text)
	}
	return core.ClampScore(sum / float64(len(chunks)))
}

func chunkCompleteness(text string) float64 {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	if trimmed == "" {
		return 0
	}

	score := 100.0

	// A chunk cut mid-sentence loses context on both sides of the cut.
	last, _ := utf8.DecodeLastRuneInString(trimmed)
	if !strings.ContainsRune(".!?:\"')", last) {
		score -= 30
	}

	// Fragments under a sentence's worth of words rarely stand alone.
	words := len(strings.Fields(trimmed))
	if words < 8 {
		score -= float64(8-words) * 8
	}

	return core.ClampScore(score)
}

// scoreSecurity measures PII-redaction effectiveness across the chunk set:
// the fraction of detected PII occurrences that were redacted upstream.
// A chunk set with no PII at all is fully secure.
func scoreSecurity(chunks []core.Chunk) float64 {
	remaining, redacted := 0, 0
	for _, chunk := range chunks {
		remaining += CountPII(chunk.Text)
		redacted += CountRedactions(chunk.Text)
	}
	return core.ClampScore(redactionEffectiveness(remaining, redacted) * 100)
}

// expectedMetadataFields is the denominator of the metadata-presence
// dimension: date, author, section, source.
const expectedMetadataFields = 4

// scoreMetadataPresence measures the fraction of expected metadata fields
// that are non-empty.
func scoreMetadataPresence(meta core.DocumentMetadata) float64 {
	present := 0
	for _, field := range []string{meta.Date, meta.Author, meta.Section, meta.Source} {
		if strings.TrimSpace(field) != "" {
			present++
		}
	}
	return core.ClampScore(float64(present) / expectedMetadataFields * 100)
}

// scoreKBReady derives overall knowledge-base readiness from the content
// dimensions: quality and completeness dominate, metadata presence rounds
// it out, and unredacted PII caps the score hard.
func scoreKBReady(dimensions map[string]float64) float64 {
	ready := 0.4*dimensions[core.DimensionQuality] +
		0.4*dimensions[core.DimensionCompleteness] +
		0.2*dimensions[core.DimensionMetadataPresence]

	if security := dimensions[core.DimensionSecurity]; security < 90 {
		ready = minFloat(ready, security)
	}
	return core.ClampScore(ready)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
