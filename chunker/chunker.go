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


package chunker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/kbforge/core"
)

// segment is a half-open [Start, End) rune range into the source text.
type segment struct {
	Start int
	End   int
}

func (s segment) len() int {
	return s.End - s.Start
}

// Chunker splits normalized document text into core.Chunk records according
// to a validated configuration.
type Chunker struct {
	config   *Config
	logger   *slog.Logger
	estimate func(string) int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// WithTokenEstimator replaces the token estimator.
// Default is EstimateTokens. Intended for tests.
func WithTokenEstimator(estimate func(string) int) Option {
	return func(c *Chunker) {
		if estimate != nil {
			c.estimate = estimate
		}
	}
}

// New creates a Chunker for the given configuration.
// A nil config takes the auto-mode defaults.
func New(config *Config, opts ...Option) (*Chunker, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Chunker{
		config:   config,
		logger:   slog.Default().With("component", "chunker"),
		estimate: EstimateTokens,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Chunk splits text into chunks for the given document. Sequence indices are
// assigned in text order and remain stable regardless of how chunks are
// processed afterwards. Empty text yields no chunks and no error.
//
// Segments tile the text exactly except for the fixed-size strategy's
// overlap regions, so concatenating the non-overlap regions reconstructs
// the input.
func (c *Chunker) Chunk(documentID core.ID, text string) ([]core.Chunk, error) {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	var segments []segment
	switch c.config.Strategy {
	case StrategyFixedSize:
		segments = c.fixedSegments(len(runes))
	case StrategySemantic:
		segments = c.semanticSegments(runes)
	case StrategyRecursive:
		segments = c.recursiveSegments(runes)
	default:
		return nil, fmt.Errorf("%w: strategy value %d", ErrUnknownStrategy, c.config.Strategy)
	}

	now := time.Now().UTC()
	chunks := make([]core.Chunk, 0, len(segments))
	for seq, seg := range segments {
		chunkText := string(runes[seg.Start:seg.End])
		chunks = append(chunks, core.Chunk{
			Id:               chunkID(documentID, seq, chunkText),
			DocumentID:       documentID,
			Seq:              seq,
			Text:             chunkText,
			TokenEstimate:    c.estimate(chunkText),
			StartOffset:      seg.Start,
			EndOffset:        seg.End,
			OverlapsPrevious: c.config.Strategy == StrategyFixedSize && seq > 0 && c.config.Overlap > 0,
			InsertedAt:       now,
		})
	}

	c.logger.Debug("document chunked",
		"document", documentID,
		"strategy", c.config.Strategy.String(),
		"chunks", len(chunks))
	return chunks, nil
}

// chunkID derives a stable chunk identifier from the parent document, the
// sequence index and the chunk text. Re-chunking identical input yields
// identical IDs, which is what makes re-indexing idempotent.
func chunkID(documentID core.ID, seq int, text string) core.ID {
	return core.IDFromContent(fmt.Sprintf("%d:%d:%s", documentID, seq, text))
}
