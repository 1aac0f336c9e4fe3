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


package embed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/kbforge/ai"
	"github.com/poiesic/kbforge/core"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// Embedder converts chunks to embedding vectors for one model, batching
// requests adaptively by the model's dimension.
type Embedder struct {
	client      ai.Embedder
	model       string
	dimension   int
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Embedder) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// WithRetry overrides the retry budget for transient provider errors.
// Defaults are 3 attempts starting at one second.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(e *Embedder) {
		if maxAttempts > 0 {
			e.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			e.baseDelay = baseDelay
		}
	}
}

// New creates an Embedder for a registered model. The model's dimension
// decides the batch size; an unregistered model is rejected up front.
func New(client ai.Embedder, model string, opts ...Option) (*Embedder, error) {
	dimension, err := ModelDimension(model)
	if err != nil {
		return nil, err
	}

	e := &Embedder{
		client:      client,
		model:       model,
		dimension:   dimension,
		batchSize:   BatchSizeFor(dimension),
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default().With("component", "embedder"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Model returns the model name this embedder is bound to.
func (e *Embedder) Model() string {
	return e.model
}

// Dimension returns the registered dimension of the bound model.
func (e *Embedder) Dimension() int {
	return e.dimension
}

// BatchSize returns the adaptive batch size in use.
func (e *Embedder) BatchSize() int {
	return e.batchSize
}

// EmbedChunks embeds every chunk and returns one vector per chunk, in chunk
// order. Any batch failure aborts the whole document: there is no safe
// degraded output for embeddings, so partial results are never returned.
func (e *Embedder) EmbedChunks(ctx context.Context, chunks []core.Chunk) ([]core.EmbeddingVector, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	vectors := make([]core.EmbeddingVector, 0, len(chunks))
	for start := 0; start < len(chunks); start += e.batchSize {
		end := start + e.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		batch, err := e.embedBatch(ctx, chunks[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch starting at chunk %d: %w", chunks[start].Seq, err)
		}
		vectors = append(vectors, batch...)
	}

	e.logger.Debug("chunks embedded",
		"model", e.model,
		"chunks", len(chunks),
		"batchSize", e.batchSize)
	return vectors, nil
}

func (e *Embedder) embedBatch(ctx context.Context, chunks []core.Chunk) ([]core.EmbeddingVector, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	started := time.Now()
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = e.client.EmbedTexts(ctx, texts)
		return err
	}, e.maxAttempts, e.baseDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", e.maxAttempts, err)
	}
	elapsed := time.Since(started)

	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrCountMismatch, len(chunks), len(embeddings))
	}

	vectors := make([]core.EmbeddingVector, len(chunks))
	for i, chunk := range chunks {
		if len(embeddings[i]) != e.dimension {
			return nil, fmt.Errorf("%w: model %s expects %d, got %d for chunk %d",
				ErrDimensionMismatch, e.model, e.dimension, len(embeddings[i]), chunk.Seq)
		}
		vectors[i] = core.EmbeddingVector{
			ChunkID:   chunk.Id,
			Model:     e.model,
			Dimension: e.dimension,
			Values:    embeddings[i],
			Duration:  elapsed,
		}
	}
	return vectors, nil
}
