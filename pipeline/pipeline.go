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

package pipeline

import (
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/kbforge/chunker"
	"github.com/poiesic/kbforge/embed"
	"github.com/poiesic/kbforge/index"
	"github.com/poiesic/kbforge/optimize"
	"github.com/poiesic/kbforge/policy"
	"github.com/poiesic/kbforge/quality"
	"github.com/poiesic/kbforge/storage"
)

// Pipeline runs documents through the full processing sequence and
// persists the intermediate artifacts. It manages a worker pool for the
// per-chunk and per-document stages.
type Pipeline struct {
	optimizer *optimize.HybridOptimizer
	chunker   *chunker.Chunker
	scorer    *quality.Scorer
	embedder  *embed.Embedder
	indexer   *index.Indexer
	evaluator *policy.Evaluator

	chunkRepo   storage.ChunkRepository
	metricsRepo storage.MetricsRepository

	payload index.Payload
	pool    *ants.Pool
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithPayload sets the base vector-store payload applied to every indexed
// chunk. Per-document fields (product, version, source file, trust score)
// are filled in by the run itself.
func WithPayload(payload index.Payload) Option {
	return func(p *Pipeline) error {
		p.payload = payload
		return nil
	}
}

// NewPipeline creates a processing pipeline over the given stage
// components and repositories.
func NewPipeline(
	optimizer *optimize.HybridOptimizer,
	chunkr *chunker.Chunker,
	scorer *quality.Scorer,
	embedder *embed.Embedder,
	indexer *index.Indexer,
	evaluator *policy.Evaluator,
	chunkRepo storage.ChunkRepository,
	metricsRepo storage.MetricsRepository,
	opts ...Option,
) (*Pipeline, error) {
	if optimizer == nil {
		return nil, ErrOptimizerRequired
	}
	if chunkr == nil {
		return nil, ErrChunkerRequired
	}
	if scorer == nil {
		return nil, ErrScorerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if indexer == nil {
		return nil, ErrIndexerRequired
	}
	if evaluator == nil {
		return nil, ErrEvaluatorRequired
	}
	if chunkRepo == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if metricsRepo == nil {
		return nil, ErrMetricsRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		optimizer:   optimizer,
		chunker:     chunkr,
		scorer:      scorer,
		embedder:    embedder,
		indexer:     indexer,
		evaluator:   evaluator,
		chunkRepo:   chunkRepo,
		metricsRepo: metricsRepo,
		pool:        pool,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// submit hands a task to the worker pool, running it inline if the pool
// is unavailable so no unit of work is silently dropped.
func (p *Pipeline) submit(task func()) {
	if err := p.pool.Submit(task); err != nil {
		task()
	}
}
