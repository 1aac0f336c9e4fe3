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


// Package kbforge turns raw product documents into an optimized, scored
// and embedded knowledgebase. Forge is the embedding-friendly entry point;
// it owns the artifact store, the vector store and the AI provider, and
// hands out configured pipelines.
package kbforge

import (
	"log/slog"

	"github.com/philippgille/chromem-go"
	"github.com/poiesic/kbforge/ai"
	"github.com/poiesic/kbforge/ai/openai"
	"github.com/poiesic/kbforge/chunker"
	"github.com/poiesic/kbforge/embed"
	"github.com/poiesic/kbforge/index"
	"github.com/poiesic/kbforge/optimize"
	"github.com/poiesic/kbforge/pipeline"
	"github.com/poiesic/kbforge/policy"
	"github.com/poiesic/kbforge/quality"
	"github.com/poiesic/kbforge/storage"
	"github.com/poiesic/kbforge/storage/badger"
)

type Forge struct {
	backend     *badger.Backend
	chunkRepo   storage.ChunkRepository
	metricsRepo storage.MetricsRepository
	provider    ai.Provider
	aiConfig    *ai.Config
	vectorDB    *chromem.DB
	logger      *slog.Logger
}

// ForgeOption configures a Forge.
type ForgeOption func(*forgeOptions)

type forgeOptions struct {
	aiConfig   *ai.Config
	vectorPath string
}

// WithAIConfig overrides the default AI provider configuration.
func WithAIConfig(config *ai.Config) ForgeOption {
	return func(o *forgeOptions) {
		o.aiConfig = config
	}
}

// WithVectorPath stores vectors on disk at the given directory instead of
// in memory.
func WithVectorPath(path string) ForgeOption {
	return func(o *forgeOptions) {
		o.vectorPath = path
	}
}

func NewForge(filePath string, opts ...ForgeOption) (*Forge, error) {
	// Apply options
	options := &forgeOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create chunk repository
	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create metrics repository
	metricsRepo, err := badger.NewMetricsRepository(backend)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		metricsRepo.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	// Open vector storage
	var vectorDB *chromem.DB
	if options.vectorPath != "" {
		vectorDB, err = chromem.NewPersistentDB(options.vectorPath, false)
		if err != nil {
			provider.Close()
			metricsRepo.Close()
			chunkRepo.Close()
			backend.Close()
			return nil, err
		}
	} else {
		vectorDB = chromem.NewDB()
	}

	return &Forge{
		backend:     backend,
		chunkRepo:   chunkRepo,
		metricsRepo: metricsRepo,
		provider:    provider,
		aiConfig:    options.aiConfig,
		vectorDB:    vectorDB,
		logger:      slog.Default(),
	}, nil
}

func (f *Forge) Close() error {
	// Close AI provider first
	if err := f.provider.Close(); err != nil {
		f.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := f.metricsRepo.Close(); err != nil {
		f.logger.Error("error closing metrics repository", "err", err)
		return err
	}
	if err := f.chunkRepo.Close(); err != nil {
		f.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	// Close backend
	if err := f.backend.Close(); err != nil {
		f.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (f *Forge) ChunkRepository() storage.ChunkRepository {
	return f.chunkRepo
}

func (f *Forge) MetricsRepository() storage.MetricsRepository {
	return f.metricsRepo
}

// NewPipeline assembles a processing pipeline over this forge's stores and
// provider. Policy thresholds come from the environment.
func (f *Forge) NewPipeline(optimizeConfig *optimize.Config, chunkingConfig *chunker.Config,
	collection string, opts ...pipeline.Option) (*pipeline.Pipeline, error) {

	optimizer, err := optimize.NewHybridOptimizer(optimizeConfig, f.provider.Enhancer())
	if err != nil {
		return nil, err
	}

	chunkr, err := chunker.New(chunkingConfig)
	if err != nil {
		return nil, err
	}

	embedder, err := embed.New(f.provider.Embedder(), f.aiConfig.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	indexer, err := index.NewIndexer(f.vectorDB, collection)
	if err != nil {
		return nil, err
	}

	thresholds, err := policy.LoadThresholds()
	if err != nil {
		return nil, err
	}
	evaluator, err := policy.NewEvaluator(thresholds)
	if err != nil {
		return nil, err
	}

	opts = append([]pipeline.Option{
		pipeline.WithPayload(index.Payload{
			CollectionID: collection,
			IndexScope:   index.ScopeInternal,
		}),
	}, opts...)

	return pipeline.NewPipeline(optimizer, chunkr, quality.NewScorer(),
		embedder, indexer, evaluator, f.chunkRepo, f.metricsRepo, opts...)
}

// NewEvaluator builds a policy evaluator from the environment thresholds,
// for scoring stored metrics outside a full run.
func (f *Forge) NewEvaluator() (*policy.Evaluator, error) {
	thresholds, err := policy.LoadThresholds()
	if err != nil {
		return nil, err
	}
	return policy.NewEvaluator(thresholds)
}
