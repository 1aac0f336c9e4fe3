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

import "errors"

var (
	// ErrOptimizerRequired is returned when no optimizer is provided.
	ErrOptimizerRequired = errors.New("optimizer is required")

	// ErrChunkerRequired is returned when no chunker is provided.
	ErrChunkerRequired = errors.New("chunker is required")

	// ErrScorerRequired is returned when no scorer is provided.
	ErrScorerRequired = errors.New("scorer is required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrIndexerRequired is returned when no indexer is provided.
	ErrIndexerRequired = errors.New("indexer is required")

	// ErrEvaluatorRequired is returned when no policy evaluator is provided.
	ErrEvaluatorRequired = errors.New("policy evaluator is required")

	// ErrChunkRepositoryRequired is returned when no chunk repository is
	// provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository is required")

	// ErrMetricsRepositoryRequired is returned when no metrics repository is
	// provided.
	ErrMetricsRepositoryRequired = errors.New("metrics repository is required")

	// ErrProductRequired is returned when Run is called without a product ID.
	ErrProductRequired = errors.New("product id is required")

	// ErrVersionRequired is returned when Run is called without a version.
	ErrVersionRequired = errors.New("version is required")
)
