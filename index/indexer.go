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


package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/philippgille/chromem-go"

	"github.com/poiesic/kbforge/core"
)

var (
	// ErrVectorMismatch indicates the chunk list and vector list do not line
	// up one to one.
	ErrVectorMismatch = errors.New("chunks and vectors do not match")

	// ErrEmptyCollection indicates a missing collection name.
	ErrEmptyCollection = errors.New("collection name is required")
)

// IndexResult reports the outcome of one upsert call.
type IndexResult struct {
	Collection string
	Upserted   int
}

// Indexer writes chunk vectors and payloads into a chromem collection.
type Indexer struct {
	collection *chromem.Collection
	name       string
	logger     *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
	}
}

// NewIndexer creates an indexer bound to one collection, creating the
// collection if it does not exist. Embeddings always arrive precomputed, so
// no embedding function is registered with the store.
func NewIndexer(db *chromem.DB, collection string, opts ...Option) (*Indexer, error) {
	if collection == "" {
		return nil, ErrEmptyCollection
	}

	coll, err := db.GetOrCreateCollection(collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %q: %w", collection, err)
	}

	ix := &Indexer{
		collection: coll,
		name:       collection,
		logger:     slog.Default().With("component", "indexer"),
	}

	for _, opt := range opts {
		opt(ix)
	}

	return ix, nil
}

// Upsert writes one point per chunk. Points are keyed by (chunk id,
// version): re-indexing the same chunk and version overwrites the existing
// point instead of duplicating it. Chunks and vectors must line up one to
// one in chunk order.
func (ix *Indexer) Upsert(ctx context.Context, chunks []core.Chunk, vectors []core.EmbeddingVector, payload Payload) (*IndexResult, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("%w: %d chunks, %d vectors", ErrVectorMismatch, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return &IndexResult{Collection: ix.name}, nil
	}

	now := time.Now().UTC()
	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		if vectors[i].ChunkID != chunk.Id {
			return nil, fmt.Errorf("%w: vector %d belongs to chunk %d, not %d",
				ErrVectorMismatch, i, vectors[i].ChunkID, chunk.Id)
		}
		docs[i] = chromem.Document{
			ID:        PointID(chunk.Id, payload.Version),
			Content:   chunk.Text,
			Embedding: vectors[i].Values,
			Metadata:  payload.metadata(chunk, now),
		}
	}

	if err := ix.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("failed to upsert %d points: %w", len(docs), err)
	}

	ix.logger.Debug("points upserted",
		"collection", ix.name,
		"points", len(docs),
		"version", payload.Version)
	return &IndexResult{Collection: ix.name, Upserted: len(docs)}, nil
}

// Count returns the number of points in the collection.
func (ix *Indexer) Count() int {
	return ix.collection.Count()
}

// PointID derives the vector-store point identifier for a chunk at a given
// version. The (chunk id, version) key is what makes upserts idempotent.
func PointID(chunkID core.ID, version string) string {
	return fmt.Sprintf("%d:%s", chunkID, version)
}
