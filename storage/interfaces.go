package storage

import (
	"context"

	"github.com/poiesic/kbforge/core"
)

// Repository provides common storage operations shared across all
// repositories. Implementations must be thread-safe and support concurrent
// access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository persists the chunk sets handed between pipeline stages.
type ChunkRepository interface {
	Repository

	// PutChunks stores or replaces chunks. Chunk IDs are content-derived and
	// set by the chunker; storing the same chunk twice overwrites it.
	// Sets InsertedAt if not already set.
	PutChunks(ctx context.Context, chunks ...*core.Chunk) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetDocumentChunks retrieves all chunks of a document in sequence
	// order. Returns an empty slice when the document has no chunks.
	GetDocumentChunks(ctx context.Context, documentID core.ID) ([]*core.Chunk, error)

	// DeleteDocumentChunks removes all chunks of a document.
	// Deleting a document with no chunks is not an error.
	DeleteDocumentChunks(ctx context.Context, documentID core.ID) error
}

// MetricsRepository persists the quality metrics history.
// Metrics are append-only per (product, version): a new pipeline run writes
// a new record that supersedes the old one, never mutates it.
type MetricsRepository interface {
	Repository

	// PutMetrics stores the metrics for (ProductID, Version), overwriting
	// any previous record for that pair.
	PutMetrics(ctx context.Context, metrics *core.QualityMetrics) error

	// GetMetrics retrieves the metrics for a (product, version) pair.
	// Returns ErrNotFound if no metrics were recorded.
	GetMetrics(ctx context.Context, productID, version string) (*core.QualityMetrics, error)
}
