package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Enhancer rewrites text through an external completion service to improve
// its quality for retrieval. Implementations must be thread-safe for
// concurrent use.
//
// Enhance operates on a single chunk of text, never on a whole document:
// provider input limits make whole-document calls fail on large inputs, so
// callers gate enhancement behind chunking.
type Enhancer interface {
	// Enhance rewrites the text and reports what the call cost.
	// Returns an error if the provider call fails; callers are expected to
	// fall back to the unenhanced text.
	Enhance(ctx context.Context, text string) (*EnhanceResult, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and Enhancer instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Enhancer returns the text enhancement service.
	// The returned Enhancer is safe for concurrent use.
	Enhancer() Enhancer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
