package embed

import "fmt"

// modelDimensions is the static (model name -> dimension) registry.
// Read-only at run time; adding a model is a code change, which keeps the
// dimension invariant checkable without a provider round trip.
var modelDimensions = map[string]int{
	"all-minilm":             384,
	"embeddinggemma":         768,
	"nomic-embed-text":       768,
	"mxbai-embed-large":      1024,
	"text-embedding-ada-002": 1536,
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
}

// ModelDimension returns the registered dimension for a model name.
func ModelDimension(model string) (int, error) {
	dim, ok := modelDimensions[model]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return dim, nil
}

// BatchSizeFor returns the adaptive batch size for a model dimension.
// Higher-dimensional models get smaller batches to bound memory and
// request size.
func BatchSizeFor(dimension int) int {
	switch {
	case dimension >= 1024:
		return 3
	case dimension >= 768:
		return 10
	default:
		return 32
	}
}
