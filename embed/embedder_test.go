package embed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/kbforge/ai/mock"
	"github.com/poiesic/kbforge/core"
)

func makeChunks(n int) []core.Chunk {
	chunks := make([]core.Chunk, n)
	for i := range chunks {
		chunks[i] = core.Chunk{Id: core.ID(i + 1), Seq: i, Text: "chunk text"}
	}
	return chunks
}

func TestModelDimension(t *testing.T) {
	dim, err := ModelDimension("embeddinggemma")
	require.NoError(t, err)
	assert.Equal(t, 768, dim)

	_, err = ModelDimension("made-up-model")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestBatchSizeFor(t *testing.T) {
	assert.Equal(t, 3, BatchSizeFor(3072))
	assert.Equal(t, 3, BatchSizeFor(1536))
	assert.Equal(t, 3, BatchSizeFor(1024))
	assert.Equal(t, 10, BatchSizeFor(1023))
	assert.Equal(t, 10, BatchSizeFor(768))
	assert.Equal(t, 32, BatchSizeFor(767))
	assert.Equal(t, 32, BatchSizeFor(384))
}

func TestNewRejectsUnknownModel(t *testing.T) {
	_, err := New(mock.NewMockEmbedder(), "made-up-model")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestEmbedChunksBatching(t *testing.T) {
	tests := []struct {
		model     string
		dimension int
		chunks    int
		batches   int
	}{
		{"mxbai-embed-large", 1024, 7, 3}, // batch size 3
		{"embeddinggemma", 768, 25, 3},    // batch size 10
		{"all-minilm", 384, 40, 2},        // batch size 32
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			client := mock.NewMockEmbedderWithDimension(tt.dimension)

			var batchSizes []int
			client.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
				batchSizes = append(batchSizes, len(texts))
				out := make([][]float32, len(texts))
				for i := range out {
					out[i] = make([]float32, tt.dimension)
				}
				return out, nil
			}

			e, err := New(client, tt.model, WithRetry(1, time.Millisecond))
			require.NoError(t, err)
			assert.Equal(t, BatchSizeFor(tt.dimension), e.BatchSize())

			vectors, err := e.EmbedChunks(context.Background(), makeChunks(tt.chunks))
			require.NoError(t, err)
			require.Len(t, vectors, tt.chunks)
			assert.Len(t, batchSizes, tt.batches)
			for _, size := range batchSizes {
				assert.LessOrEqual(t, size, e.BatchSize())
			}
		})
	}
}

func TestEmbedChunksVectorInvariants(t *testing.T) {
	client := mock.NewMockEmbedderWithDimension(768)
	e, err := New(client, "embeddinggemma", WithRetry(1, time.Millisecond))
	require.NoError(t, err)

	chunks := makeChunks(12)
	vectors, err := e.EmbedChunks(context.Background(), chunks)
	require.NoError(t, err)
	require.Len(t, vectors, len(chunks))

	for i, vec := range vectors {
		assert.Equal(t, chunks[i].Id, vec.ChunkID, "vectors keep chunk order")
		assert.Equal(t, "embeddinggemma", vec.Model)
		assert.Equal(t, 768, vec.Dimension)
		assert.Len(t, vec.Values, 768)
	}
}

func TestEmbedChunksDimensionMismatch(t *testing.T) {
	client := mock.NewMockEmbedderWithDimension(384) // wrong for embeddinggemma
	e, err := New(client, "embeddinggemma", WithRetry(1, time.Millisecond))
	require.NoError(t, err)

	vectors, err := e.EmbedChunks(context.Background(), makeChunks(4))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Nil(t, vectors, "no partial vectors on mismatch")
}

func TestEmbedChunksCountMismatch(t *testing.T) {
	client := mock.NewMockEmbedder()
	client.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{make([]float32, 384)}, nil // always one vector
	}

	e, err := New(client, "all-minilm", WithRetry(1, time.Millisecond))
	require.NoError(t, err)

	_, err = e.EmbedChunks(context.Background(), makeChunks(3))
	assert.ErrorIs(t, err, ErrCountMismatch)
}

func TestEmbedChunksRetriesTransient(t *testing.T) {
	client := mock.NewMockEmbedder()
	calls := 0
	client.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("429 too many requests")
		}
		out := make([][]float32, len(texts))
		for i := range out {
			out[i] = make([]float32, 384)
		}
		return out, nil
	}

	e, err := New(client, "all-minilm", WithRetry(3, time.Millisecond))
	require.NoError(t, err)

	vectors, err := e.EmbedChunks(context.Background(), makeChunks(2))
	require.NoError(t, err)
	assert.Len(t, vectors, 2)
	assert.Equal(t, 3, calls)
}

func TestEmbedChunksNoRetryOnNonTransient(t *testing.T) {
	client := mock.NewMockEmbedder()
	calls := 0
	client.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		return nil, errors.New("invalid api key")
	}

	e, err := New(client, "all-minilm", WithRetry(5, time.Millisecond))
	require.NoError(t, err)

	_, err = e.EmbedChunks(context.Background(), makeChunks(2))
	require.Error(t, err)
	assert.Equal(t, 1, calls, "non-transient errors are not retried")
}

func TestEmbedChunksEmptyInput(t *testing.T) {
	e, err := New(mock.NewMockEmbedder(), "all-minilm")
	require.NoError(t, err)

	vectors, err := e.EmbedChunks(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestIsTransient(t *testing.T) {
	transient := []error{
		errors.New("rate limit exceeded"),
		errors.New("429 Too Many Requests"),
		errors.New("request timed out"),
		errors.New("503 Service Unavailable"),
		errors.New("connection refused"),
		context.DeadlineExceeded,
	}
	for _, err := range transient {
		assert.True(t, IsTransient(err), err.Error())
	}

	permanent := []error{
		nil,
		errors.New("invalid api key"),
		errors.New("model not found"),
		errors.New("401 unauthorized"),
	}
	for _, err := range permanent {
		assert.False(t, IsTransient(err))
	}
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("invalid attempts", func(t *testing.T) {
		err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("exhausted attempts return last error", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return errors.New("timeout")
		}, 3, time.Millisecond)
		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := RetryWithBackoff(ctx, func() error { return errors.New("timeout") }, 3, time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
