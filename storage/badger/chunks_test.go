package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/kbforge/core"
	"github.com/poiesic/kbforge/storage"
)

func setupRepos(t *testing.T) (storage.ChunkRepository, storage.MetricsRepository) {
	t.Helper()
	chunkRepo, metricsRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chunkRepo.Close()
		metricsRepo.Close()
		backend.Close()
	})
	return chunkRepo, metricsRepo
}

func makeChunk(docID core.ID, seq int, text string) *core.Chunk {
	return &core.Chunk{
		Id:         core.IDFromContent(text),
		DocumentID: docID,
		Seq:        seq,
		Text:       text,
		Method:     core.MethodPattern,
	}
}

func TestPutAndGetChunk(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()

	chunk := makeChunk(core.ID(1), 0, "first chunk text")
	require.NoError(t, repo.PutChunks(ctx, chunk))
	assert.False(t, chunk.InsertedAt.IsZero(), "InsertedAt set on put")

	got, err := repo.GetChunk(ctx, chunk.Id)
	require.NoError(t, err)
	assert.Equal(t, chunk.Id, got.Id)
	assert.Equal(t, chunk.Text, got.Text)
	assert.Equal(t, chunk.Seq, got.Seq)
}

func TestGetChunkNotFound(t *testing.T) {
	repo, _ := setupRepos(t)

	_, err := repo.GetChunk(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetDocumentChunksOrdered(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()
	docID := core.ID(9)

	// Insert out of order; reads must come back in sequence order.
	require.NoError(t, repo.PutChunks(ctx,
		makeChunk(docID, 2, "third"),
		makeChunk(docID, 0, "first"),
		makeChunk(docID, 1, "second"),
	))

	chunks, err := repo.GetDocumentChunks(ctx, docID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Seq)
	}
}

func TestGetDocumentChunksIsolatedByDocument(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.PutChunks(ctx,
		makeChunk(core.ID(1), 0, "doc one chunk"),
		makeChunk(core.ID(2), 0, "doc two chunk"),
	))

	chunks, err := repo.GetDocumentChunks(ctx, core.ID(1))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "doc one chunk", chunks[0].Text)
}

func TestPutChunksOverwrites(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()
	docID := core.ID(3)

	chunk := makeChunk(docID, 0, "original text")
	require.NoError(t, repo.PutChunks(ctx, chunk))

	updated := makeChunk(docID, 0, "optimized text")
	require.NoError(t, repo.PutChunks(ctx, updated))

	chunks, err := repo.GetDocumentChunks(ctx, docID)
	require.NoError(t, err)
	require.Len(t, chunks, 1, "same (document, seq) overwrites")
	assert.Equal(t, "optimized text", chunks[0].Text)
}

func TestDeleteDocumentChunks(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()
	docID := core.ID(5)

	first := makeChunk(docID, 0, "to be removed")
	require.NoError(t, repo.PutChunks(ctx, first, makeChunk(docID, 1, "also removed")))
	require.NoError(t, repo.DeleteDocumentChunks(ctx, docID))

	chunks, err := repo.GetDocumentChunks(ctx, docID)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	_, err = repo.GetChunk(ctx, first.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound, "ID index cleaned up")
}

func TestDeleteDocumentChunksEmpty(t *testing.T) {
	repo, _ := setupRepos(t)
	assert.NoError(t, repo.DeleteDocumentChunks(context.Background(), core.ID(404)))
}
