package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/philippgille/chromem-go"
	"github.com/poiesic/kbforge/ai/mock"
	"github.com/poiesic/kbforge/chunker"
	"github.com/poiesic/kbforge/core"
	"github.com/poiesic/kbforge/embed"
	"github.com/poiesic/kbforge/index"
	"github.com/poiesic/kbforge/optimize"
	"github.com/poiesic/kbforge/policy"
	"github.com/poiesic/kbforge/quality"
	"github.com/poiesic/kbforge/storage"
	badgerstore "github.com/poiesic/kbforge/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	pipeline    *Pipeline
	embedder    *mock.MockEmbedder
	indexer     *index.Indexer
	chunkRepo   storage.ChunkRepository
	metricsRepo storage.MetricsRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	optimizer, err := optimize.NewHybridOptimizer(optimize.DefaultConfig(), mock.NewMockEnhancer())
	require.NoError(t, err)

	chunkr, err := chunker.New(chunker.DefaultConfig())
	require.NoError(t, err)

	mockEmbedder := mock.NewMockEmbedder()
	embedder, err := embed.New(mockEmbedder, "all-minilm")
	require.NoError(t, err)

	indexer, err := index.NewIndexer(chromem.NewDB(), "kb_test")
	require.NoError(t, err)

	evaluator, err := policy.NewEvaluator(nil)
	require.NoError(t, err)

	chunkRepo, metricsRepo, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	p, err := NewPipeline(optimizer, chunkr, quality.NewScorer(), embedder,
		indexer, evaluator, chunkRepo, metricsRepo,
		WithPayload(index.Payload{CollectionID: "kb_test", IndexScope: index.ScopeInternal}))
	require.NoError(t, err)
	t.Cleanup(p.Release)

	return &testEnv{
		pipeline:    p,
		embedder:    mockEmbedder,
		indexer:     indexer,
		chunkRepo:   chunkRepo,
		metricsRepo: metricsRepo,
	}
}

func testDocument(id uint64, path, text string) core.RawDocument {
	return core.RawDocument{
		Id:         core.ID(id),
		SourcePath: path,
		Text:       text,
	}
}

const docText = `Date: 2024-03-15
Author: Jane Smith

The deployment guide covers the standard installation path. Every release
ships with a signed manifest that the installer verifies before copying
any files to the target host.

Configuration lives in a single file that the operator edits before the
first start. All later changes are picked up on reload without downtime.`

func TestRunProcessesDocuments(t *testing.T) {
	env := newTestEnv(t)

	docs := []core.RawDocument{
		testDocument(1, "guides/deploy.md", docText),
		testDocument(2, "guides/upgrade.md", "Upgrades run in place. The previous release stays on disk until the health check passes."),
	}

	report, err := env.pipeline.Run(context.Background(), "prod-a", "1.0.0", docs)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, core.StageSuccess, report.Status)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))

	require.Len(t, report.Stages, 5)
	for _, stage := range report.Stages {
		assert.Equal(t, core.StageSuccess, stage.Status, "stage %s", stage.Stage)
	}

	require.Len(t, report.Documents, 2)
	totalChunks := 0
	for _, outcome := range report.Documents {
		assert.False(t, outcome.Failed)
		assert.Empty(t, outcome.Error)
		assert.Greater(t, outcome.Chunks, 0)
		totalChunks += outcome.Chunks
	}

	// Run-level metrics carry all five dimensions and were persisted.
	require.NotNil(t, report.Metrics)
	for _, dim := range []string{core.DimensionQuality, core.DimensionCompleteness,
		core.DimensionSecurity, core.DimensionMetadataPresence, core.DimensionKBReady} {
		_, ok := report.Metrics.Dimensions[dim]
		assert.True(t, ok, "missing dimension %s", dim)
	}
	stored, err := env.metricsRepo.GetMetrics(context.Background(), "prod-a", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, report.Metrics.TrustScore, stored.TrustScore)

	// Chunks were persisted in order and vectors were indexed.
	persisted, err := env.chunkRepo.GetDocumentChunks(context.Background(), core.ID(1))
	require.NoError(t, err)
	assert.Equal(t, report.Documents[0].Chunks, len(persisted))
	assert.Equal(t, totalChunks, env.indexer.Count())

	require.NotNil(t, report.Policy)
}

func TestRunMetadataFromDocumentText(t *testing.T) {
	env := newTestEnv(t)

	report, err := env.pipeline.Run(context.Background(), "prod-a", "1.0.0",
		[]core.RawDocument{testDocument(1, "guides/deploy.md", docText)})
	require.NoError(t, err)

	// Date and author are detected, so metadata presence clears zero.
	require.NotNil(t, report.Metrics)
	assert.Greater(t, report.Metrics.Dimension(core.DimensionMetadataPresence), 0.0)
}

func TestRunIsolatesDocumentFailures(t *testing.T) {
	env := newTestEnv(t)

	env.embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		for _, text := range texts {
			if strings.Contains(text, "poisoned") {
				return nil, errors.New("invalid request payload")
			}
		}
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = make([]float32, 384)
		}
		return vectors, nil
	}

	docs := []core.RawDocument{
		testDocument(1, "ok.md", "The first document survives the run without trouble."),
		testDocument(2, "bad.md", "This poisoned document makes the embedding call fail."),
	}

	report, err := env.pipeline.Run(context.Background(), "prod-a", "1.0.0", docs)
	require.NoError(t, err)

	assert.Equal(t, core.StagePartial, report.Status)

	require.Len(t, report.Documents, 2)
	assert.False(t, report.Documents[0].Failed)
	assert.True(t, report.Documents[1].Failed)
	assert.Contains(t, report.Documents[1].Error, "invalid request")

	var embedStage *core.StageReport
	for i := range report.Stages {
		if report.Stages[i].Stage == "embed_index" {
			embedStage = &report.Stages[i]
		}
	}
	require.NotNil(t, embedStage)
	assert.Equal(t, core.StagePartial, embedStage.Status)
	assert.Equal(t, 1.0, embedStage.Metrics["failures"])

	// The surviving document is still indexed.
	assert.Equal(t, report.Documents[0].Chunks, env.indexer.Count())
}

func TestRunReindexIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	docs := []core.RawDocument{testDocument(1, "guides/deploy.md", docText)}

	first, err := env.pipeline.Run(context.Background(), "prod-a", "1.0.0", docs)
	require.NoError(t, err)
	countAfterFirst := env.indexer.Count()

	second, err := env.pipeline.Run(context.Background(), "prod-a", "1.0.0", docs)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, countAfterFirst, env.indexer.Count())
}

func TestRunNewVersionAddsPoints(t *testing.T) {
	env := newTestEnv(t)
	docs := []core.RawDocument{testDocument(1, "guides/deploy.md", docText)}

	_, err := env.pipeline.Run(context.Background(), "prod-a", "1.0.0", docs)
	require.NoError(t, err)
	countV1 := env.indexer.Count()

	_, err = env.pipeline.Run(context.Background(), "prod-a", "1.1.0", docs)
	require.NoError(t, err)

	assert.Equal(t, 2*countV1, env.indexer.Count())
}

func TestRunCancelledContext(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := env.pipeline.Run(ctx, "prod-a", "1.0.0",
		[]core.RawDocument{testDocument(1, "doc.md", "Some text.")})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Stages)
}

func TestRunValidatesArguments(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.pipeline.Run(context.Background(), "", "1.0.0", nil)
	assert.ErrorIs(t, err, ErrProductRequired)

	_, err = env.pipeline.Run(context.Background(), "prod-a", "", nil)
	assert.ErrorIs(t, err, ErrVersionRequired)
}

func TestNewPipelineValidatesComponents(t *testing.T) {
	env := newTestEnv(t)
	p := env.pipeline

	_, err := NewPipeline(nil, p.chunker, p.scorer, p.embedder, p.indexer,
		p.evaluator, p.chunkRepo, p.metricsRepo)
	assert.ErrorIs(t, err, ErrOptimizerRequired)

	_, err = NewPipeline(p.optimizer, nil, p.scorer, p.embedder, p.indexer,
		p.evaluator, p.chunkRepo, p.metricsRepo)
	assert.ErrorIs(t, err, ErrChunkerRequired)

	_, err = NewPipeline(p.optimizer, p.chunker, p.scorer, p.embedder, p.indexer,
		p.evaluator, nil, p.metricsRepo)
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)
}

func TestMergeMetadataPrefersSupplied(t *testing.T) {
	supplied := core.DocumentMetadata{Author: "Given Author"}
	detected := core.DocumentMetadata{Author: "Detected Author", Date: "2024-03-15"}

	merged := mergeMetadata(supplied, detected)
	assert.Equal(t, "Given Author", merged.Author)
	assert.Equal(t, "2024-03-15", merged.Date)
}

func TestMergeTagsDeduplicates(t *testing.T) {
	merged := mergeTags([]string{"a", "b"}, []string{"b", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, merged)
}
