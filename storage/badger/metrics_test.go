package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/kbforge/core"
	"github.com/poiesic/kbforge/storage"
)

func testMetrics(product, version string, trust float64) *core.QualityMetrics {
	return &core.QualityMetrics{
		ProductID:  product,
		Version:    version,
		TrustScore: trust,
		Dimensions: map[string]float64{
			core.DimensionQuality:  trust,
			core.DimensionSecurity: 100,
		},
	}
}

func TestPutAndGetMetrics(t *testing.T) {
	_, repo := setupRepos(t)
	ctx := context.Background()

	metrics := testMetrics("prod-1", "1", 72.5)
	require.NoError(t, repo.PutMetrics(ctx, metrics))
	assert.False(t, metrics.ComputedAt.IsZero(), "ComputedAt set on put")

	got, err := repo.GetMetrics(ctx, "prod-1", "1")
	require.NoError(t, err)
	assert.Equal(t, 72.5, got.TrustScore)
	assert.Equal(t, metrics.Dimensions, got.Dimensions)
}

func TestGetMetricsNotFound(t *testing.T) {
	_, repo := setupRepos(t)

	_, err := repo.GetMetrics(context.Background(), "prod-1", "99")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPutMetricsNewVersionSupersedes(t *testing.T) {
	_, repo := setupRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.PutMetrics(ctx, testMetrics("prod-1", "1", 60)))
	require.NoError(t, repo.PutMetrics(ctx, testMetrics("prod-1", "2", 85)))

	// The old version stays readable; the new one doesn't replace it.
	v1, err := repo.GetMetrics(ctx, "prod-1", "1")
	require.NoError(t, err)
	assert.Equal(t, 60.0, v1.TrustScore)

	v2, err := repo.GetMetrics(ctx, "prod-1", "2")
	require.NoError(t, err)
	assert.Equal(t, 85.0, v2.TrustScore)
}

func TestPutMetricsRerunOverwrites(t *testing.T) {
	_, repo := setupRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.PutMetrics(ctx, testMetrics("prod-1", "1", 60)))
	require.NoError(t, repo.PutMetrics(ctx, testMetrics("prod-1", "1", 75)))

	got, err := repo.GetMetrics(ctx, "prod-1", "1")
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.TrustScore)
}
