package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/kbforge/core"
	"github.com/poiesic/kbforge/storage"
)

// MetricsRepository implements storage.MetricsRepository for BadgerDB.
type MetricsRepository struct {
	backend *Backend
}

var _ storage.MetricsRepository = (*MetricsRepository)(nil)

// NewMetricsRepository creates a new MetricsRepository.
func NewMetricsRepository(backend *Backend) (*MetricsRepository, error) {
	return &MetricsRepository{backend: backend}, nil
}

// Close implements storage.Repository.
func (r *MetricsRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MetricsRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutMetrics stores the metrics for (ProductID, Version). A re-run of the
// same version overwrites the record; older versions are left untouched.
func (r *MetricsRepository) PutMetrics(ctx context.Context, metrics *core.QualityMetrics) error {
	if metrics.ComputedAt.IsZero() {
		metrics.ComputedAt = time.Now().UTC()
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeMetricsKey(metrics.ProductID, metrics.Version)
		if err := tx.Set(key, storage.MarshalQualityMetrics(metrics)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetMetrics retrieves the metrics for a (product, version) pair.
func (r *MetricsRepository) GetMetrics(ctx context.Context, productID, version string) (*core.QualityMetrics, error) {
	var metrics *core.QualityMetrics
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeMetricsKey(productID, version))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			metrics, err = storage.UnmarshalQualityMetrics(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return metrics, nil
}
