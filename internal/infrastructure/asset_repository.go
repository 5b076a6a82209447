package infrastructure

import (
	"context"
	"sort"
	"sync"

	"signagestats/internal/domain"
	"signagestats/pkg/logger"
)

// implements domain.AssetRepository in memory
type AssetRepository struct {
	data   map[int64]domain.MediaAsset
	mutex  sync.RWMutex
	logger *logger.Logger
}

func NewAssetRepository(logger *logger.Logger) *AssetRepository {
	return &AssetRepository{
		data:   make(map[int64]domain.MediaAsset),
		logger: logger,
	}
}

func (r *AssetRepository) Store(ctx context.Context, assets ...domain.MediaAsset) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, asset := range assets {
		r.data[asset.ID] = asset
	}

	r.logger.WithContext(ctx).WithField("count", len(assets)).Debug("Stored media assets in memory")
}

func (r *AssetRepository) GetByID(ctx context.Context, id int64) (*domain.MediaAsset, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	asset, exists := r.data[id]
	if !exists {
		return nil, domain.ErrAdNotFound
	}
	return &asset, nil
}

func (r *AssetRepository) List(ctx context.Context) ([]domain.MediaAsset, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]domain.MediaAsset, 0, len(r.data))
	for _, asset := range r.data {
		result = append(result, asset)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}
