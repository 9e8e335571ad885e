// Package store holds the write-once asset collection.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	apperrors "github.com/asset-dashboard/internal/errors"
	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/source"
	"github.com/asset-dashboard/internal/types"
)

// AssetStore loads the asset collection from a source exactly once and is
// read-only afterwards. A failed load leaves it empty for good.
type AssetStore struct {
	source source.Source

	mu        sync.RWMutex
	attempted bool
	loaded    bool
	assets    []types.Asset
}

// NewAssetStore creates an empty store backed by src
func NewAssetStore(src source.Source) *AssetStore {
	return &AssetStore{source: src}
}

// Load fetches the collection. It may be called once; later calls fail with
// ALREADY_LOADED. Unreachable or malformed data yields a LOAD_ERROR.
func (s *AssetStore) Load(ctx context.Context) ([]types.Asset, error) {
	s.mu.Lock()
	if s.attempted {
		s.mu.Unlock()
		return nil, apperrors.NewAlreadyLoadedError()
	}
	s.attempted = true
	s.mu.Unlock()

	logger := logging.FromContext(ctx).WithField("source", s.source.Name())
	start := time.Now()

	assets, err := s.source.Fetch(ctx)
	if err == nil {
		err = Validate(assets)
	}
	if err != nil {
		loadErr := apperrors.NewLoadError(s.source.Name(), err)
		logger.WithError(err).Error("Asset load failed")
		return nil, loadErr
	}

	s.mu.Lock()
	s.assets = slices.Clone(assets)
	s.loaded = true
	s.mu.Unlock()

	logger.WithFields(map[string]interface{}{
		"count":    len(assets),
		"duration": time.Since(start).String(),
	}).Info("Asset store loaded")

	return slices.Clone(assets), nil
}

// Validate enforces the store invariants: non-negative, unique ids
func Validate(assets []types.Asset) error {
	seen := make(map[int64]int, len(assets))
	for i, a := range assets {
		if a.ID < 0 {
			return fmt.Errorf("asset %d: negative id %d", i, a.ID)
		}
		if prev, dup := seen[a.ID]; dup {
			return fmt.Errorf("asset %d: duplicate id %d (first seen at %d)", i, a.ID, prev)
		}
		seen[a.ID] = i
	}
	return nil
}

// Assets returns a copy of the loaded collection; nil before a successful load
func (s *AssetStore) Assets() []types.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.assets)
}

// Loaded reports whether a load has completed successfully
func (s *AssetStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Len returns the number of loaded assets
func (s *AssetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}

// SourceName returns the name of the backing source
func (s *AssetStore) SourceName() string {
	return s.source.Name()
}
