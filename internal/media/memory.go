package media

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It keeps every uploaded file in memory, making it useful for testing.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	baseURL string
	mu      sync.RWMutex
	assets  map[string][]byte
	kinds   map[string]Kind
}

// NewMemoryStore creates an empty store whose URLs start with baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://media"
	}
	return &MemoryStore{
		baseURL: baseURL,
		assets:  make(map[string][]byte),
		kinds:   make(map[string]Kind),
	}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Upload(ctx context.Context, localPath string, kind Kind) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	assetID := newAssetID(localPath, kind)

	m.mu.Lock()
	m.assets[assetID] = data
	m.kinds[assetID] = kind
	m.mu.Unlock()

	return &Asset{
		URL:          joinURL(m.baseURL, assetID),
		AssetID:      assetID,
		ResourceType: kind,
		Duration:     durationFor(localPath, kind),
	}, nil
}

func (m *MemoryStore) Destroy(ctx context.Context, assetID string, kind Kind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validAssetID(assetID, kind); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assets, assetID)
	delete(m.kinds, assetID)
	return nil
}

// Has reports whether assetID is currently stored.
func (m *MemoryStore) Has(assetID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.assets[assetID]
	return ok
}

// Len returns the number of stored assets.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assets)
}
