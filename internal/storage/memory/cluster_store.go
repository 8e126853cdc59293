package memory

import (
	"context"
	"sort"
	"sync"

	"solana-cluster-monitor/internal/domain"
	"solana-cluster-monitor/internal/storage"
)

// ClusterStore is an in-memory implementation of storage.ClusterStore.
type ClusterStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Cluster // keyed by cluster_id
}

// NewClusterStore creates a new in-memory cluster store.
func NewClusterStore() *ClusterStore {
	return &ClusterStore{
		data: make(map[string]*domain.Cluster),
	}
}

// Compile-time interface check.
var _ storage.ClusterStore = (*ClusterStore)(nil)

// Insert adds a new cluster. Returns ErrDuplicateKey if cluster_id exists.
func (s *ClusterStore) Insert(_ context.Context, c *domain.Cluster) error {
	if c == nil || c.ClusterID == "" || c.ParentWallet == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.ClusterID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	s.data[c.ClusterID] = c.Clone()
	return nil
}

// GetByID retrieves a cluster by its ID. Returns ErrNotFound if not exists.
func (s *ClusterStore) GetByID(_ context.Context, clusterID string) (*domain.Cluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[clusterID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return c.Clone(), nil
}

// GetByParent retrieves clusters funded by a parent wallet.
func (s *ClusterStore) GetByParent(_ context.Context, parent string) ([]*domain.Cluster, error) {
	return s.filter(func(c *domain.Cluster) bool {
		return c.ParentWallet == parent
	}), nil
}

// GetByChild retrieves clusters containing a child wallet.
func (s *ClusterStore) GetByChild(_ context.Context, child string) ([]*domain.Cluster, error) {
	return s.filter(func(c *domain.Cluster) bool {
		return c.HasChild(child)
	}), nil
}

func (s *ClusterStore) filter(match func(*domain.Cluster) bool) []*domain.Cluster {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Cluster
	for _, c := range s.data {
		if match(c) {
			result = append(result, c.Clone())
		}
	}

	// Sort by window_start ASC, cluster_id ASC
	sort.Slice(result, func(i, j int) bool {
		if result[i].WindowStart != result[j].WindowStart {
			return result[i].WindowStart < result[j].WindowStart
		}
		return result[i].ClusterID < result[j].ClusterID
	})

	return result
}
