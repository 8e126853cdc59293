package storage

import (
	"context"

	"solana-cluster-monitor/internal/domain"
)

// ClusterStore keeps the history of detected clusters.
// Clusters are append-only: a cluster_id is written once and never updated.
type ClusterStore interface {
	// Insert adds a new cluster. Returns ErrDuplicateKey if cluster_id exists.
	Insert(ctx context.Context, c *domain.Cluster) error

	// GetByID retrieves a cluster by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, clusterID string) (*domain.Cluster, error)

	// GetByParent retrieves clusters funded by a parent wallet, ordered by window_start ASC.
	GetByParent(ctx context.Context, parent string) ([]*domain.Cluster, error)

	// GetByChild retrieves clusters containing a child wallet, ordered by window_start ASC.
	GetByChild(ctx context.Context, child string) ([]*domain.Cluster, error)
}
