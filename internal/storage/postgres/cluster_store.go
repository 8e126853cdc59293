package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-cluster-monitor/internal/domain"
	"solana-cluster-monitor/internal/storage"
)

// ClusterStore implements storage.ClusterStore using PostgreSQL.
// The full cluster is kept as a JSONB payload; indexed columns and the
// cluster_children table serve the lookups.
type ClusterStore struct {
	pool *Pool
}

// NewClusterStore creates a new ClusterStore.
func NewClusterStore(pool *Pool) *ClusterStore {
	return &ClusterStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ClusterStore = (*ClusterStore)(nil)

// Insert adds a new cluster and its child rows atomically.
// Returns ErrDuplicateKey if cluster_id exists.
func (s *ClusterStore) Insert(ctx context.Context, c *domain.Cluster) error {
	if c == nil || c.ClusterID == "" || c.ParentWallet == "" {
		return storage.ErrInvalidInput
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cluster payload: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO clusters (
			cluster_id, parent_wallet, cluster_type, funding_token, window_start, window_end,
			children_funded, children_swapped, payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.Exec(ctx, query,
		c.ClusterID,
		c.ParentWallet,
		string(c.ClusterType),
		c.FundingStats.FundingToken,
		c.WindowStart,
		c.WindowEnd,
		c.FundingStats.ChildrenFunded,
		c.SwapStats.ChildrenSwapped,
		payload,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert cluster: %w", err)
	}

	if len(c.Children) > 0 {
		rows := make([][]any, len(c.Children))
		for i, child := range c.Children {
			rows[i] = []any{c.ClusterID, child.Wallet, i}
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"cluster_children"},
			[]string{"cluster_id", "wallet", "position"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("insert cluster children: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a cluster by its ID. Returns ErrNotFound if not exists.
func (s *ClusterStore) GetByID(ctx context.Context, clusterID string) (*domain.Cluster, error) {
	query := `SELECT payload FROM clusters WHERE cluster_id = $1`

	var payload []byte
	if err := s.pool.QueryRow(ctx, query, clusterID).Scan(&payload); err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get cluster by id: %w", err)
	}
	return decodeCluster(payload)
}

// GetByParent retrieves clusters funded by a parent wallet, ordered by window_start ASC.
func (s *ClusterStore) GetByParent(ctx context.Context, parent string) ([]*domain.Cluster, error) {
	query := `
		SELECT payload
		FROM clusters
		WHERE parent_wallet = $1
		ORDER BY window_start ASC, cluster_id ASC
	`

	rows, err := s.pool.Query(ctx, query, parent)
	if err != nil {
		return nil, fmt.Errorf("get clusters by parent: %w", err)
	}
	defer rows.Close()

	return scanClusters(rows)
}

// GetByChild retrieves clusters containing a child wallet, ordered by window_start ASC.
func (s *ClusterStore) GetByChild(ctx context.Context, child string) ([]*domain.Cluster, error) {
	query := `
		SELECT c.payload
		FROM clusters c
		JOIN cluster_children cc ON cc.cluster_id = c.cluster_id
		WHERE cc.wallet = $1
		ORDER BY c.window_start ASC, c.cluster_id ASC
	`

	rows, err := s.pool.Query(ctx, query, child)
	if err != nil {
		return nil, fmt.Errorf("get clusters by child: %w", err)
	}
	defer rows.Close()

	return scanClusters(rows)
}

// scanClusters scans payload rows into clusters.
func scanClusters(rows pgx.Rows) ([]*domain.Cluster, error) {
	var clusters []*domain.Cluster

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan cluster: %w", err)
		}
		c, err := decodeCluster(payload)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clusters: %w", err)
	}

	return clusters, nil
}

func decodeCluster(payload []byte) (*domain.Cluster, error) {
	var c domain.Cluster
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("decode cluster payload: %w", err)
	}
	return &c, nil
}
