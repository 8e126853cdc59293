package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-cluster-monitor/internal/domain"
	"solana-cluster-monitor/internal/storage"
)

func testCluster(parent string, windowStart int64, children ...string) *domain.Cluster {
	swapTime := "2023-11-14T22:15:00Z"
	c := &domain.Cluster{
		ClusterID:       fmt.Sprintf("%s_%d", parent, windowStart),
		ParentWallet:    parent,
		FormationTime:   "2023-11-14T22:13:20Z",
		FormationWindow: "2023-11-14T22:13:20Z - 2023-11-14T22:18:20Z",
		WindowStart:     windowStart,
		WindowEnd:       windowStart + 300,
		ClusterType:     domain.ClusterTypeBuy,
		FundingStats: domain.FundingStats{
			FundingToken:       "So11111111111111111111111111111111111111112",
			FundingTokenSymbol: "SOL",
		},
		SwapStats: domain.SwapStats{
			SwapCompletionRate: "0.0%",
			TargetTokens:       []string{},
		},
	}
	for i, child := range children {
		detail := domain.ChildDetail{
			Wallet:       child,
			FundedAmount: 1.5,
			SwapStatus:   domain.SwapStatusPending,
			TargetTokens: []string{},
		}
		if i == 0 {
			detail.SwapStatus = domain.SwapStatusCompleted
			detail.SwapAmount = 1.25
			detail.SwapTime = &swapTime
			detail.TargetTokens = []string{"TokenX"}
		}
		c.Children = append(c.Children, detail)
	}
	c.FundingStats.ChildrenFunded = len(children)
	c.FundingStats.TotalAmountSent = 1.5 * float64(len(children))
	return c
}

func TestClusterStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewClusterStore(pool)
	ctx := context.Background()

	cluster := testCluster("ParentWallet1", 1700000000, "ChildA", "ChildB", "ChildC")

	err := store.Insert(ctx, cluster)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, cluster.ClusterID)
	require.NoError(t, err)

	assert.Equal(t, cluster, retrieved)
}

func TestClusterStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewClusterStore(pool)
	ctx := context.Background()

	cluster := testCluster("ParentWallet1", 1700000000, "ChildA")
	require.NoError(t, store.Insert(ctx, cluster))

	err := store.Insert(ctx, cluster)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestClusterStore_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewClusterStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClusterStore_GetByParentAndChild(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewClusterStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testCluster("ParentWallet1", 1700000600, "Shared", "ChildA")))
	require.NoError(t, store.Insert(ctx, testCluster("ParentWallet1", 1700000000, "ChildB")))
	require.NoError(t, store.Insert(ctx, testCluster("ParentWallet2", 1700000300, "Shared")))

	byParent, err := store.GetByParent(ctx, "ParentWallet1")
	require.NoError(t, err)
	require.Len(t, byParent, 2)
	assert.Equal(t, int64(1700000000), byParent[0].WindowStart)
	assert.Equal(t, int64(1700000600), byParent[1].WindowStart)

	byChild, err := store.GetByChild(ctx, "Shared")
	require.NoError(t, err)
	require.Len(t, byChild, 2)
	assert.Equal(t, "ParentWallet2", byChild[0].ParentWallet)
	assert.Equal(t, "ParentWallet1", byChild[1].ParentWallet)

	none, err := store.GetByChild(ctx, "Nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClusterStore_InvalidInput(t *testing.T) {
	store := NewClusterStore(nil)

	err := store.Insert(context.Background(), &domain.Cluster{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
