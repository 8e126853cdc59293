package reporting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-cluster-monitor/internal/domain"
	"solana-cluster-monitor/internal/tokens"
)

func sampleReport() *domain.Report {
	swapTime := "2023-11-14T22:20:00Z"
	clusters := []domain.Cluster{{
		ClusterID:       "ParentP_1700000000",
		ParentWallet:    "ParentP",
		FormationTime:   "2023-11-14T22:13:20Z",
		FormationWindow: "2023-11-14T22:13:20Z - 2023-11-14T22:18:20Z",
		ClusterType:     domain.ClusterTypeBuy,
		FundingStats: domain.FundingStats{
			ChildrenFunded:     2,
			TotalAmountSent:    3.5,
			FundingToken:       tokens.SOLMint,
			FundingTokenSymbol: "SOL",
		},
		SwapStats: domain.SwapStats{
			ChildrenSwapped:    1,
			ChildrenPending:    1,
			TotalAmountSwapped: 1.25,
			SwapCompletionRate: "50.0%",
			TargetTokens:       []string{"TokenX"},
			CoordinatedTarget:  true,
		},
		Children: []domain.ChildDetail{
			{Wallet: "ChildA", FundedAmount: 2, SwapStatus: domain.SwapStatusCompleted, SwapAmount: 1.25, SwapTime: &swapTime, TargetTokens: []string{"TokenX"}},
			{Wallet: "ChildB", FundedAmount: 1.5, SwapStatus: domain.SwapStatusPending, TargetTokens: []string{}},
		},
	}}
	return &domain.Report{
		DetectionParams: domain.DetectionParams{MinChildren: 2, FundingWindowMinutes: 5, TotalTransactionsAnalyzed: 10},
		Summary:         domain.Summarize(clusters),
		Clusters:        clusters,
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown("ParentP", sampleReport())

	assert.Contains(t, md, "# Cluster Detection Report")
	assert.Contains(t, md, "Wallet: `ParentP`")
	assert.Contains(t, md, "| Transactions Analyzed | 10 |")
	assert.Contains(t, md, "| Clusters Found | 1 |")
	assert.Contains(t, md, "### ParentP_1700000000")
	assert.Contains(t, md, "- Funding: 3.5 SOL to 2 children")
	assert.Contains(t, md, "- Swapped: 1 of 2 (50.0%)")
	assert.Contains(t, md, "TOKEN (TokenX) **coordinated**")
	assert.Contains(t, md, "| `ChildA` | 2 | completed | 1.25 | 2023-11-14T22:20:00Z |")
	assert.Contains(t, md, "| `ChildB` | 1.5 | pending | 0 | - |")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	md := RenderMarkdown("", &domain.Report{Summary: domain.Summarize(nil)})

	assert.NotContains(t, md, "Wallet:")
	assert.Contains(t, md, "No clusters detected.")
}

func TestRenderCSV(t *testing.T) {
	out, err := RenderCSV(sampleReport())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "cluster_id,parent_wallet,cluster_type"))
	assert.Equal(t,
		"ParentP_1700000000,ParentP,BUY_CLUSTER,2023-11-14T22:13:20Z,"+tokens.SOLMint+",SOL,50.0%,true,ChildA,2,completed,1.25,2023-11-14T22:20:00Z,TokenX",
		lines[1])
	assert.Equal(t,
		"ParentP_1700000000,ParentP,BUY_CLUSTER,2023-11-14T22:13:20Z,"+tokens.SOLMint+",SOL,50.0%,true,ChildB,1.5,pending,0,,",
		lines[2])
}

func TestRenderWalletCSV(t *testing.T) {
	out, err := RenderWalletCSV("QueriedW", sampleReport())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "wallet,cluster_id,parent_wallet"))
	assert.True(t, strings.HasPrefix(lines[1], "QueriedW,ParentP_1700000000,ParentP,"))
	assert.True(t, strings.HasPrefix(lines[2], "QueriedW,ParentP_1700000000,ParentP,"))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{1.5, "1.5"},
		{0.000001, "0.000001"},
		{123.4567891, "123.456789"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.in))
	}
}
