// Package reporting renders detection reports for humans and spreadsheets.
package reporting

import (
	"fmt"
	"strings"

	"solana-cluster-monitor/internal/domain"
	"solana-cluster-monitor/internal/tokens"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(wallet string, r *domain.Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Cluster Detection Report\n\n")
	if wallet != "" {
		sb.WriteString(fmt.Sprintf("Wallet: `%s`\n\n", wallet))
	}

	// Parameters
	sb.WriteString("## Detection Parameters\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Min Children | %d |\n", r.DetectionParams.MinChildren))
	sb.WriteString(fmt.Sprintf("| Funding Window (min) | %d |\n", r.DetectionParams.FundingWindowMinutes))
	sb.WriteString(fmt.Sprintf("| Transactions Analyzed | %d |\n", r.DetectionParams.TotalTransactionsAnalyzed))
	sb.WriteString(fmt.Sprintf("| Skipped Records | %d |\n", r.DetectionParams.SkippedRecords))
	sb.WriteString("\n")

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Clusters Found | %d |\n", r.Summary.ClustersFound))
	sb.WriteString(fmt.Sprintf("| Parents | %d |\n", r.Summary.TotalParents))
	sb.WriteString(fmt.Sprintf("| Children | %d |\n", r.Summary.TotalChildren))
	sb.WriteString(fmt.Sprintf("| Children Swapped | %d |\n", r.Summary.TotalChildrenSwapped))
	sb.WriteString("\n")

	// Clusters
	sb.WriteString("## Clusters\n\n")
	if len(r.Clusters) == 0 {
		sb.WriteString("No clusters detected.\n")
		return sb.String()
	}

	for i := range r.Clusters {
		writeCluster(&sb, &r.Clusters[i])
	}

	return sb.String()
}

func writeCluster(sb *strings.Builder, c *domain.Cluster) {
	sb.WriteString(fmt.Sprintf("### %s\n\n", c.ClusterID))
	sb.WriteString(fmt.Sprintf("- Parent: `%s`\n", c.ParentWallet))
	sb.WriteString(fmt.Sprintf("- Type: %s\n", c.ClusterType))
	sb.WriteString(fmt.Sprintf("- Window: %s\n", c.FormationWindow))
	sb.WriteString(fmt.Sprintf("- Funding: %s %s to %d children\n",
		formatAmount(c.FundingStats.TotalAmountSent), c.FundingStats.FundingTokenSymbol, c.FundingStats.ChildrenFunded))
	sb.WriteString(fmt.Sprintf("- Swapped: %d of %d (%s)\n",
		c.SwapStats.ChildrenSwapped, c.FundingStats.ChildrenFunded, c.SwapStats.SwapCompletionRate))
	if len(c.SwapStats.TargetTokens) > 0 {
		targets := make([]string, len(c.SwapStats.TargetTokens))
		for i, mint := range c.SwapStats.TargetTokens {
			targets[i] = fmt.Sprintf("%s (%s)", tokens.Symbol(mint), mint)
		}
		coordinated := ""
		if c.SwapStats.CoordinatedTarget {
			coordinated = " **coordinated**"
		}
		sb.WriteString(fmt.Sprintf("- Targets: %s%s\n", strings.Join(targets, ", "), coordinated))
	}
	sb.WriteString("\n")

	sb.WriteString("| Child | Funded | Status | Swapped | Swap Time |\n")
	sb.WriteString("|-------|--------|--------|---------|-----------|\n")
	for _, child := range c.Children {
		swapTime := "-"
		if child.SwapTime != nil {
			swapTime = *child.SwapTime
		}
		sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s | %s |\n",
			child.Wallet,
			formatAmount(child.FundedAmount),
			child.SwapStatus,
			formatAmount(child.SwapAmount),
			swapTime))
	}
	sb.WriteString("\n")
}

// formatAmount prints up to six decimals without trailing zeros.
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.6f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
