package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"

	"solana-cluster-monitor/internal/domain"
)

var csvHeader = []string{
	"cluster_id", "parent_wallet", "cluster_type", "formation_time",
	"funding_token", "funding_token_symbol", "swap_completion_rate", "coordinated_target",
	"child_wallet", "funded_amount", "swap_status", "swap_amount", "swap_time", "target_tokens",
}

// RenderCSV renders one row per funded child.
func RenderCSV(r *domain.Report) (string, error) {
	return renderCSV(r, nil)
}

// RenderWalletCSV is RenderCSV with a leading wallet column naming the
// queried wallet, for output that concatenates several reports.
func RenderWalletCSV(wallet string, r *domain.Report) (string, error) {
	return renderCSV(r, []string{wallet})
}

func renderCSV(r *domain.Report, prefix []string) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := csvHeader
	if prefix != nil {
		header = append([]string{"wallet"}, csvHeader...)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, c := range r.Clusters {
		for _, child := range c.Children {
			swapTime := ""
			if child.SwapTime != nil {
				swapTime = *child.SwapTime
			}
			row := append(append([]string(nil), prefix...),
				c.ClusterID,
				c.ParentWallet,
				c.ClusterType.String(),
				c.FormationTime,
				c.FundingStats.FundingToken,
				c.FundingStats.FundingTokenSymbol,
				c.SwapStats.SwapCompletionRate,
				strconv.FormatBool(c.SwapStats.CoordinatedTarget),
				child.Wallet,
				formatAmount(child.FundedAmount),
				child.SwapStatus.String(),
				formatAmount(child.SwapAmount),
				swapTime,
				strings.Join(child.TargetTokens, ";"),
			)
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
