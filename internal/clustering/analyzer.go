package clustering

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"solana-cluster-monitor/internal/domain"
	"solana-cluster-monitor/internal/idhash"
	"solana-cluster-monitor/internal/tokens"
)

// statPlaces is the rounding applied to aggregate amounts in a cluster.
const statPlaces = 6

// Analyze turns a qualifying window into a Cluster.
//
// The funding token is the mint of the window's first event. Windows are not
// checked for mixed mints: classification and the symbol use that first mint
// while total_amount_sent sums every event in the window.
func Analyze(w Window, swaps map[string]domain.SwapRecord) domain.Cluster {
	fundingToken := ""
	if len(w.Events) > 0 {
		fundingToken = w.Events[0].Mint
	}

	totalFunding := decimal.Zero
	funded := make(map[string]decimal.Decimal, len(w.Children))
	for _, ev := range w.Events {
		totalFunding = totalFunding.Add(ev.Amount)
		funded[ev.Child] = funded[ev.Child].Add(ev.Amount)
	}

	children := make([]domain.ChildDetail, 0, len(w.Children))
	targets := make([]string, 0)
	swapped := 0
	totalSwapped := decimal.Zero

	for _, child := range w.Children {
		detail := domain.ChildDetail{
			Wallet:       child,
			FundedAmount: funded[child].InexactFloat64(),
			SwapStatus:   domain.SwapStatusPending,
			TargetTokens: []string{},
		}

		if swap, ok := swaps[child]; ok && slices.Contains(swap.InputMints, fundingToken) {
			amount, _ := swap.InputAmountFor(fundingToken)
			swapTime := swap.Timestamp.UTC().Format(time.RFC3339)

			detail.SwapStatus = domain.SwapStatusCompleted
			detail.SwapAmount = amount.InexactFloat64()
			detail.SwapTime = &swapTime
			detail.TargetTokens = append(detail.TargetTokens, swap.OutputMints...)

			swapped++
			totalSwapped = totalSwapped.Add(amount)
			for _, mint := range swap.OutputMints {
				if !slices.Contains(targets, mint) {
					targets = append(targets, mint)
				}
			}
		}

		children = append(children, detail)
	}

	clusterType := domain.ClusterTypeSell
	if tokens.IsBuyingPower(fundingToken) {
		clusterType = domain.ClusterTypeBuy
	}

	start := w.Start.UTC()
	end := w.End.UTC()

	return domain.Cluster{
		ClusterID:       idhash.ComputeClusterID(w.Parent, start, w.Mint),
		ParentWallet:    w.Parent,
		FormationTime:   start.Format(time.RFC3339),
		FormationWindow: fmt.Sprintf("%s - %s", start.Format(time.RFC3339), end.Format(time.RFC3339)),
		WindowStart:     start.Unix(),
		WindowEnd:       end.Unix(),
		ClusterType:     clusterType,
		FundingStats: domain.FundingStats{
			ChildrenFunded:     len(children),
			TotalAmountSent:    totalFunding.Round(statPlaces).InexactFloat64(),
			FundingToken:       fundingToken,
			FundingTokenSymbol: tokens.Symbol(fundingToken),
		},
		SwapStats: domain.SwapStats{
			ChildrenSwapped:    swapped,
			ChildrenPending:    len(children) - swapped,
			TotalAmountSwapped: totalSwapped.Round(statPlaces).InexactFloat64(),
			SwapCompletionRate: completionRate(swapped, len(children)),
			TargetTokens:       targets,
			CoordinatedTarget:  len(targets) == 1,
		},
		Children: children,
	}
}

// completionRate formats swapped/funded as a one-decimal percentage.
func completionRate(swapped, funded int) string {
	if funded <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(swapped)/float64(funded)*100)
}
