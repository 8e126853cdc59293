// Package clustering detects coordinated funding clusters in a transaction log:
// a parent wallet funding several children inside a short window, correlated
// with the children's subsequent swaps.
//
// Detection is a pure function of the log and the parameters. It performs no
// I/O, keeps no state between calls and is safe for concurrent use on
// read-only inputs.
package clustering

import (
	"solana-cluster-monitor/internal/domain"
)

// Detect runs extraction, windowing and analysis over txs.
// Malformed entries are skipped and returned alongside the report; their
// count is also recorded in the report's detection params.
func Detect(txs []domain.Transaction, params Params) (*domain.Report, []*TransientDataError) {
	ex := Extract(txs)
	windows := FindWindows(ex.Funding, params)

	clusters := make([]domain.Cluster, 0, len(windows))
	for _, w := range windows {
		clusters = append(clusters, Analyze(w, ex.Swaps))
	}

	report := &domain.Report{
		DetectionParams: domain.DetectionParams{
			MinChildren:               params.MinChildren,
			FundingWindowMinutes:      params.FundingWindowMinutes,
			TotalTransactionsAnalyzed: len(txs),
			SkippedRecords:            len(ex.Skipped),
		},
		Summary:  domain.Summarize(clusters),
		Clusters: clusters,
	}

	return report, ex.Skipped
}
