package domain

// Report is the result of one detection run over a transaction log.
type Report struct {
	DetectionParams DetectionParams `json:"detection_params"`
	Summary         Summary         `json:"summary"`
	Clusters        []Cluster       `json:"clusters"`
}

// DetectionParams echoes the inputs of the run.
type DetectionParams struct {
	MinChildren               int `json:"min_children"`
	FundingWindowMinutes      int `json:"funding_window_minutes"`
	TotalTransactionsAnalyzed int `json:"total_transactions_analyzed"`
	SkippedRecords            int `json:"skipped_records"`
}

// Summary totals the clusters of a report.
type Summary struct {
	ClustersFound        int `json:"clusters_found"`
	TotalParents         int `json:"total_parents"`
	TotalChildren        int `json:"total_children"`
	TotalChildrenSwapped int `json:"total_children_swapped"`
}

// Summarize computes the summary block from clusters.
func Summarize(clusters []Cluster) Summary {
	parents := make(map[string]struct{}, len(clusters))
	s := Summary{ClustersFound: len(clusters)}
	for i := range clusters {
		parents[clusters[i].ParentWallet] = struct{}{}
		s.TotalChildren += clusters[i].FundingStats.ChildrenFunded
		s.TotalChildrenSwapped += clusters[i].SwapStats.ChildrenSwapped
	}
	s.TotalParents = len(parents)
	return s
}
