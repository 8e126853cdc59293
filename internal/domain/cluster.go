package domain

// ClusterType classifies the intent of a funding burst.
type ClusterType string

const (
	// ClusterTypeBuy marks funding in SOL or a recognised stablecoin.
	ClusterTypeBuy ClusterType = "BUY_CLUSTER"
	// ClusterTypeSell marks funding in any other token.
	ClusterTypeSell ClusterType = "SELL_CLUSTER"
)

// String returns the string representation of ClusterType.
func (c ClusterType) String() string {
	return string(c)
}

// IsValid checks if the cluster type is a valid value.
func (c ClusterType) IsValid() bool {
	return c == ClusterTypeBuy || c == ClusterTypeSell
}

// SwapStatus tells whether a child has spent its funding in a swap.
type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusCompleted SwapStatus = "completed"
)

// String returns the string representation of SwapStatus.
func (s SwapStatus) String() string {
	return string(s)
}

// IsValid checks if the swap status is a valid value.
func (s SwapStatus) IsValid() bool {
	return s == SwapStatusPending || s == SwapStatusCompleted
}

// Cluster is a parent wallet plus the children it funded inside one window.
// Clusters are computed artifacts and are not mutated after detection.
type Cluster struct {
	ClusterID       string        `json:"cluster_id"`
	ParentWallet    string        `json:"parent_wallet"`
	FormationTime   string        `json:"formation_time"`
	FormationWindow string        `json:"formation_window"`
	WindowStart     int64         `json:"window_start"` // unix seconds
	WindowEnd       int64         `json:"window_end"`   // unix seconds, inclusive
	ClusterType     ClusterType   `json:"cluster_type"`
	FundingStats    FundingStats  `json:"funding_stats"`
	SwapStats       SwapStats     `json:"swap_stats"`
	Children        []ChildDetail `json:"children"`
}

// FundingStats aggregates the parent's transfers inside the window.
type FundingStats struct {
	ChildrenFunded     int     `json:"children_funded"`
	TotalAmountSent    float64 `json:"total_amount_sent"`
	FundingToken       string  `json:"funding_token"`
	FundingTokenSymbol string  `json:"funding_token_symbol"`
}

// SwapStats aggregates the children's swap behaviour.
type SwapStats struct {
	ChildrenSwapped    int      `json:"children_swapped"`
	ChildrenPending    int      `json:"children_pending"`
	TotalAmountSwapped float64  `json:"total_amount_swapped"`
	SwapCompletionRate string   `json:"swap_completion_rate"`
	TargetTokens       []string `json:"target_tokens"`
	CoordinatedTarget  bool     `json:"coordinated_target"`
}

// ChildDetail describes one funded child wallet.
type ChildDetail struct {
	Wallet       string     `json:"wallet"`
	FundedAmount float64    `json:"funded_amount"`
	SwapStatus   SwapStatus `json:"swap_status"`
	SwapAmount   float64    `json:"swap_amount"`
	SwapTime     *string    `json:"swap_time"`
	TargetTokens []string   `json:"target_tokens"`
}

// HasChild reports whether wallet is one of the cluster's children.
func (c *Cluster) HasChild(wallet string) bool {
	for _, child := range c.Children {
		if child.Wallet == wallet {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the cluster.
func (c *Cluster) Clone() *Cluster {
	out := *c
	out.SwapStats.TargetTokens = cloneStrings(c.SwapStats.TargetTokens)
	out.Children = make([]ChildDetail, len(c.Children))
	for i, child := range c.Children {
		child.TargetTokens = cloneStrings(child.TargetTokens)
		if child.SwapTime != nil {
			t := *child.SwapTime
			child.SwapTime = &t
		}
		out.Children[i] = child
	}
	return &out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
