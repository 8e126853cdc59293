package domain

// SwapEvent is the decoded swap payload attached to a SWAP transaction.
type SwapEvent struct {
	TokenInputs []SwapTokenInput `json:"tokenInputs"`
	InnerSwaps  []InnerSwap      `json:"innerSwaps"`
}

// SwapTokenInput is a token leg spent by a swap participant.
type SwapTokenInput struct {
	UserAccount    string         `json:"userAccount"`
	Mint           string         `json:"mint"`
	RawTokenAmount RawTokenAmount `json:"rawTokenAmount"`
}

// RawTokenAmount is an integer base-unit amount with its mint decimals.
type RawTokenAmount struct {
	TokenAmount Amount `json:"tokenAmount"`
	Decimals    int32  `json:"decimals"`
}

// InnerSwap is one hop of a routed swap.
type InnerSwap struct {
	TokenOutputs []SwapTokenOutput `json:"tokenOutputs"`
}

// SwapTokenOutput is a token leg received from a swap hop.
type SwapTokenOutput struct {
	ToUserAccount string `json:"toUserAccount"`
	Mint          string `json:"mint"`
}
