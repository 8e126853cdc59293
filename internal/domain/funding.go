package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundingEvent is a positive value transfer from one wallet to a different wallet.
type FundingEvent struct {
	Parent    string
	Child     string
	Mint      string
	Amount    decimal.Decimal
	Timestamp time.Time // containing transaction time, second granularity
	Signature string
}
