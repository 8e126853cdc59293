package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SwapRecord is the latest swap attributed to a wallet (its fee payer).
// InputAmounts is parallel to InputMints and decimal-adjusted.
type SwapRecord struct {
	Timestamp    time.Time
	InputMints   []string
	InputAmounts []decimal.Decimal
	OutputMints  []string
	Signature    string
}

// InputAmountFor returns the amount of the first input leg spending mint.
func (s *SwapRecord) InputAmountFor(mint string) (decimal.Decimal, bool) {
	for i, m := range s.InputMints {
		if m == mint && i < len(s.InputAmounts) {
			return s.InputAmounts[i], true
		}
	}
	return decimal.Zero, false
}
