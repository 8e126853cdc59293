package clustering

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"solana-cluster-monitor/internal/domain"
)

var errAmountOverflow = errors.New("amount overflows float64")

// parseAmount parses a numeric field. Values outside float64 range are
// rejected since downstream statistics and JSON output work in float64.
func parseAmount(a domain.Amount) (decimal.Decimal, error) {
	d, err := a.Decimal()
	if err != nil {
		return decimal.Zero, err
	}
	if math.IsInf(d.InexactFloat64(), 0) {
		return decimal.Zero, errAmountOverflow
	}
	return d, nil
}

// Extraction holds the two views derived from a transaction log.
type Extraction struct {
	Funding []domain.FundingEvent
	Swaps   map[string]domain.SwapRecord // wallet -> last swap encountered in log order
	Skipped []*TransientDataError
}

// Extract scans the log and derives funding events and per-wallet swaps.
// The log is not re-sorted: for a wallet with several swaps the record kept
// is the last one in iteration order, which is only the latest by time when
// the log is chronological.
func Extract(txs []domain.Transaction) *Extraction {
	ex := &Extraction{
		Swaps: make(map[string]domain.SwapRecord),
	}

	for i := range txs {
		ex.extractFunding(&txs[i])
	}
	for i := range txs {
		ex.extractSwap(&txs[i])
	}

	return ex
}

func (ex *Extraction) extractFunding(tx *domain.Transaction) {
	ts := time.Unix(tx.Timestamp, 0).UTC()

	for j := range tx.TokenTransfers {
		tr := &tx.TokenTransfers[j]
		if tr.FromUserAccount == "" || tr.ToUserAccount == "" || tr.FromUserAccount == tr.ToUserAccount {
			continue
		}

		amount, err := parseAmount(tr.TokenAmount)
		if err != nil {
			ex.Skipped = append(ex.Skipped, &TransientDataError{
				Signature: tx.Signature,
				Field:     "tokenTransfers.tokenAmount",
				Err:       err,
			})
			continue
		}
		if !amount.IsPositive() {
			continue
		}

		ex.Funding = append(ex.Funding, domain.FundingEvent{
			Parent:    tr.FromUserAccount,
			Child:     tr.ToUserAccount,
			Mint:      tr.Mint,
			Amount:    amount,
			Timestamp: ts,
			Signature: tx.Signature,
		})
	}
}

func (ex *Extraction) extractSwap(tx *domain.Transaction) {
	if !tx.IsSwap() || tx.FeePayer == "" || tx.Events.Swap == nil {
		return
	}
	swap := tx.Events.Swap
	payer := tx.FeePayer

	record := domain.SwapRecord{
		Timestamp:   time.Unix(tx.Timestamp, 0).UTC(),
		InputMints:  []string{},
		OutputMints: []string{},
		Signature:   tx.Signature,
	}

	for _, in := range swap.TokenInputs {
		if in.UserAccount != payer {
			continue
		}
		raw, err := in.RawTokenAmount.TokenAmount.Decimal()
		if err == nil && math.IsInf(raw.Shift(-in.RawTokenAmount.Decimals).InexactFloat64(), 0) {
			err = errAmountOverflow
		}
		if err != nil {
			ex.Skipped = append(ex.Skipped, &TransientDataError{
				Signature: tx.Signature,
				Field:     "events.swap.tokenInputs.rawTokenAmount",
				Err:       err,
			})
			continue
		}
		record.InputMints = append(record.InputMints, in.Mint)
		record.InputAmounts = append(record.InputAmounts, raw.Shift(-in.RawTokenAmount.Decimals))
	}

	for _, inner := range swap.InnerSwaps {
		for _, out := range inner.TokenOutputs {
			if out.ToUserAccount == payer {
				record.OutputMints = append(record.OutputMints, out.Mint)
			}
		}
	}

	ex.Swaps[payer] = record
}
