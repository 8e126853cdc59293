// Package helius fetches parsed transaction history for a wallet from the
// Helius enhanced transactions API.
package helius

import (
	"context"
	"encoding/json"
	"fmt"
)

// MaxLimit is the largest page size the API accepts.
const MaxLimit = 100

// TransactionSource returns raw parsed transactions for an address, newest first.
type TransactionSource interface {
	GetRawTransactions(ctx context.Context, address string, opts *FetchOptions) ([]json.RawMessage, error)
}

// FetchOptions defines optional pagination parameters.
type FetchOptions struct {
	Limit  int    // maximum records per page (1..MaxLimit)
	Before string // continue after this signature
}

// FetchPages walks up to pages pages of history, following the signature of
// the last record of each page. It stops early on a short page.
func FetchPages(ctx context.Context, src TransactionSource, address string, limit, pages int) ([]json.RawMessage, error) {
	if pages < 1 {
		pages = 1
	}

	var all []json.RawMessage
	opts := &FetchOptions{Limit: limit}
	for page := 0; page < pages; page++ {
		batch, err := src.GetRawTransactions(ctx, address, opts)
		if err != nil {
			return all, err
		}
		all = append(all, batch...)

		if len(batch) == 0 || (limit > 0 && len(batch) < limit) {
			break
		}
		last, err := signatureOf(batch[len(batch)-1])
		if err != nil || last == "" {
			break
		}
		opts = &FetchOptions{Limit: limit, Before: last}
	}

	return all, nil
}

func signatureOf(raw json.RawMessage) (string, error) {
	var rec struct {
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}
	return rec.Signature, nil
}
