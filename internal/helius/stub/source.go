// Package stub provides an in-memory helius.TransactionSource.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"solana-cluster-monitor/internal/helius"
)

// Source serves canned records per address, newest first.
type Source struct {
	mu      sync.Mutex
	records map[string][]json.RawMessage
	errs    map[string]error
	calls   int
}

// Compile-time interface check.
var _ helius.TransactionSource = (*Source)(nil)

// NewSource creates an empty stub source.
func NewSource() *Source {
	return &Source{
		records: make(map[string][]json.RawMessage),
		errs:    make(map[string]error),
	}
}

// Add appends records for address. Values are JSON-encoded.
func (s *Source) Add(address string, records ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		raw, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		s.records[address] = append(s.records[address], raw)
	}
	return nil
}

// AddRaw appends already-encoded records for address.
func (s *Source) AddRaw(address string, records ...json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[address] = append(s.records[address], records...)
}

// FailWith makes every fetch for address return err.
func (s *Source) FailWith(address string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[address] = err
}

// Calls returns the number of fetches served.
func (s *Source) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// GetRawTransactions returns records for address honouring Before and Limit.
func (s *Source) GetRawTransactions(_ context.Context, address string, opts *helius.FetchOptions) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if err, ok := s.errs[address]; ok {
		return nil, err
	}

	records := s.records[address]
	if opts != nil && opts.Before != "" {
		for i, r := range records {
			var rec struct {
				Signature string `json:"signature"`
			}
			if json.Unmarshal(r, &rec) == nil && rec.Signature == opts.Before {
				records = records[i+1:]
				break
			}
		}
	}
	if opts != nil && opts.Limit > 0 && opts.Limit < len(records) {
		records = records[:opts.Limit]
	}

	out := make([]json.RawMessage, len(records))
	copy(out, records)
	return out, nil
}
