package domain

import "encoding/json"

// TransactionTypeSwap is the upstream type tag for exchange transactions.
const TransactionTypeSwap = "SWAP"

// Transaction is one parsed record from the upstream transaction history.
// Only the fields used by cluster detection are modelled.
type Transaction struct {
	Signature      string            `json:"signature"`
	Timestamp      int64             `json:"timestamp"` // unix seconds
	Type           string            `json:"type,omitempty"`
	FeePayer       string            `json:"feePayer,omitempty"`
	TokenTransfers []TokenTransfer   `json:"tokenTransfers"`
	Events         TransactionEvents `json:"events"`
}

// TokenTransfer is a single value movement inside a transaction.
// SOL movements appear here with the wrapped SOL mint.
type TokenTransfer struct {
	FromUserAccount string `json:"fromUserAccount,omitempty"`
	ToUserAccount   string `json:"toUserAccount,omitempty"`
	Mint            string `json:"mint"`
	TokenAmount     Amount `json:"tokenAmount"`
}

// TransactionEvents holds decoded program events.
type TransactionEvents struct {
	Swap *SwapEvent `json:"swap,omitempty"`
}

// IsSwap reports whether the record is tagged as a swap.
func (t *Transaction) IsSwap() bool {
	return t.Type == TransactionTypeSwap
}

// DecodeTransactions decodes raw upstream records one by one.
// Records that cannot be decoded at all are dropped and counted.
func DecodeTransactions(raw []json.RawMessage) ([]Transaction, int) {
	txs := make([]Transaction, 0, len(raw))
	skipped := 0
	for _, msg := range raw {
		var tx Transaction
		if err := json.Unmarshal(msg, &tx); err != nil {
			skipped++
			continue
		}
		txs = append(txs, tx)
	}
	return txs, skipped
}
