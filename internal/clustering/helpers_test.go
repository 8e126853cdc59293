package clustering

import (
	"fmt"

	"solana-cluster-monitor/internal/domain"
)

const (
	baseTime  int64 = 1700000000
	tokenX          = "TokenXMint1111111111111111111111111111111111"
	tokenY          = "TokenYMint1111111111111111111111111111111111"
	tokenZ          = "TokenZMint1111111111111111111111111111111111"
	parentP         = "ParentWalletP"
	solAmount       = "1"
)

func minutes(m int64) int64 {
	return baseTime + m*60
}

func child(i int) string {
	return fmt.Sprintf("ChildWallet%d", i)
}

// transferTx builds a transaction carrying one transfer.
func transferTx(sig string, ts int64, from, to, mint string, amount domain.Amount) domain.Transaction {
	return domain.Transaction{
		Signature: sig,
		Timestamp: ts,
		Type:      "TRANSFER",
		FeePayer:  from,
		TokenTransfers: []domain.TokenTransfer{
			{FromUserAccount: from, ToUserAccount: to, Mint: mint, TokenAmount: amount},
		},
	}
}

// swapTx builds a SWAP transaction where wallet spends rawIn of inMint and receives outMints.
func swapTx(sig string, ts int64, wallet, inMint string, rawIn domain.Amount, decimals int32, outMints ...string) domain.Transaction {
	outputs := make([]domain.SwapTokenOutput, 0, len(outMints))
	for _, m := range outMints {
		outputs = append(outputs, domain.SwapTokenOutput{ToUserAccount: wallet, Mint: m})
	}
	return domain.Transaction{
		Signature: sig,
		Timestamp: ts,
		Type:      domain.TransactionTypeSwap,
		FeePayer:  wallet,
		Events: domain.TransactionEvents{
			Swap: &domain.SwapEvent{
				TokenInputs: []domain.SwapTokenInput{
					{
						UserAccount:    wallet,
						Mint:           inMint,
						RawTokenAmount: domain.RawTokenAmount{TokenAmount: rawIn, Decimals: decimals},
					},
				},
				InnerSwaps: []domain.InnerSwap{{TokenOutputs: outputs}},
			},
		},
	}
}

// fanOut funds children 1..n from parent, one per minute starting at minute 0.
func fanOut(parent, mint string, n int) []domain.Transaction {
	txs := make([]domain.Transaction, 0, n)
	for i := 1; i <= n; i++ {
		txs = append(txs, transferTx(fmt.Sprintf("fund-%s-%d", parent, i), minutes(int64(i-1)), parent, child(i), mint, solAmount))
	}
	return txs
}
