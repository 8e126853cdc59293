// Package tokens holds the static mint tables used to classify and label clusters.
package tokens

// SOLMint is the wrapped SOL mint; native SOL transfers are reported under it.
const SOLMint = "So11111111111111111111111111111111111111112"

// UnknownSymbol is returned for mints missing from the symbol table.
const UnknownSymbol = "TOKEN"

// Recognised stablecoin mints.
const (
	USDCMint       = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDTMint       = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
	USDCCircleMint = "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU"
	USTv2Mint      = "A9mUU4qviSctJVPJdBJWkb28deg915LYJKrzQ19ji3FM"
	WsUSDCMint     = "Gz7VkD4MacbEB6yC5XD3HcumEiYx2EtDYYrfikGsvopG"
)

// Tables are populated at init and never written afterwards.
var (
	stablecoins = map[string]struct{}{
		USDCMint:       {},
		USDTMint:       {},
		USDCCircleMint: {},
		USTv2Mint:      {},
		WsUSDCMint:     {},
	}

	symbols = map[string]string{
		SOLMint:        "SOL",
		USDCMint:       "USDC",
		USDTMint:       "USDT",
		USDCCircleMint: "USDC",
		USTv2Mint:      "USTv2",
		WsUSDCMint:     "wsUSDC",
	}
)

// Symbol returns the ticker for mint, or UnknownSymbol.
func Symbol(mint string) string {
	if s, ok := symbols[mint]; ok {
		return s
	}
	return UnknownSymbol
}

// IsStablecoin reports whether mint is a recognised stablecoin.
func IsStablecoin(mint string) bool {
	_, ok := stablecoins[mint]
	return ok
}

// IsBuyingPower reports whether mint is SOL or a recognised stablecoin.
func IsBuyingPower(mint string) bool {
	return mint == SOLMint || IsStablecoin(mint)
}
