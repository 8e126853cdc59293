package tokens

import "testing"

func TestSymbol(t *testing.T) {
	tests := []struct {
		mint string
		want string
	}{
		{SOLMint, "SOL"},
		{USDCMint, "USDC"},
		{USDTMint, "USDT"},
		{USDCCircleMint, "USDC"},
		{USTv2Mint, "USTv2"},
		{WsUSDCMint, "wsUSDC"},
		{"UnknownMint111", UnknownSymbol},
		{"", UnknownSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.mint, func(t *testing.T) {
			if got := Symbol(tt.mint); got != tt.want {
				t.Errorf("Symbol(%q) = %q, want %q", tt.mint, got, tt.want)
			}
		})
	}
}

func TestIsBuyingPower(t *testing.T) {
	for _, mint := range []string{SOLMint, USDCMint, USDTMint, USDCCircleMint, USTv2Mint, WsUSDCMint} {
		if !IsBuyingPower(mint) {
			t.Errorf("IsBuyingPower(%q) = false, want true", mint)
		}
	}

	if IsBuyingPower("SomeMemeMint") {
		t.Error("IsBuyingPower should be false for arbitrary token")
	}
	if IsStablecoin(SOLMint) {
		t.Error("SOL is not a stablecoin")
	}
}
