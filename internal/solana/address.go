// Package solana holds helpers for Solana account addresses.
package solana

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// AddressLen is the byte length of a Solana public key.
const AddressLen = 32

// ErrInvalidAddress is returned for strings that are not base58 public keys.
var ErrInvalidAddress = errors.New("invalid solana address")

// ParseAddress decodes a base58 address and checks its length.
func ParseAddress(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(decoded) != AddressLen {
		return nil, fmt.Errorf("%w: decoded length %d, want %d", ErrInvalidAddress, len(decoded), AddressLen)
	}
	return decoded, nil
}

// IsOnCurve reports whether the key is a valid ed25519 point.
// Wallets controlled by a keypair are on the curve; program derived addresses are not.
func IsOnCurve(key []byte) bool {
	if len(key) != AddressLen {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(key)
	return err == nil
}
