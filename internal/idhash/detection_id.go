package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ComputeDetectionID computes a deterministic run key using SHA256.
// Formula: SHA256(wallet|min_children|funding_window_minutes|sig1,sig2,...)
// Returns hex-encoded hash (64 characters).
func ComputeDetectionID(
	wallet string,
	minChildren int,
	fundingWindowMinutes int,
	signatures []string,
) string {
	data := fmt.Sprintf("%s|%d|%d|%s",
		wallet,
		minChildren,
		fundingWindowMinutes,
		strings.Join(signatures, ","),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
