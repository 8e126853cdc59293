package helius

import (
	"errors"
	"fmt"
)

// FetchError is returned for every failure talking to the upstream API:
// transport errors, non-2xx responses and undecodable bodies.
type FetchError struct {
	Op         string // operation, e.g. "get transactions"
	Address    string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("helius %s for %s: status %d: %v", e.Op, e.Address, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("helius %s for %s: %v", e.Op, e.Address, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is or wraps a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
