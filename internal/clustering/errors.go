package clustering

import "fmt"

// TransientDataError describes one malformed field in an otherwise usable log.
// The offending entry is skipped and counted; the run continues.
type TransientDataError struct {
	Signature string
	Field     string
	Err       error
}

func (e *TransientDataError) Error() string {
	return fmt.Sprintf("transaction %s: %s: %v", e.Signature, e.Field, e.Err)
}

func (e *TransientDataError) Unwrap() error {
	return e.Err
}
