package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount holds numeric text exactly as the upstream sent it.
// It decodes from a JSON number or a JSON string and never fails decoding;
// malformed values surface from Decimal instead, so one bad record does not
// break decoding of the whole log.
type Amount string

// UnmarshalJSON accepts numbers, quoted numbers and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = Amount(data)
			return nil
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(data)
	return nil
}

// MarshalJSON writes the canonical decimal form as a JSON number when the
// amount parses, otherwise the original text as a string.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a == "" {
		return []byte("0"), nil
	}
	if d, err := a.Decimal(); err == nil {
		return []byte(d.String()), nil
	}
	return json.Marshal(string(a))
}

// Decimal parses the amount. An absent amount is zero.
func (a Amount) Decimal() (decimal.Decimal, error) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
