package clustering

import (
	"errors"
	"fmt"
)

// Boundary ranges for detection parameters. Detect itself accepts any
// positive values; callers clamp or validate against these.
const (
	MinChildrenLower   = 3
	MinChildrenUpper   = 20
	WindowMinutesLower = 1
	WindowMinutesUpper = 30

	DefaultMinChildren          = 5
	DefaultFundingWindowMinutes = 5
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid detection params")

// Params configures one detection run.
type Params struct {
	MinChildren          int  // distinct children needed for a window to qualify
	FundingWindowMinutes int  // window length after the first funding event
	SplitByMint          bool // cluster per (parent, mint) instead of per parent
}

// DefaultParams returns the service defaults.
func DefaultParams() Params {
	return Params{
		MinChildren:          DefaultMinChildren,
		FundingWindowMinutes: DefaultFundingWindowMinutes,
	}
}

// Validate checks the parameters against the boundary ranges.
func (p Params) Validate() error {
	if p.MinChildren < MinChildrenLower || p.MinChildren > MinChildrenUpper {
		return fmt.Errorf("%w: min_children %d outside [%d,%d]",
			ErrInvalidParams, p.MinChildren, MinChildrenLower, MinChildrenUpper)
	}
	if p.FundingWindowMinutes < WindowMinutesLower || p.FundingWindowMinutes > WindowMinutesUpper {
		return fmt.Errorf("%w: funding_window_minutes %d outside [%d,%d]",
			ErrInvalidParams, p.FundingWindowMinutes, WindowMinutesLower, WindowMinutesUpper)
	}
	return nil
}
