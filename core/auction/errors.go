package auction

import "errors"

// ErrInvalidClaim is returned when a claim or unclaim precondition is
// violated. The bidder state is left untouched.
var ErrInvalidClaim = errors.New("auction: invalid claim")

// ErrInvalidRelease is returned when releasing a request that is not in
// the assigned set.
var ErrInvalidRelease = errors.New("auction: invalid release")

// ErrNoBidders is returned when a request requires allocation but no
// bidder is registered. This is a fatal configuration error.
var ErrNoBidders = errors.New("auction: no bidders registered")
