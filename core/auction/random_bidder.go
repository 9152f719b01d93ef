package auction

import (
	"math/rand"

	"fleetmas/core/logger"
	"fleetmas/core/model"
)

// RandomBidder bids a uniform random value regardless of the request.
// Useful as a baseline strategy and in tests; note that drawing from the
// seeded source is its only state change, bids never depend on earlier
// requests in any other way.
type RandomBidder struct {
	*BidderState
	rng *rand.Rand
}

// NewRandomBidder creates a random-bid strategy with an explicit seed.
func NewRandomBidder(id string, seed int64, states StateReader, log logger.Logger) *RandomBidder {
	return &RandomBidder{
		BidderState: NewBidderState(id, states, log),
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// BidFor returns a uniform random bid in [0, 1).
func (b *RandomBidder) BidFor(*model.Request, int64) float64 {
	return b.rng.Float64()
}
