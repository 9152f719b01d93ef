package auction

import (
	"math"
	"math/rand"

	"fleetmas/core/events"
	"fleetmas/core/logger"
	"fleetmas/core/model"
)

// Tolerance is the margin within which two bids count as a tie.
const Tolerance = 1e-4

// AuctionListener observes resolved auctions.
type AuctionListener func(events.AuctionEvent)

// Auctioneer runs a sealed-bid minimum-cost auction for every request
// that becomes newly available and delivers the request to the winning
// bidder. Near-ties within Tolerance are broken uniformly at random from
// a seeded source so runs are reproducible.
type Auctioneer struct {
	bidders   []Bidder
	rng       *rand.Rand
	listeners []AuctionListener
	log       logger.Logger
}

// NewAuctioneer creates an auction coordinator with an explicit seed for
// tie breaking.
func NewAuctioneer(seed int64, log logger.Logger) *Auctioneer {
	if log == nil {
		log = logger.Nop{}
	}
	return &Auctioneer{rng: rand.New(rand.NewSource(seed)), log: log}
}

// Register adds a bidder to the auction pool.
func (a *Auctioneer) Register(b Bidder) {
	a.bidders = append(a.bidders, b)
}

// Bidders returns the number of registered bidders.
func (a *Auctioneer) Bidders() int { return len(a.bidders) }

// AddAuctionListener registers a callback fired after every resolved
// auction.
func (a *Auctioneer) AddAuctionListener(l AuctionListener) {
	a.listeners = append(a.listeners, l)
}

// Allocate auctions one request and delivers it to the winner via
// ReceiveParcel. With a single registered bidder no bids are collected
// at all; BidFor is side-effect free so skipping it is safe. Fails with
// ErrNoBidders when the pool is empty.
func (a *Auctioneer) Allocate(r *model.Request, now int64) (Bidder, error) {
	if len(a.bidders) == 0 {
		return nil, ErrNoBidders
	}
	winners := []Bidder{a.bidders[0]}
	best := math.NaN()
	if len(a.bidders) > 1 {
		best = winners[0].BidFor(r, now)
		for _, b := range a.bidders[1:] {
			bid := b.BidFor(r, now)
			if bid < best {
				best = bid
				winners = winners[:0]
				winners = append(winners, b)
			} else if math.Abs(bid-best) < Tolerance {
				winners = append(winners, b)
			}
		}
	}
	winner := winners[0]
	if len(winners) > 1 {
		winner = winners[a.rng.Intn(len(winners))]
	}
	winner.ReceiveParcel(r)
	a.log.Infof("auction for %s won by %s (%d bidders)", r.ID, winner.ID(), len(a.bidders))
	ev := events.AuctionEvent{
		RequestID: r.ID,
		WinnerID:  winner.ID(),
		Bidders:   len(a.bidders),
		BestBid:   best,
		Tie:       len(winners) > 1,
		Time:      now,
	}
	for _, l := range a.listeners {
		l(ev)
	}
	return winner, nil
}
