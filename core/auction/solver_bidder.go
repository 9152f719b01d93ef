package auction

import (
	"math"

	"fleetmas/core/logger"
	"fleetmas/core/model"
	"fleetmas/core/solver"
)

// SnapshotSource provides the current global snapshot used to price a
// bid. The host refreshes it between scheduling steps.
type SnapshotSource interface {
	Snapshot() *model.GlobalState
}

// SolverBidder prices a request as the marginal cost of inserting it at
// the cheapest position of its vehicle's current route.
type SolverBidder struct {
	*BidderState
	vehicle int
	source  SnapshotSource
	weights solver.Weights
	depth   int
}

// NewSolverBidder creates a bidder for the vehicle at the given snapshot
// index.
func NewSolverBidder(id string, vehicle int, source SnapshotSource, states StateReader, w solver.Weights, depth int, log logger.Logger) *SolverBidder {
	return &SolverBidder{
		BidderState: NewBidderState(id, states, log),
		vehicle:     vehicle,
		source:      source,
		weights:     w,
		depth:       depth,
	}
}

// BidFor returns the cheapest insertion marginal cost, or +Inf when the
// request has no feasible position on this vehicle.
func (b *SolverBidder) BidFor(r *model.Request, _ int64) float64 {
	st := b.source.Snapshot()
	var route []int
	if st.CurrentRoutes != nil {
		route = st.CurrentRoutes[b.vehicle]
	}
	start := 0
	if st.CurrentDestinations[b.vehicle] != 0 {
		start = 1
	}
	current := solver.RouteCost(st, b.vehicle, route, b.weights)
	best := math.Inf(1)
	it := solver.Insertions(route, r.PickupIndex, r.DeliveryIndex, start, b.depth)
	for cand, ok := it.Next(); ok; cand, ok = it.Next() {
		if marginal := solver.RouteCost(st, b.vehicle, cand, b.weights) - current; marginal < best {
			best = marginal
		}
	}
	return best
}
