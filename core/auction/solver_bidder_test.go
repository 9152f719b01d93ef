package auction

import (
	"math"
	"testing"

	"fleetmas/core/model"
	"fleetmas/core/solver"
)

type fixedSource struct{ st *model.GlobalState }

func (f fixedSource) Snapshot() *model.GlobalState { return f.st }

func lineSnapshot() *model.GlobalState {
	coords := []int64{0, 10, 20, 0}
	n := len(coords)
	tt := make([][]int64, n)
	for i := range tt {
		tt[i] = make([]int64, n)
		for j := range tt[i] {
			d := coords[i] - coords[j]
			if d < 0 {
				d = -d
			}
			tt[i][j] = d
		}
	}
	return &model.GlobalState{
		TravelTime:            tt,
		ReleaseDates:          make([]int64, n),
		DueDates:              make([]int64, n),
		ServiceTimes:          make([]int64, n),
		ServicePairs:          [][2]int{{1, 2}},
		VehicleTravelTimes:    [][]int64{append([]int64(nil), tt[0]...)},
		RemainingServiceTimes: []int64{0},
		CurrentDestinations:   []int{0},
		CurrentRoutes:         [][]int{nil},
	}
}

func TestSolverBidderPricesMarginalCost(t *testing.T) {
	st := lineSnapshot()
	b := NewSolverBidder("vehicle-0", 0, fixedSource{st}, mapStates{}, solver.DefaultWeights(), 0, nil)
	r := &model.Request{ID: "r", PickupIndex: 1, DeliveryIndex: 2}
	// Empty route costs 0; route [1 2] costs 10+10+20.
	if bid := b.BidFor(r, 0); bid != 40 {
		t.Errorf("bid = %f, want 40", bid)
	}
}

func TestSolverBidderInfeasibleBidsInfinity(t *testing.T) {
	st := lineSnapshot()
	// A committed destination with an empty route leaves no legal gap.
	st.CurrentDestinations[0] = 1
	b := NewSolverBidder("vehicle-0", 0, fixedSource{st}, mapStates{}, solver.DefaultWeights(), 0, nil)
	r := &model.Request{ID: "r", PickupIndex: 1, DeliveryIndex: 2}
	if bid := b.BidFor(r, 0); !math.IsInf(bid, 1) {
		t.Errorf("bid = %f, want +Inf", bid)
	}
}
