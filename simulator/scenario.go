// Package simulator generates synthetic pickup-and-delivery scenarios
// and drives the allocation loop over them.
package simulator

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"fleetmas/config"
	"fleetmas/core/model"
)

// Scenario is a fully generated problem instance. Stops use a fixed
// global indexing: 0 is the depot start sentinel, request i occupies
// pickup 1+2i and delivery 2+2i, and the last index is the depot end
// sentinel.
type Scenario struct {
	Depot         model.Point
	Requests      []*model.Request
	StopLocations []model.Point
	TravelTime    [][]int64
	Vehicles      int
	Horizon       int64
}

// Generate builds a random scenario from the configuration. The same
// seed produces the same scenario.
func Generate(cfg config.ScenarioConfig) *Scenario {
	rng := rand.New(rand.NewSource(cfg.Seed))
	size := float64(cfg.PlaneSize)
	depot := model.Point{X: size / 2, Y: size / 2}

	n := 2*cfg.Requests + 2
	locs := make([]model.Point, n)
	locs[0] = depot
	locs[n-1] = depot

	requests := make([]*model.Request, cfg.Requests)
	for i := 0; i < cfg.Requests; i++ {
		// IDs come from the scenario rng so the same seed reproduces the
		// same instance, IDs included.
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			panic(err) // math/rand readers never fail
		}
		pickup := model.Point{X: rng.Float64() * size, Y: rng.Float64() * size}
		delivery := model.Point{X: rng.Float64() * size, Y: rng.Float64() * size}
		pIdx := 1 + 2*i
		dIdx := 2 + 2*i
		locs[pIdx] = pickup
		locs[dIdx] = delivery

		release := rng.Int63n(cfg.Horizon / 3)
		tt := travelTime(pickup, delivery)
		pickupWindow := model.TimeWindow{Start: release, End: release + cfg.Horizon/3}
		deliveryWindow := model.TimeWindow{Start: release + tt, End: cfg.Horizon}

		requests[i] = &model.Request{
			ID:               id.String(),
			PickupLocation:   pickup,
			DeliveryLocation: delivery,
			PickupWindow:     pickupWindow,
			DeliveryWindow:   deliveryWindow,
			ServiceDuration:  cfg.ServiceDuration,
			ReleaseDate:      release,
			DueDate:          deliveryWindow.End,
			PickupIndex:      pIdx,
			DeliveryIndex:    dIdx,
		}
	}

	tt := make([][]int64, n)
	for i := range tt {
		tt[i] = make([]int64, n)
		for j := range tt[i] {
			tt[i][j] = travelTime(locs[i], locs[j])
		}
	}

	return &Scenario{
		Depot:         depot,
		Requests:      requests,
		StopLocations: locs,
		TravelTime:    tt,
		Vehicles:      cfg.Vehicles,
		Horizon:       cfg.Horizon,
	}
}

// NumStops returns the stop count including both depot sentinels.
func (sc *Scenario) NumStops() int { return len(sc.StopLocations) }

// RequestAt returns the request owning the given pickup or delivery
// stop index.
func (sc *Scenario) RequestAt(stop int) (*model.Request, error) {
	if stop <= 0 || stop >= sc.NumStops()-1 {
		return nil, fmt.Errorf("stop %d is a depot sentinel", stop)
	}
	return sc.Requests[(stop-1)/2], nil
}

// InitialState builds a snapshot of the whole scenario at time zero with
// every vehicle idle at the depot and every request open. Suitable for
// offline solving.
func (sc *Scenario) InitialState() *model.GlobalState {
	n := sc.NumStops()
	st := &model.GlobalState{
		TravelTime:            sc.TravelTime,
		ReleaseDates:          make([]int64, n),
		DueDates:              make([]int64, n),
		ServiceTimes:          make([]int64, n),
		VehicleTravelTimes:    make([][]int64, sc.Vehicles),
		RemainingServiceTimes: make([]int64, sc.Vehicles),
		CurrentDestinations:   make([]int, sc.Vehicles),
	}
	for _, r := range sc.Requests {
		st.ReleaseDates[r.PickupIndex] = r.PickupWindow.Start
		st.ReleaseDates[r.DeliveryIndex] = r.DeliveryWindow.Start
		st.DueDates[r.PickupIndex] = r.PickupWindow.End
		st.DueDates[r.DeliveryIndex] = r.DeliveryWindow.End
		st.ServiceTimes[r.PickupIndex] = r.ServiceDuration
		st.ServiceTimes[r.DeliveryIndex] = r.ServiceDuration
		st.ServicePairs = append(st.ServicePairs, [2]int{r.PickupIndex, r.DeliveryIndex})
	}
	for v := 0; v < sc.Vehicles; v++ {
		st.VehicleTravelTimes[v] = append([]int64(nil), sc.TravelTime[0]...)
	}
	return st
}

// travelTime converts the Euclidean distance between two points into a
// travel time at unit speed.
func travelTime(a, b model.Point) int64 {
	return int64(math.Round(math.Hypot(a.X-b.X, a.Y-b.Y)))
}
