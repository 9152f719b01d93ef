package solver

import (
	"fmt"

	"fleetmas/core/model"
)

// Weights control the linear objective shared by all solvers. Both
// weights default to 1.
type Weights struct {
	Travel    float64
	Tardiness float64
}

// DefaultWeights returns the canonical objective weights.
func DefaultWeights() Weights { return Weights{Travel: 1, Tardiness: 1} }

// withSentinels returns route bounded by the depot start and end stops.
func withSentinels(st *model.GlobalState, route []int) []int {
	full := make([]int, 0, len(route)+2)
	full = append(full, 0)
	full = append(full, route...)
	full = append(full, st.DepotEnd())
	return full
}

// routeStats walks a sentinel-bounded route for one vehicle and returns
// the arrival times plus the total travel time and tardiness. The first
// hop uses the vehicle's own travel time row and the departure from the
// depot is bounded below by the vehicle's remaining service time. A zero
// due date means the stop has no deadline.
func routeStats(st *model.GlobalState, veh int, full []int) (arrivals []int64, travel, tardiness int64) {
	arrivals = make([]int64, len(full))
	prev := st.ReleaseDates[full[0]]
	if rst := st.RemainingServiceTimes[veh]; rst > prev {
		prev = rst
	}
	arrivals[0] = prev
	for i := 1; i < len(full); i++ {
		next := full[i]
		var tt int64
		if i == 1 {
			tt = st.VehicleTravelTimes[veh][next]
		} else {
			tt = st.TravelTime[full[i-1]][next]
		}
		arr := prev + tt
		if rd := st.ReleaseDates[next]; rd > arr {
			arr = rd
		}
		arrivals[i] = arr
		travel += tt
		if due := st.DueDates[next]; due > 0 && arr > due {
			tardiness += arr - due
		}
		prev = arr + st.ServiceTimes[next]
	}
	return arrivals, travel, tardiness
}

// RouteCost computes the weighted objective of a route (stop indices
// without depot sentinels) for the given vehicle.
func RouteCost(st *model.GlobalState, veh int, route []int, w Weights) float64 {
	_, travel, tardiness := routeStats(st, veh, withSentinels(st, route))
	return w.Travel*float64(travel) + w.Tardiness*float64(tardiness)
}

// EvaluateRoute builds the full routed schedule for one vehicle,
// including arrival times and the per-vehicle objective.
func EvaluateRoute(st *model.GlobalState, veh int, route []int, w Weights) (model.VehicleSolution, error) {
	full := withSentinels(st, route)
	arrivals, travel, tardiness := routeStats(st, veh, full)
	obj := w.Travel*float64(travel) + w.Tardiness*float64(tardiness)
	if obj < 0 {
		return model.VehicleSolution{}, fmt.Errorf("%w: vehicle %d objective %f", ErrInternalConsistency, veh, obj)
	}
	return model.VehicleSolution{Route: full, ArrivalTimes: arrivals, Objective: obj}, nil
}
