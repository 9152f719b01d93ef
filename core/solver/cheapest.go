package solver

import (
	"fmt"
	"math"

	"fleetmas/core/logger"
	"fleetmas/core/model"
)

// CheapestInsertionSolver is a greedy centralized solver. Each unassigned
// request is inserted at its globally cheapest marginal position across
// all vehicles; committed route prefixes are never altered.
type CheapestInsertionSolver struct {
	weights Weights
	depth   int
	log     logger.Logger
}

// NewCheapestInsertionSolver creates a solver with the given objective
// weights. Depth bounds the insertion positions considered per leg, zero
// means unbounded.
func NewCheapestInsertionSolver(w Weights, depth int, log logger.Logger) *CheapestInsertionSolver {
	if log == nil {
		log = logger.Nop{}
	}
	return &CheapestInsertionSolver{weights: w, depth: depth, log: log}
}

// Solve inserts every unassigned request into the schedule and returns
// the per-vehicle routes as stop indices without depot sentinels. The
// initial schedule is each vehicle's committed route; requests are
// processed in snapshot order so the result is deterministic. When a
// request fits nowhere the solve fails with ErrInfeasibleInsertion and
// no route of the failing iteration is committed.
func (s *CheapestInsertionSolver) Solve(st *model.GlobalState) ([][]int, error) {
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("cheapest insertion: %w", err)
	}
	v := st.NumVehicles()
	schedule := make([][]int, v)
	costs := make([]float64, v)
	routed := make(map[int]bool)
	for i := 0; i < v; i++ {
		if st.CurrentRoutes != nil && st.CurrentRoutes[i] != nil {
			schedule[i] = append([]int(nil), st.CurrentRoutes[i]...)
		}
		for _, stop := range schedule[i] {
			routed[stop] = true
		}
		costs[i] = RouteCost(st, i, schedule[i], s.weights)
	}

	// Cargo deliveries that the host has not routed yet can only go to
	// their owning vehicle.
	for _, inv := range st.Inventories {
		veh, stop := inv[0], inv[1]
		if routed[stop] {
			continue
		}
		route, cost, ok := s.cheapestSingle(st, veh, schedule[veh], stop)
		if !ok {
			return nil, fmt.Errorf("%w: cargo delivery %d on vehicle %d", ErrInfeasibleInsertion, stop, veh)
		}
		schedule[veh] = route
		costs[veh] = cost
		routed[stop] = true
	}

	for _, pair := range st.ServicePairs {
		pickup, delivery := pair[0], pair[1]
		if routed[pickup] {
			continue
		}
		bestMarginal := math.Inf(1)
		bestVehicle := -1
		var bestRoute []int
		var bestCost float64
		for i := 0; i < v; i++ {
			start := 0
			if st.CurrentDestinations[i] != 0 {
				start = 1
			}
			it := Insertions(schedule[i], pickup, delivery, start, s.depth)
			for cand, ok := it.Next(); ok; cand, ok = it.Next() {
				abs := RouteCost(st, i, cand, s.weights)
				if marginal := abs - costs[i]; marginal < bestMarginal {
					bestMarginal = marginal
					bestVehicle = i
					bestRoute = cand
					bestCost = abs
				}
			}
		}
		if bestVehicle < 0 {
			return nil, fmt.Errorf("%w: request %d/%d", ErrInfeasibleInsertion, pickup, delivery)
		}
		s.log.Debugw("inserted request", map[string]any{
			"pickup":   pickup,
			"delivery": delivery,
			"vehicle":  bestVehicle,
			"marginal": bestMarginal,
		})
		schedule[bestVehicle] = bestRoute
		costs[bestVehicle] = bestCost
		routed[pickup] = true
		routed[delivery] = true
	}
	return schedule, nil
}

// cheapestSingle finds the cheapest position for a standalone stop on
// one vehicle, respecting its committed destination.
func (s *CheapestInsertionSolver) cheapestSingle(st *model.GlobalState, veh int, route []int, stop int) ([]int, float64, bool) {
	start := 0
	if st.CurrentDestinations[veh] != 0 {
		start = 1
	}
	current := RouteCost(st, veh, route, s.weights)
	bestMarginal := math.Inf(1)
	var bestRoute []int
	var bestCost float64
	it := SingleStop(route, stop, start, s.depth)
	for cand, ok := it.Next(); ok; cand, ok = it.Next() {
		abs := RouteCost(st, veh, cand, s.weights)
		if marginal := abs - current; marginal < bestMarginal {
			bestMarginal = marginal
			bestRoute = cand
			bestCost = abs
		}
	}
	return bestRoute, bestCost, bestRoute != nil
}
