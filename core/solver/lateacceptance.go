package solver

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"fleetmas/core/logger"
	"fleetmas/core/model"
)

// Default local-search parameters.
const (
	DefaultHistoryLength = 2000
	DefaultMaxIterations = 200000
)

// LateAcceptanceSolver is a stochastic local-search metaheuristic that
// jointly optimizes the vehicle assignment and the visit order of all
// requests. It runs late-acceptance hill climbing: a candidate is
// accepted when its objective is no worse than the objective recorded a
// fixed number of iterations ago, which tolerates temporary regressions.
type LateAcceptanceSolver struct {
	historyLength int
	maxIterations int
	weights       Weights
	log           logger.Logger
}

// NewLateAcceptanceSolver creates a solver with the given history length
// and iteration budget. A non-positive history length and a negative
// iteration budget fall back to the defaults; a zero budget returns the
// initial solution, which is useful for warm-start comparisons.
func NewLateAcceptanceSolver(historyLength, maxIterations int, w Weights, log logger.Logger) *LateAcceptanceSolver {
	if historyLength <= 0 {
		historyLength = DefaultHistoryLength
	}
	if maxIterations < 0 {
		maxIterations = DefaultMaxIterations
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &LateAcceptanceSolver{
		historyLength: historyLength,
		maxIterations: maxIterations,
		weights:       w,
		log:           log,
	}
}

// laState bundles the immutable per-solve lookups.
type laState struct {
	st    *model.GlobalState
	p2d   []int
	d2p   []int
	fixed []int // stop -> forced vehicle, -1 when free
	// movable lists the stops eligible for the reassignment move: not
	// fixed and, for deliveries, without a fixed pickup.
	movable []int
}

// Solve runs the local search and returns the best solution found.
// Identical seed and input produce identical output.
func (s *LateAcceptanceSolver) Solve(st *model.GlobalState, seed int64) (model.Solution, error) {
	if err := st.Validate(); err != nil {
		return model.Solution{}, fmt.Errorf("late acceptance: %w", err)
	}
	rng := rand.New(rand.NewSource(seed))
	n := st.NumStops()
	v := st.NumVehicles()

	ls := &laState{st: st, p2d: st.PickupToDelivery(), d2p: st.DeliveryToPickup()}
	ls.fixed = make([]int, n)
	for i := range ls.fixed {
		ls.fixed[i] = -1
	}
	for _, inv := range st.Inventories {
		ls.fixed[inv[1]] = inv[0]
	}
	for veh, dest := range st.CurrentDestinations {
		if dest != 0 {
			ls.fixed[dest] = veh
		}
	}
	for i := 1; i < n-1; i++ {
		if ls.fixed[i] == -1 && (ls.d2p[i] == -1 || ls.fixed[ls.d2p[i]] == -1) {
			ls.movable = append(ls.movable, i)
		}
	}

	assignment := ls.randomFeasibleAssignment(rng, v)
	perm := ls.feasiblePermutation(rng)

	cur, err := s.construct(ls, perm, assignment)
	if err != nil {
		return model.Solution{}, err
	}
	best := cur.Clone()
	history := make([]float64, s.historyLength)
	for i := range history {
		history[i] = cur.Objective
	}

	for it := 0; it < s.maxIterations; it++ {
		newPerm := append([]int(nil), perm...)
		newAssignment := append([]int(nil), cur.Assignment...)
		cand := cur.Clone()

		var moved bool
		if len(newPerm) <= 4 || rng.Intn(2) == 0 {
			moved, err = s.reassignMove(ls, rng, v, newPerm, newAssignment, &cand)
		} else {
			moved, err = s.shiftMove(ls, rng, newPerm, newAssignment, &cand)
		}
		if err != nil {
			return model.Solution{}, err
		}
		if !moved {
			// Degenerate instance, no legal neighbor this iteration.
			history[it%s.historyLength] = cur.Objective
			continue
		}

		cand.Objective = totalObjective(cand.Vehicles)
		if cand.Objective < 0 {
			return model.Solution{}, fmt.Errorf("%w: negative objective %f", ErrInternalConsistency, cand.Objective)
		}
		if cand.Objective <= history[it%s.historyLength] {
			perm = newPerm
			cand.Assignment = newAssignment
			cur = cand
			if cur.Objective < best.Objective {
				best = cur.Clone()
				s.log.Debugf("new best objective %.0f at iteration %d", best.Objective, it)
			}
		}
		history[it%s.historyLength] = cur.Objective
	}
	return best, nil
}

// reassignMove moves a random non-fixed request (and its partner) to a
// random vehicle, re-evaluating only the two affected vehicles.
func (s *LateAcceptanceSolver) reassignMove(ls *laState, rng *rand.Rand, v int, perm, assignment []int, cand *model.Solution) (bool, error) {
	if len(ls.movable) == 0 {
		return false, nil
	}
	ro := ls.movable[rng.Intn(len(ls.movable))]
	rv := rng.Intn(v)
	orig := assignment[ro]
	assignment[ro] = rv
	if p := ls.d2p[ro]; p != -1 {
		assignment[p] = rv
	}
	if d := ls.p2d[ro]; d != -1 {
		assignment[d] = rv
	}
	for _, veh := range []int{orig, rv} {
		vs, err := s.constructVehicle(ls, perm, assignment, veh)
		if err != nil {
			return false, err
		}
		cand.Vehicles[veh] = vs
	}
	return true, nil
}

// shiftMove shifts a random permutation element forward or backward
// within the legal window bounded by its precedence partner, then
// re-applies the fixed-first-destination repair and re-evaluates the one
// affected vehicle.
func (s *LateAcceptanceSolver) shiftMove(ls *laState, rng *rand.Rand, perm, assignment []int, cand *model.Solution) (bool, error) {
	n := len(perm)
	loc := make([]int, n)
	for i, el := range perm {
		loc[el] = i
	}
	forward := rng.Intn(2) == 0
	var el int
	found := false
	for try := 0; try < 4*n; try++ {
		if forward {
			i := 1 + rng.Intn(n-3)
			deliveryLoc := n
			if d := ls.p2d[perm[i]]; d != -1 {
				deliveryLoc = loc[d]
			}
			window := min(deliveryLoc, n-1) - (i + 1)
			if window <= 0 {
				continue
			}
			j := i + 1 + rng.Intn(window)
			el = removeAt(perm, i)
			insertAt(perm, j, el)
			found = true
		} else {
			i := 2 + rng.Intn(n-3)
			pickupLoc := 0
			if p := ls.d2p[perm[i]]; p != -1 {
				pickupLoc = loc[p]
			}
			lower := max(1, pickupLoc+1)
			window := i - lower
			if window <= 0 {
				continue
			}
			j := lower + rng.Intn(window)
			el = removeAt(perm, i)
			insertAt(perm, j, el)
			found = true
		}
		break
	}
	if !found {
		return false, nil
	}
	fixedFirstRepair(perm, ls.st.CurrentDestinations)
	vs, err := s.constructVehicle(ls, perm, assignment, assignment[el])
	if err != nil {
		return false, err
	}
	cand.Vehicles[assignment[el]] = vs
	return true, nil
}

// construct evaluates every vehicle for a permutation and assignment.
func (s *LateAcceptanceSolver) construct(ls *laState, perm, assignment []int) (model.Solution, error) {
	sol := model.Solution{
		Vehicles:   make([]model.VehicleSolution, ls.st.NumVehicles()),
		Assignment: assignment,
	}
	for veh := range sol.Vehicles {
		vs, err := s.constructVehicle(ls, perm, assignment, veh)
		if err != nil {
			return model.Solution{}, err
		}
		sol.Vehicles[veh] = vs
	}
	sol.Objective = totalObjective(sol.Vehicles)
	return sol, nil
}

// constructVehicle builds and evaluates the route of a single vehicle:
// its subsequence of the permutation, bounded by the depot sentinels.
func (s *LateAcceptanceSolver) constructVehicle(ls *laState, perm, assignment []int, veh int) (model.VehicleSolution, error) {
	n := ls.st.NumStops()
	var route []int
	for _, el := range perm {
		if el != 0 && el != n-1 && assignment[el] == veh {
			route = append(route, el)
		}
	}
	return EvaluateRoute(ls.st, veh, route, s.weights)
}

// randomFeasibleAssignment assigns every stop to a vehicle such that
// fixed stops keep their forced vehicle and a pickup always shares a
// vehicle with its delivery. Depot sentinels map to -1.
func (ls *laState) randomFeasibleAssignment(rng *rand.Rand, v int) []int {
	n := ls.st.NumStops()
	a := make([]int, n)
	for i := range a {
		a[i] = -1
	}
	for veh, dest := range ls.st.CurrentDestinations {
		if dest != 0 {
			a[dest] = veh
			if d := ls.p2d[dest]; d != -1 {
				a[d] = veh
			}
		}
	}
	for i := 1; i < n-1; i++ {
		if a[i] != -1 {
			continue
		}
		if ls.fixed[i] != -1 {
			a[i] = ls.fixed[i]
			if d := ls.p2d[i]; d != -1 && a[d] == -1 {
				a[d] = a[i]
			}
			continue
		}
		if d := ls.p2d[i]; d != -1 {
			a[i] = rng.Intn(v)
			a[d] = a[i]
		} else {
			a[i] = rng.Intn(v)
		}
	}
	return a
}

// feasiblePermutation seeds the visit order by ascending due date, then
// repairs it so every pickup precedes its delivery and every committed
// destination leads its vehicle's subsequence.
func (ls *laState) feasiblePermutation(rng *rand.Rand) []int {
	n := ls.st.NumStops()
	elems := make([]int, 0, n-2)
	for i := 1; i < n-1; i++ {
		elems = append(elems, i)
	}
	sort.SliceStable(elems, func(a, b int) bool {
		return ls.st.DueDates[elems[a]] < ls.st.DueDates[elems[b]]
	})
	perm := make([]int, 0, n)
	perm = append(perm, 0)
	perm = append(perm, elems...)
	perm = append(perm, n-1)

	for _, pair := range ls.st.ServicePairs {
		pickupLoc, deliveryLoc := -1, -1
		for i := 1; i < n-1; i++ {
			if perm[i] == pair[0] {
				pickupLoc = i
			}
			if perm[i] == pair[1] {
				deliveryLoc = i
			}
		}
		if pickupLoc > deliveryLoc {
			pos := 1 + rng.Intn(deliveryLoc)
			removeAt(perm, pickupLoc)
			insertAt(perm, pos, pair[0])
		}
	}
	fixedFirstRepair(perm, ls.st.CurrentDestinations)
	return perm
}

// fixedFirstRepair moves every vehicle's committed destination to the
// front of the permutation (position 1, right after the depot start).
func fixedFirstRepair(perm []int, currentDestinations []int) {
	n := len(perm)
	for _, dest := range currentDestinations {
		if dest == 0 {
			continue
		}
		loc := -1
		for p := 1; p < n-1; p++ {
			if perm[p] == dest {
				loc = p
			}
		}
		if loc == -1 {
			continue
		}
		el := removeAt(perm, loc)
		insertAt(perm, 1, el)
	}
}

// totalObjective sums the per-vehicle objectives.
func totalObjective(vehicles []model.VehicleSolution) float64 {
	objs := make([]float64, len(vehicles))
	for i, vs := range vehicles {
		objs[i] = vs.Objective
	}
	return floats.Sum(objs)
}

// removeAt removes and returns the element at index i, shifting the tail
// left; the slice keeps its length with the last slot unspecified, so it
// must be paired with insertAt.
func removeAt(s []int, i int) int {
	el := s[i]
	copy(s[i:], s[i+1:])
	return el
}

// insertAt inserts el at index i, shifting the tail right within the
// existing backing array.
func insertAt(s []int, i int, el int) {
	copy(s[i+1:], s[i:len(s)-1])
	s[i] = el
}
