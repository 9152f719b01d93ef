package solver

import (
	"reflect"
	"testing"

	"fleetmas/core/model"
)

func benchmarkState(vehicles int) *model.GlobalState {
	st := lineState([]int64{0, 30, 60, -20, -50, 10, 80, 45, -35, 0}, vehicles)
	st.ServicePairs = [][2]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}}
	st.DueDates = []int64{0, 100, 200, 120, 260, 90, 300, 150, 280, 0}
	return st
}

func TestLateAcceptanceSameSeedSameResult(t *testing.T) {
	run := func() model.Solution {
		s := NewLateAcceptanceSolver(50, 2000, DefaultWeights(), nil)
		sol, err := s.Solve(benchmarkState(2), 7)
		if err != nil {
			t.Fatal(err)
		}
		return sol
	}
	a, b := run(), run()
	if a.Objective != b.Objective {
		t.Fatalf("objectives diverged: %f vs %f", a.Objective, b.Objective)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical seeds produced different solutions")
	}
}

func TestLateAcceptanceNeverWorseThanInitial(t *testing.T) {
	initial, err := NewLateAcceptanceSolver(50, 0, DefaultWeights(), nil).Solve(benchmarkState(2), 7)
	if err != nil {
		t.Fatal(err)
	}
	improved, err := NewLateAcceptanceSolver(50, 5000, DefaultWeights(), nil).Solve(benchmarkState(2), 7)
	if err != nil {
		t.Fatal(err)
	}
	if improved.Objective > initial.Objective {
		t.Errorf("search worsened the objective: %f > %f", improved.Objective, initial.Objective)
	}
}

func TestLateAcceptancePairsShareVehicleInOrder(t *testing.T) {
	st := benchmarkState(3)
	sol, err := NewLateAcceptanceSolver(50, 2000, DefaultWeights(), nil).Solve(st, 13)
	if err != nil {
		t.Fatal(err)
	}
	for _, pair := range st.ServicePairs {
		if sol.Assignment[pair[0]] != sol.Assignment[pair[1]] {
			t.Errorf("pair %v split across vehicles", pair)
		}
	}
	counts := map[int]int{}
	for _, vs := range sol.Vehicles {
		pos := map[int]int{}
		for i, stop := range vs.Route {
			if stop != 0 && stop != st.DepotEnd() {
				pos[stop] = i
				counts[stop]++
			}
		}
		for _, pair := range st.ServicePairs {
			pi, pOK := pos[pair[0]]
			di, dOK := pos[pair[1]]
			if pOK && dOK && pi >= di {
				t.Errorf("delivery before pickup in route %v", vs.Route)
			}
		}
	}
	for i := 1; i < st.DepotEnd(); i++ {
		if counts[i] != 1 {
			t.Errorf("stop %d routed %d times", i, counts[i])
		}
	}
}

func TestLateAcceptanceKeepsCommitments(t *testing.T) {
	st := benchmarkState(2)
	// Stops 5 and 6 become standalone deliveries; 5 is already loaded on
	// vehicle 1.
	st.ServicePairs = [][2]int{{1, 2}, {3, 4}, {7, 8}}
	st.CurrentDestinations[0] = 1
	st.Inventories = [][2]int{{1, 5}}
	sol, err := NewLateAcceptanceSolver(50, 2000, DefaultWeights(), nil).Solve(st, 3)
	if err != nil {
		t.Fatal(err)
	}
	if sol.Assignment[1] != 0 {
		t.Errorf("committed destination reassigned to vehicle %d", sol.Assignment[1])
	}
	route := sol.Vehicles[0].Route
	if len(route) < 2 || route[1] != 1 {
		t.Errorf("committed destination not first in route %v", route)
	}
	if sol.Assignment[5] != 1 {
		t.Errorf("cargo stop moved off its vehicle: %d", sol.Assignment[5])
	}
}

func TestLateAcceptanceObjectiveMatchesRoutes(t *testing.T) {
	sol, err := NewLateAcceptanceSolver(50, 1000, DefaultWeights(), nil).Solve(benchmarkState(2), 21)
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, vs := range sol.Vehicles {
		sum += vs.Objective
	}
	if sol.Objective != sum {
		t.Errorf("objective %f does not match per-vehicle sum %f", sol.Objective, sum)
	}
}

func TestLateAcceptanceValidatesSnapshot(t *testing.T) {
	st := benchmarkState(1)
	st.DueDates = st.DueDates[:3]
	if _, err := NewLateAcceptanceSolver(0, -1, DefaultWeights(), nil).Solve(st, 1); err == nil {
		t.Error("expected a validation error")
	}
}
