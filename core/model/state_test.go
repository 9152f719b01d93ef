package model

import "testing"

func validState() *GlobalState {
	n := 4
	tt := make([][]int64, n)
	for i := range tt {
		tt[i] = make([]int64, n)
	}
	return &GlobalState{
		TravelTime:            tt,
		ReleaseDates:          make([]int64, n),
		DueDates:              make([]int64, n),
		ServiceTimes:          make([]int64, n),
		ServicePairs:          [][2]int{{1, 2}},
		VehicleTravelTimes:    [][]int64{make([]int64, n)},
		RemainingServiceTimes: []int64{0},
		CurrentDestinations:   []int{0},
	}
}

func TestValidateAcceptsConsistentSnapshot(t *testing.T) {
	if err := validState().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateRejectsBrokenSnapshots(t *testing.T) {
	cases := map[string]func(*GlobalState){
		"short matrix":        func(s *GlobalState) { s.TravelTime = s.TravelTime[:2] },
		"ragged matrix":       func(s *GlobalState) { s.TravelTime[1] = s.TravelTime[1][:1] },
		"short due dates":     func(s *GlobalState) { s.DueDates = s.DueDates[:1] },
		"pair hits sentinel":  func(s *GlobalState) { s.ServicePairs = [][2]int{{0, 2}} },
		"inventory vehicle":   func(s *GlobalState) { s.Inventories = [][2]int{{4, 1}} },
		"inventory sentinel":  func(s *GlobalState) { s.Inventories = [][2]int{{0, 3}} },
		"invalid destination": func(s *GlobalState) { s.CurrentDestinations[0] = 3 },
		"route count":         func(s *GlobalState) { s.CurrentRoutes = make([][]int, 2) },
	}
	for name, corrupt := range cases {
		st := validState()
		corrupt(st)
		if err := st.Validate(); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestPairLookups(t *testing.T) {
	st := validState()
	p2d := st.PickupToDelivery()
	d2p := st.DeliveryToPickup()
	if p2d[1] != 2 || d2p[2] != 1 {
		t.Errorf("lookups broken: p2d[1]=%d d2p[2]=%d", p2d[1], d2p[2])
	}
	if p2d[2] != -1 || d2p[1] != -1 || p2d[0] != -1 {
		t.Error("stops without partners must map to -1")
	}
}

func TestParcelStateLifecycle(t *testing.T) {
	for _, st := range []ParcelState{StateAnnounced, StateAvailable} {
		if !st.Claimable() {
			t.Errorf("%s should be claimable", st)
		}
		if st.IsPickedUp() {
			t.Errorf("%s should not count as picked up", st)
		}
	}
	for _, st := range []ParcelState{StatePickingUp, StateInCargo, StateDelivering, StateDelivered} {
		if st.Claimable() {
			t.Errorf("%s should not be claimable", st)
		}
	}
	if !StateInCargo.IsPickedUp() || !StateDelivered.IsPickedUp() {
		t.Error("cargo states must count as picked up")
	}
}

func TestTimeWindowContains(t *testing.T) {
	w := TimeWindow{Start: 10, End: 20}
	if w.Contains(9) || !w.Contains(10) || !w.Contains(19) || w.Contains(20) {
		t.Error("window must be half-open [start, end)")
	}
}

func TestVehicleHasDestination(t *testing.T) {
	v := Vehicle{ID: "vehicle-0"}
	if v.HasDestination() {
		t.Error("zero destination must mean no commitment")
	}
	v.Destination = 3
	if !v.HasDestination() {
		t.Error("destination 3 not reported")
	}
}

func TestSolutionCloneIsDeep(t *testing.T) {
	sol := Solution{
		Vehicles: []VehicleSolution{{
			Route:        []int{0, 1, 2, 3},
			ArrivalTimes: []int64{0, 1, 2, 3},
			Objective:    4,
		}},
		Assignment: []int{-1, 0, 0, -1},
		Objective:  4,
	}
	cp := sol.Clone()
	cp.Vehicles[0].Route[1] = 9
	cp.Assignment[1] = 9
	if sol.Vehicles[0].Route[1] != 1 || sol.Assignment[1] != 0 {
		t.Error("clone shares memory with the original")
	}
}
