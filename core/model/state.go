package model

import "fmt"

// GlobalState is a point-in-time snapshot of the whole problem, handed
// to the solvers by the host. Stops are indexed 0..n-1 where 0 and n-1
// are the virtual depot start and end sentinels; every other index is a
// pickup or a delivery of some request.
type GlobalState struct {
	// TravelTime[i][j] is the travel time from stop i to stop j,
	// including the depot rows and columns.
	TravelTime [][]int64

	// ReleaseDates, DueDates and ServiceTimes are indexed by stop. The
	// depot sentinels carry zero values.
	ReleaseDates []int64
	DueDates     []int64
	ServiceTimes []int64

	// ServicePairs lists {pickup, delivery} stop pairs. A stop that
	// appears in no pair is a standalone delivery whose pickup already
	// happened (the request is in some vehicle's cargo).
	ServicePairs [][2]int

	// VehicleTravelTimes[v][j] is the travel time from vehicle v's
	// current position to stop j.
	VehicleTravelTimes [][]int64

	// Inventories lists {vehicle, stop} pairs: the request delivered at
	// stop is in the cargo of the vehicle and only its delivery remains
	// schedulable, on that vehicle.
	Inventories [][2]int

	// RemainingServiceTimes[v] is the absolute time at which vehicle v
	// finishes its current service and can depart; at most Time when the
	// vehicle is idle. It bounds the departure of any new route.
	RemainingServiceTimes []int64

	// CurrentDestinations[v] is the stop vehicle v is already committed
	// to, 0 when it has none. A committed destination must be the first
	// stop of any new route for that vehicle.
	CurrentDestinations []int

	// CurrentRoutes[v] is vehicle v's committed route as stop indices
	// without depot sentinels; nil when the vehicle has no route yet.
	CurrentRoutes [][]int

	// Time is the current simulated time.
	Time int64
}

// NumStops returns the number of stops including both depot sentinels.
func (s *GlobalState) NumStops() int { return len(s.ReleaseDates) }

// NumVehicles returns the fleet size.
func (s *GlobalState) NumVehicles() int { return len(s.VehicleTravelTimes) }

// DepotEnd returns the index of the virtual end depot.
func (s *GlobalState) DepotEnd() int { return s.NumStops() - 1 }

// Validate checks the structural consistency of the snapshot.
func (s *GlobalState) Validate() error {
	n := s.NumStops()
	v := s.NumVehicles()
	if n < 2 {
		return fmt.Errorf("snapshot needs at least the two depot sentinels, got %d stops", n)
	}
	if len(s.TravelTime) != n {
		return fmt.Errorf("travel time matrix has %d rows, want %d", len(s.TravelTime), n)
	}
	for i, row := range s.TravelTime {
		if len(row) != n {
			return fmt.Errorf("travel time row %d has %d columns, want %d", i, len(row), n)
		}
	}
	if len(s.DueDates) != n || len(s.ServiceTimes) != n {
		return fmt.Errorf("due dates and service times must cover all %d stops", n)
	}
	if len(s.RemainingServiceTimes) != v || len(s.CurrentDestinations) != v {
		return fmt.Errorf("per-vehicle arrays must cover all %d vehicles", v)
	}
	if s.CurrentRoutes != nil && len(s.CurrentRoutes) != v {
		return fmt.Errorf("current routes cover %d vehicles, want %d", len(s.CurrentRoutes), v)
	}
	for _, row := range s.VehicleTravelTimes {
		if len(row) != n {
			return fmt.Errorf("vehicle travel time rows must have %d columns", n)
		}
	}
	for _, p := range s.ServicePairs {
		if p[0] <= 0 || p[0] >= n-1 || p[1] <= 0 || p[1] >= n-1 {
			return fmt.Errorf("service pair %v references a depot sentinel", p)
		}
	}
	for _, inv := range s.Inventories {
		if inv[0] < 0 || inv[0] >= v {
			return fmt.Errorf("inventory %v references unknown vehicle", inv)
		}
		if inv[1] <= 0 || inv[1] >= n-1 {
			return fmt.Errorf("inventory %v references a depot sentinel", inv)
		}
	}
	for veh, d := range s.CurrentDestinations {
		if d < 0 || d >= n-1 {
			return fmt.Errorf("vehicle %d has invalid destination %d", veh, d)
		}
	}
	return nil
}

// PickupToDelivery builds a stop-indexed lookup of delivery partners.
// Stops without a partner map to -1.
func (s *GlobalState) PickupToDelivery() []int {
	m := make([]int, s.NumStops())
	for i := range m {
		m[i] = -1
	}
	for _, p := range s.ServicePairs {
		m[p[0]] = p[1]
	}
	return m
}

// DeliveryToPickup builds a stop-indexed lookup of pickup partners.
// Stops without a partner map to -1.
func (s *GlobalState) DeliveryToPickup() []int {
	m := make([]int, s.NumStops())
	for i := range m {
		m[i] = -1
	}
	for _, p := range s.ServicePairs {
		m[p[1]] = p[0]
	}
	return m
}

// VehicleSolution is one vehicle's routed schedule. Route contains stop
// indices bounded by the two depot sentinels; ArrivalTimes is aligned
// with Route.
type VehicleSolution struct {
	Route        []int
	ArrivalTimes []int64
	Objective    float64
}

// Clone returns a deep copy of the solution.
func (vs VehicleSolution) Clone() VehicleSolution {
	cp := VehicleSolution{
		Route:        append([]int(nil), vs.Route...),
		ArrivalTimes: append([]int64(nil), vs.ArrivalTimes...),
		Objective:    vs.Objective,
	}
	return cp
}

// Solution is a complete joint assignment produced by a solver.
type Solution struct {
	// Vehicles holds one routed schedule per vehicle.
	Vehicles []VehicleSolution
	// Assignment maps every stop index to the vehicle serving it; depot
	// sentinels map to -1.
	Assignment []int
	// Objective is the sum of the per-vehicle objectives.
	Objective float64
}

// Clone returns a deep copy of the solution.
func (s Solution) Clone() Solution {
	cp := Solution{
		Vehicles:   make([]VehicleSolution, len(s.Vehicles)),
		Assignment: append([]int(nil), s.Assignment...),
		Objective:  s.Objective,
	}
	for i, vs := range s.Vehicles {
		cp.Vehicles[i] = vs.Clone()
	}
	return cp
}
