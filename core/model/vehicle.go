package model

// Vehicle describes one vehicle of the fleet at snapshot time.
type Vehicle struct {
	ID       string
	Position Point

	// Destination is the stop index the vehicle is already committed to,
	// 0 when the vehicle is free to be rerouted anywhere. Index 0 is the
	// depot sentinel and can never be a committed destination, so the
	// zero value safely encodes "no destination".
	Destination int

	// RemainingServiceTime is the absolute time at which the vehicle
	// finishes the service it is currently performing, at most the
	// current time when it is idle. Same clock as
	// GlobalState.RemainingServiceTimes.
	RemainingServiceTime int64

	// Cargo lists the stop indices of deliveries the vehicle carries.
	Cargo []int
}

// HasDestination reports whether the vehicle is committed to a next stop.
func (v Vehicle) HasDestination() bool { return v.Destination != 0 }
