package model

// ParcelState is the externally observed lifecycle state of a request.
// Transitions are owned by the host; the core only reads the state when
// validating claim preconditions.
type ParcelState int

const (
	// StateAnnounced means the request is known but not yet open for service.
	StateAnnounced ParcelState = iota
	// StateAvailable means the request can be picked up.
	StateAvailable
	// StatePickingUp means a vehicle is currently servicing the pickup.
	StatePickingUp
	// StateInCargo means the request is loaded in a vehicle.
	StateInCargo
	// StateDelivering means a vehicle is currently servicing the delivery.
	StateDelivering
	// StateDelivered is the terminal state.
	StateDelivered
)

func (s ParcelState) String() string {
	switch s {
	case StateAnnounced:
		return "announced"
	case StateAvailable:
		return "available"
	case StatePickingUp:
		return "picking_up"
	case StateInCargo:
		return "in_cargo"
	case StateDelivering:
		return "delivering"
	case StateDelivered:
		return "delivered"
	}
	return "unknown"
}

// IsPickedUp reports whether the pickup leg has completed.
func (s ParcelState) IsPickedUp() bool { return s >= StateInCargo }

// Claimable reports whether a bidder may claim or unclaim a request in
// this state.
func (s ParcelState) Claimable() bool {
	return s == StateAvailable || s == StateAnnounced
}

// Point is a location in the plane. The core never computes distances
// itself; travel times always come from the snapshot matrix. Points are
// carried so hosts and scenario generators can derive that matrix.
type Point struct {
	X float64
	Y float64
}

// TimeWindow is a half-open service window [Start, End) in simulation
// time units.
type TimeWindow struct {
	Start int64
	End   int64
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t int64) bool { return t >= w.Start && t < w.End }

// Request is a transportation task with a pickup and a delivery leg.
// PickupIndex and DeliveryIndex locate the two legs in the snapshot the
// request belongs to; they are assigned by the host when the snapshot is
// built.
type Request struct {
	ID               string
	PickupLocation   Point
	DeliveryLocation Point
	PickupWindow     TimeWindow
	DeliveryWindow   TimeWindow
	ServiceDuration  int64
	ReleaseDate      int64
	DueDate          int64

	PickupIndex   int
	DeliveryIndex int
}
