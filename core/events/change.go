package events

import "fleetmas/core/model"

// ChangeKind distinguishes assigned-set mutations.
type ChangeKind int

const (
	// ParcelAssigned means a request was added to a bidder's assigned set.
	ParcelAssigned ChangeKind = iota
	// ParcelReleased means a request was removed from the assigned set.
	ParcelReleased
	// ParcelDone means a claimed request's committed leg was serviced and
	// the request retired from the assigned set.
	ParcelDone
)

func (k ChangeKind) String() string {
	switch k {
	case ParcelAssigned:
		return "assigned"
	case ParcelReleased:
		return "released"
	case ParcelDone:
		return "done"
	}
	return "unknown"
}

// ChangeEvent is emitted on any mutation of a bidder's assigned set. The
// host's route planner consumes it to trigger replanning.
type ChangeEvent struct {
	VehicleID string
	Request   *model.Request
	Kind      ChangeKind
}
