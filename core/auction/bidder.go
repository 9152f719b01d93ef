package auction

import (
	"fmt"

	"fleetmas/core/events"
	"fleetmas/core/logger"
	"fleetmas/core/model"
)

// StateReader reports the externally observed lifecycle state of a
// request. The host owns all state transitions; bidders only read them
// when validating claim preconditions.
type StateReader interface {
	ParcelState(r *model.Request) model.ParcelState
}

// ChangeListener observes mutations of a bidder's assigned set.
type ChangeListener func(events.ChangeEvent)

// Bidder is a per-vehicle agent strategy participating in auctions. It
// holds the requests assigned to its vehicle and at most one claimed
// request, the vehicle's committed next objective.
type Bidder interface {
	// ID identifies the vehicle this bidder operates for.
	ID() string

	// BidFor computes the bid value for a request, lower is cheaper. It
	// is side-effect free; it is called at most once per request and the
	// caller owns any caching.
	BidFor(r *model.Request, now int64) float64

	// ReceiveParcel adds a won request to the assigned set.
	ReceiveParcel(r *model.Request)

	// ReleaseParcel removes a request from the assigned set.
	ReleaseParcel(r *model.Request) error

	// Claim reserves an assigned request as the single next objective.
	Claim(r *model.Request) error

	// Unclaim drops the reservation again.
	Unclaim(r *model.Request) error

	// Done retires every claimed request once its committed leg has been
	// serviced.
	Done()

	AssignedParcels() []*model.Request
	ClaimedParcels() []*model.Request

	// AddChangeListener registers a callback fired on every assigned-set
	// mutation.
	AddChangeListener(ChangeListener)
}

// BidderState carries the assigned/claimed bookkeeping shared by every
// bidder strategy. Invariant: claimed is a subset of assigned and holds
// at most one request, because a vehicle can physically commit to only
// one next destination at a time. All failures are all-or-nothing.
type BidderState struct {
	id        string
	states    StateReader
	assigned  []*model.Request
	claimed   []*model.Request
	listeners []ChangeListener
	log       logger.Logger
}

// NewBidderState creates the shared bookkeeping for one vehicle.
func NewBidderState(id string, states StateReader, log logger.Logger) *BidderState {
	if log == nil {
		log = logger.Nop{}
	}
	return &BidderState{id: id, states: states, log: log}
}

// ID returns the vehicle identity.
func (b *BidderState) ID() string { return b.id }

// ReceiveParcel adds the request to the assigned set and notifies
// listeners.
func (b *BidderState) ReceiveParcel(r *model.Request) {
	b.log.Debugf("bidder %s receives %s", b.id, r.ID)
	b.assigned = append(b.assigned, r)
	b.notify(events.ChangeEvent{VehicleID: b.id, Request: r, Kind: events.ParcelAssigned})
}

// ReleaseParcel removes the request from the assigned set.
func (b *BidderState) ReleaseParcel(r *model.Request) error {
	i := indexOf(b.assigned, r)
	if i < 0 {
		return fmt.Errorf("%w: %s is not assigned to %s", ErrInvalidRelease, r.ID, b.id)
	}
	b.assigned = append(b.assigned[:i], b.assigned[i+1:]...)
	b.notify(events.ChangeEvent{VehicleID: b.id, Request: r, Kind: events.ParcelReleased})
	return nil
}

// Claim reserves the request as the bidder's next objective. The
// precondition order is fixed so identical malformed inputs always fail
// for the same reason: not already claimed, assigned, claimable state,
// no other claim outstanding.
func (b *BidderState) Claim(r *model.Request) error {
	if indexOf(b.claimed, r) >= 0 {
		return fmt.Errorf("%w: %s is already claimed", ErrInvalidClaim, r.ID)
	}
	if indexOf(b.assigned, r) < 0 {
		return fmt.Errorf("%w: %s is not assigned to %s", ErrInvalidClaim, r.ID, b.id)
	}
	if st := b.states.ParcelState(r); !st.Claimable() {
		return fmt.Errorf("%w: %s is %s", ErrInvalidClaim, r.ID, st)
	}
	if len(b.claimed) != 0 {
		return fmt.Errorf("%w: %s already holds a claim", ErrInvalidClaim, b.id)
	}
	b.claimed = append(b.claimed, r)
	b.log.Debugf("bidder %s claims %s", b.id, r.ID)
	return nil
}

// Unclaim drops a reservation made by Claim.
func (b *BidderState) Unclaim(r *model.Request) error {
	i := indexOf(b.claimed, r)
	if i < 0 {
		return fmt.Errorf("%w: %s is not claimed", ErrInvalidClaim, r.ID)
	}
	if st := b.states.ParcelState(r); !st.Claimable() {
		return fmt.Errorf("%w: %s is %s", ErrInvalidClaim, r.ID, st)
	}
	b.claimed = append(b.claimed[:i], b.claimed[i+1:]...)
	b.log.Debugf("bidder %s unclaims %s", b.id, r.ID)
	return nil
}

// Done retires every claimed request from the assigned set and clears
// the claim, once the claim has been fully serviced.
func (b *BidderState) Done() {
	for _, r := range b.claimed {
		if i := indexOf(b.assigned, r); i >= 0 {
			b.assigned = append(b.assigned[:i], b.assigned[i+1:]...)
			b.notify(events.ChangeEvent{VehicleID: b.id, Request: r, Kind: events.ParcelDone})
		}
	}
	b.claimed = b.claimed[:0]
}

// AssignedParcels returns a copy of the assigned set.
func (b *BidderState) AssignedParcels() []*model.Request {
	return append([]*model.Request(nil), b.assigned...)
}

// ClaimedParcels returns a copy of the claimed set.
func (b *BidderState) ClaimedParcels() []*model.Request {
	return append([]*model.Request(nil), b.claimed...)
}

// AddChangeListener registers a callback for assigned-set mutations.
func (b *BidderState) AddChangeListener(l ChangeListener) {
	b.listeners = append(b.listeners, l)
}

func (b *BidderState) notify(ev events.ChangeEvent) {
	for _, l := range b.listeners {
		l(ev)
	}
}

func indexOf(set []*model.Request, r *model.Request) int {
	for i, p := range set {
		if p.ID == r.ID {
			return i
		}
	}
	return -1
}
