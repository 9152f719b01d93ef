package mqtt

import (
	"fmt"
	"sync"

	"fleetmas/core/events"
)

// MockPublisher records published events for use in tests.
type MockPublisher struct {
	mu       sync.Mutex
	Changes  []events.ChangeEvent
	Auctions []events.AuctionEvent
	Fail     bool
}

// NewMockPublisher creates an empty MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// PublishChange records the event or fails if configured to.
func (m *MockPublisher) PublishChange(ev events.ChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Changes = append(m.Changes, ev)
	return nil
}

// PublishAuction records the event or fails if configured to.
func (m *MockPublisher) PublishAuction(ev events.AuctionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Auctions = append(m.Auctions, ev)
	return nil
}

// Disconnect is a no-op.
func (m *MockPublisher) Disconnect() {}
