// Package eventbus provides a small in-process fan-out bus for fleet
// change and auction events. Publishing never blocks: subscribers with
// full channels drop the event.
package eventbus

import (
	"sync"

	"fleetmas/core/events"
)

// Event is the union of everything flowing through the bus.
type Event struct {
	Change  *events.ChangeEvent
	Auction *events.AuctionEvent
}

// Bus distributes events to an arbitrary number of subscribers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber with the given channel buffer
// size and returns its id together with the receive channel.
func (b *Bus) Subscribe(buffer int) (int, <-chan Event) {
	if buffer <= 0 {
		buffer = 16
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers the event to all current subscribers without
// blocking. Subscribers that cannot keep up miss the event.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// PublishChange is a convenience wrapper for change events.
func (b *Bus) PublishChange(ev events.ChangeEvent) {
	b.Publish(Event{Change: &ev})
}

// PublishAuction is a convenience wrapper for auction events.
func (b *Bus) PublishAuction(ev events.AuctionEvent) {
	b.Publish(Event{Auction: &ev})
}

// Close shuts the bus down and closes every subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
