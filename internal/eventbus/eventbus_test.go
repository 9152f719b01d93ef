package eventbus

import (
	"testing"

	"fleetmas/core/events"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	_, ch1 := b.Subscribe(4)
	_, ch2 := b.Subscribe(4)

	b.PublishChange(events.ChangeEvent{VehicleID: "vehicle-0", Kind: events.ParcelAssigned})
	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Change == nil || ev.Change.VehicleID != "vehicle-0" {
				t.Errorf("subscriber %d got %+v", i, ev)
			}
		default:
			t.Errorf("subscriber %d received nothing", i)
		}
	}
}

func TestPublishNeverBlocksOnFullSubscriber(t *testing.T) {
	b := New()
	_, ch := b.Subscribe(1)
	b.PublishAuction(events.AuctionEvent{RequestID: "a"})
	// The buffer is full now; this publish must drop instead of block.
	b.PublishAuction(events.AuctionEvent{RequestID: "b"})

	ev := <-ch
	if ev.Auction.RequestID != "a" {
		t.Errorf("got %s, want a", ev.Auction.RequestID)
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected second event %+v", extra)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	id, ch := b.Subscribe(1)
	b.Unsubscribe(id)
	if _, open := <-ch; open {
		t.Error("channel still open after unsubscribe")
	}
	// Publishing afterwards must not panic.
	b.PublishChange(events.ChangeEvent{})
}

func TestCloseShutsDownEverySubscriber(t *testing.T) {
	b := New()
	_, ch1 := b.Subscribe(1)
	_, ch2 := b.Subscribe(1)
	b.Close()
	if _, open := <-ch1; open {
		t.Error("ch1 open after close")
	}
	if _, open := <-ch2; open {
		t.Error("ch2 open after close")
	}
	b.Close() // idempotent
	b.PublishChange(events.ChangeEvent{})
}
