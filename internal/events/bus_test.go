package events

import (
	"sync"
	"testing"
	"time"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewEventBus(16)

	var mu sync.Mutex
	var got []Event
	bus.Subscribe(EventTypeTargetFound, func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
	})

	bus.Publish(NewTargetFoundEvent("run-1", 1000, 540, 0.2))
	bus.Publish(NewTargetLostEvent("run-1", 0.05)) // no subscriber
	bus.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(got))
	}
	if got[0].Data["x"] != 1000 || got[0].Data["run_id"] != "run-1" {
		t.Errorf("Unexpected event data: %v", got[0].Data)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewEventBus(4)
	defer bus.Stop()

	id := bus.Subscribe(EventTypeCursorMoved, func(Event) {})
	bus.Subscribe(EventTypeCursorMoved, func(Event) {})
	if n := bus.SubscriberCount(EventTypeCursorMoved); n != 2 {
		t.Fatalf("Expected 2 subscribers, got %d", n)
	}

	bus.Unsubscribe(id)
	if n := bus.SubscriberCount(EventTypeCursorMoved); n != 1 {
		t.Errorf("Expected 1 subscriber after unsubscribe, got %d", n)
	}
}

func TestBusSurvivesHandlerPanic(t *testing.T) {
	bus := NewEventBus(4)

	done := make(chan struct{})
	bus.Subscribe(EventTypeScanFailed, func(Event) { panic("handler bug") })
	bus.Subscribe(EventTypeScanStopped, func(Event) { close(done) })

	bus.Publish(Event{Type: EventTypeScanFailed})
	bus.Publish(NewScanStoppedEvent("run-2", 3))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Bus stopped dispatching after a handler panic")
	}
	bus.Stop()

	// publishing after stop must not block
	bus.Publish(NewScanStartedEvent("late"))

	dropped, panicked := bus.Stats()
	if dropped != 1 || panicked != 1 {
		t.Errorf("Expected 1 dropped and 1 panicked, got %d and %d", dropped, panicked)
	}
}

func TestBusSubscribeAll(t *testing.T) {
	bus := NewEventBus(8)

	var mu sync.Mutex
	var types []EventType
	id := bus.SubscribeAll(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		types = append(types, e.Type)
	})
	bus.Subscribe(EventTypeTargetLost, func(Event) {})

	if n := bus.SubscriberCount(EventTypeTargetLost); n != 2 {
		t.Errorf("Expected 2 handlers for target.lost, got %d", n)
	}
	if n := bus.SubscriberCount(EventTypeScanStarted); n != 1 {
		t.Errorf("Expected 1 handler for scan.started, got %d", n)
	}

	bus.Publish(NewScanStartedEvent("run-1"))
	bus.Publish(NewTargetLostEvent("run-1", 0))
	bus.Stop()

	mu.Lock()
	if len(types) != 2 {
		t.Errorf("Expected catch-all handler to see 2 events, got %v", types)
	}
	mu.Unlock()

	bus.Unsubscribe(id)
	if n := bus.SubscriberCount(EventTypeScanStarted); n != 0 {
		t.Errorf("Expected no handlers after unsubscribe, got %d", n)
	}
}
