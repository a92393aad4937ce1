package events

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// anyType marks a subscription that receives every event type
const anyType EventType = ""

type subscription struct {
	eventType EventType
	handler   EventHandler
}

// DefaultEventBus queues published events and fans them out from one
// dispatcher goroutine. Handlers run concurrently, in subscription order of
// launch, and a panicking handler only loses its own event.
type DefaultEventBus struct {
	mu     sync.RWMutex
	subs   map[SubscriptionID]subscription
	nextID SubscriptionID

	queue    chan Event
	stopCh   chan struct{}
	stopOnce sync.Once

	dispatcher sync.WaitGroup
	handlers   sync.WaitGroup

	dropped  atomic.Uint64
	panicked atomic.Uint64
}

// NewEventBus creates a bus whose queue holds bufferSize events
func NewEventBus(bufferSize int) *DefaultEventBus {
	bus := &DefaultEventBus{
		subs:   make(map[SubscriptionID]subscription),
		queue:  make(chan Event, bufferSize),
		stopCh: make(chan struct{}),
	}

	bus.dispatcher.Add(1)
	go bus.run()
	return bus
}

// Subscribe registers handler for one event type
func (b *DefaultEventBus) Subscribe(eventType EventType, handler EventHandler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[b.nextID] = subscription{eventType: eventType, handler: handler}
	return b.nextID
}

// SubscribeAll registers handler for every event type
func (b *DefaultEventBus) SubscribeAll(handler EventHandler) SubscriptionID {
	return b.Subscribe(anyType, handler)
}

// Unsubscribe removes a subscription; unknown ids are ignored
func (b *DefaultEventBus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// Publish queues an event, blocking while the queue is full.
// Events published after Stop are counted as dropped.
func (b *DefaultEventBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case <-b.stopCh:
		b.dropped.Add(1)
		return
	default:
	}

	select {
	case b.queue <- event:
	case <-b.stopCh:
		b.dropped.Add(1)
	}
}

// Stop delivers what is still queued, waits for running handlers and
// rejects further events. It is safe to call more than once.
func (b *DefaultEventBus) Stop() {
	b.stopOnce.Do(func() { close(b.stopCh) })
	b.dispatcher.Wait()
	b.handlers.Wait()
}

func (b *DefaultEventBus) run() {
	defer b.dispatcher.Done()

	for {
		select {
		case event := <-b.queue:
			b.dispatch(event)
		case <-b.stopCh:
			for {
				select {
				case event := <-b.queue:
					b.dispatch(event)
				default:
					return
				}
			}
		}
	}
}

// matching returns the handlers subscribed to t, oldest subscription first
func (b *DefaultEventBus) matching(t EventType) []EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]SubscriptionID, 0, len(b.subs))
	for id, sub := range b.subs {
		if sub.eventType == t || sub.eventType == anyType {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	handlers := make([]EventHandler, len(ids))
	for i, id := range ids {
		handlers[i] = b.subs[id].handler
	}
	return handlers
}

func (b *DefaultEventBus) dispatch(event Event) {
	for _, h := range b.matching(event.Type) {
		b.handlers.Add(1)
		go func(h EventHandler) {
			defer b.handlers.Done()
			defer func() {
				if recover() != nil {
					b.panicked.Add(1)
				}
			}()
			h(event)
		}(h)
	}
}

// SubscriberCount returns how many handlers would receive an event of type t
func (b *DefaultEventBus) SubscriberCount(t EventType) int {
	return len(b.matching(t))
}

// Stats returns the number of events dropped after Stop and handler panics
func (b *DefaultEventBus) Stats() (dropped, panicked uint64) {
	return b.dropped.Load(), b.panicked.Load()
}
