package eventbus

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/evgensan-b/weblarek/pkg/common/domain"
)

// AllEvents subscribes a handler to every dispatched event.
const AllEvents = "*"

// Bus is a synchronous in-process publish/subscribe broker. Handlers run on
// the dispatching goroutine, in registration order. Dispatch from inside a
// handler recurses directly, so inner events finish before the outer
// Dispatch returns.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[string][]subscriber
}

type subscriber struct {
	id      int
	handler domain.Handler
}

func New() *Bus {
	return &Bus{handlers: make(map[string][]subscriber)}
}

func (b *Bus) Subscribe(eventType string, handler domain.Handler) domain.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: b.nextID, handler: handler})

	return &subscription{bus: b, eventType: eventType, id: b.nextID}
}

// Dispatch invokes every handler subscribed to the event's type, then the
// wildcard handlers. No subscribers is a no-op, never an error. A panicking
// handler does not stop the rest.
func (b *Bus) Dispatch(event domain.Event) error {
	b.mu.Lock()
	subscribers := make([]subscriber, 0, len(b.handlers[event.Type()])+len(b.handlers[AllEvents]))
	subscribers = append(subscribers, b.handlers[event.Type()]...)
	subscribers = append(subscribers, b.handlers[AllEvents]...)
	b.mu.Unlock()

	for _, s := range subscribers {
		b.invoke(s.handler, event)
	}
	return nil
}

func (b *Bus) invoke(handler domain.Handler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"event": event.Type(), "panic": r}).Error("event handler panicked")
		}
	}()
	handler(event)
}

func (b *Bus) unsubscribe(eventType string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers := b.handlers[eventType]
	for i, s := range subscribers {
		if s.id == id {
			b.handlers[eventType] = append(subscribers[:i], subscribers[i+1:]...)
			return
		}
	}
}

type subscription struct {
	bus       *Bus
	eventType string
	id        int
}

func (s *subscription) Unsubscribe() {
	s.bus.unsubscribe(s.eventType, s.id)
}
