package domain

// Event is a named message flowing through the event bus. Type returns the
// wire name the presentation layer subscribes to.
type Event interface{ Type() string }

// Handler receives events of the type it was subscribed to.
type Handler func(event Event)

// Subscription detaches a handler registered via EventSubscriber.
type Subscription interface{ Unsubscribe() }

type EventDispatcher interface {
	Dispatch(event Event) error
}

type EventSubscriber interface {
	Subscribe(eventType string, handler Handler) Subscription
}

// EventBroker is what the application layer gets injected: it both emits
// state-change events and listens for user intents.
type EventBroker interface {
	EventDispatcher
	EventSubscriber
}
