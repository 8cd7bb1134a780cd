package timeline

import "sync"

// EventKind identifies an external signal the controller reacts to.
type EventKind int

const (
	EventVisibility EventKind = iota
	EventPointerEnter
	EventPointerLeave
	EventFocusIn
	EventFocusOut
	EventSelect
	EventNext
	EventPrev
)

func (k EventKind) String() string {
	switch k {
	case EventVisibility:
		return "visibility"
	case EventPointerEnter:
		return "pointer-enter"
	case EventPointerLeave:
		return "pointer-leave"
	case EventFocusIn:
		return "focus-in"
	case EventFocusOut:
		return "focus-out"
	case EventSelect:
		return "select"
	case EventNext:
		return "next"
	case EventPrev:
		return "prev"
	default:
		return "unknown"
	}
}

// Event is a single signal from the host view.
// Ratio is meaningful for EventVisibility, Index for EventSelect.
type Event struct {
	Kind  EventKind
	Ratio float64
	Index int
}

// SignalSource delivers host events. Subscribe returns a function that
// detaches the handler; it must be safe to call more than once.
type SignalSource interface {
	Subscribe(handler func(Event)) (cancel func())
}

// Bus is an in-process SignalSource. Publish delivers to a snapshot of
// the subscribers taken without holding the bus lock, so handlers may
// subscribe or cancel freely.
type Bus struct {
	mu       sync.Mutex
	next     int
	handlers map[int]func(Event)
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]func(Event))}
}

func (b *Bus) Subscribe(handler func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.handlers[id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

// Publish delivers ev to every current subscriber.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	handlers := make([]func(Event), 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Subscribers reports how many handlers are attached.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}
