package installer

import "sync"

// EventKind distinguishes the three lifecycle signals.
type EventKind int

const (
	// EventStatus is an informational progress line.
	EventStatus EventKind = iota
	// EventError is the terminal failure signal.
	EventError
	// EventEnd is the terminal success signal.
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventStatus:
		return "status"
	case EventError:
		return "error"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is one lifecycle signal. Message is set on status events, Err on
// error events.
type Event struct {
	Kind    EventKind
	Message string
	Err     error
}

// Terminal reports whether the event closes an Install call.
func (e Event) Terminal() bool {
	return e.Kind == EventError || e.Kind == EventEnd
}

// Sink receives events synchronously on the installing goroutine.
type Sink func(Event)

// Collector records events. It is safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Sink returns a Sink appending to the collector.
func (c *Collector) Sink() Sink {
	return func(e Event) {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.events = append(c.events, e)
	}
}

// Events returns a copy of everything recorded so far.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Event(nil), c.events...)
}

// Statuses returns the status messages in order.
func (c *Collector) Statuses() []string {
	var out []string

	for _, e := range c.Events() {
		if e.Kind == EventStatus {
			out = append(out, e.Message)
		}
	}

	return out
}

// Terminals returns the terminal events in order.
func (c *Collector) Terminals() []Event {
	var out []Event

	for _, e := range c.Events() {
		if e.Terminal() {
			out = append(out, e)
		}
	}

	return out
}
