package pilot_capture

import "sync"

// Logger receives capture events. Implementations must be safe for
// concurrent use; every worker slot logs from its own goroutine.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards all events.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}

// RingLogger keeps the most recent events in memory.
type RingLogger struct {
	mu     sync.Mutex
	events []Event
	next   int
	filled bool
}

func NewRingLogger(size int) *RingLogger {
	if size <= 0 {
		size = 64
	}
	return &RingLogger{events: make([]Event, size)}
}

func (r *RingLogger) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[r.next] = event
	r.next = (r.next + 1) % len(r.events)
	if r.next == 0 {
		r.filled = true
	}
}

// Recent returns the held events, oldest first.
func (r *RingLogger) Recent() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.filled {
		out := make([]Event, r.next)
		copy(out, r.events[:r.next])
		return out
	}
	out := make([]Event, 0, len(r.events))
	out = append(out, r.events[r.next:]...)
	out = append(out, r.events[:r.next]...)
	return out
}

var _ Logger = (*RingLogger)(nil)
