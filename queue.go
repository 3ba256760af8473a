package grove

import "sync"

// EventQueue is a double-buffered FIFO. Producers on any goroutine append to
// the incoming buffer; Dispatch swaps the buffers under the lock and drains
// the other one without holding it, so producers never wait on handlers.
//
// The handler set is only touched from the goroutine that calls Dispatch.
type EventQueue struct {
	mu       sync.Mutex
	incoming []Event
	draining []Event

	handlers    map[EventType][]*Handler
	resolve     func(NodeID) (*Node, bool)
	sink        EventSink
	dispatching bool
}

// NewEventQueue creates a queue whose handlers are delivered only while
// resolve reports their owner as live.
func NewEventQueue(resolve func(NodeID) (*Node, bool)) *EventQueue {
	return &EventQueue{
		handlers: make(map[EventType][]*Handler),
		resolve:  resolve,
	}
}

// SetSink forwards every dispatched event to sink after its handlers ran.
func (q *EventQueue) SetSink(sink EventSink) { q.sink = sink }

// Enqueue appends ev to the incoming buffer. Safe for concurrent use.
func (q *EventQueue) Enqueue(ev Event) {
	q.mu.Lock()
	q.incoming = append(q.incoming, ev)
	q.mu.Unlock()
}

// Len returns the number of events waiting for the next Dispatch.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.incoming)
}

// Dispatch delivers every event enqueued before the call, in order, to each
// handler of the matching type whose owner is live. Events are not consumed
// by handlers: all matching handlers see every event. Events enqueued while
// dispatching wait for the next call. A Dispatch from inside a handler
// returns 0 without delivering anything.
func (q *EventQueue) Dispatch() int {
	if q.dispatching {
		return 0
	}
	q.dispatching = true
	defer func() { q.dispatching = false }()

	q.mu.Lock()
	q.incoming, q.draining = q.draining[:0], q.incoming
	batch := q.draining
	q.mu.Unlock()

	for i, ev := range batch {
		for _, h := range q.handlers[ev.Type()] {
			if h.owner == 0 {
				continue
			}
			owner, ok := q.resolve(h.owner)
			if !ok {
				continue
			}
			h.fn(owner, ev)
		}
		if q.sink != nil {
			q.sink.EmitEvent(ev)
		}
		batch[i] = nil
	}
	return len(batch)
}

// HandlerCount returns the number of handlers registered for t.
func (q *EventQueue) HandlerCount(t EventType) int {
	return len(q.handlers[t])
}

// addHandler appends h unless already present. Existing slices are never
// written below their length, so a Dispatch iterating an older slice header
// is unaffected.
func (q *EventQueue) addHandler(h *Handler) {
	list := q.handlers[h.typ]
	for _, x := range list {
		if x == h {
			return
		}
	}
	q.handlers[h.typ] = append(list, h)
}

// removeHandler replaces the type's slice with a copy lacking h.
func (q *EventQueue) removeHandler(h *Handler) {
	list := q.handlers[h.typ]
	for i, x := range list {
		if x == h {
			next := make([]*Handler, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			if len(next) == 0 {
				delete(q.handlers, h.typ)
			} else {
				q.handlers[h.typ] = next
			}
			return
		}
	}
}
