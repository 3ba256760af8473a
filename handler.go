package grove

// Handler reacts to one event type on behalf of an owner node. The owner is
// held by ID and resolved through the engine at every invocation, so a
// handler never calls into a node that has been unregistered.
type Handler struct {
	typ      EventType
	requires Capability
	fn       func(owner *Node, ev Event)
	owner    NodeID
}

// NewHandler creates an unbound handler for events of type t. Binding it to a
// node fails unless the node carries every capability in requires.
func NewHandler(t EventType, requires Capability, fn func(owner *Node, ev Event)) *Handler {
	return &Handler{typ: t, requires: requires, fn: fn}
}

// On creates a handler whose callback receives the concrete event type.
// Events of type t that are not an E are ignored.
func On[E Event](t EventType, requires Capability, fn func(owner *Node, ev E)) *Handler {
	return NewHandler(t, requires, func(owner *Node, ev Event) {
		if e, ok := ev.(E); ok {
			fn(owner, e)
		}
	})
}

// ClickHandler fires fn when button is pressed inside the owner's hit shape.
// The owner must carry CapHitTest.
func ClickHandler(button MouseButton, fn func(owner *Node, ev MouseButtonEvent)) *Handler {
	return On(EventMouseDown, CapHitTest, func(owner *Node, ev MouseButtonEvent) {
		if ev.Button == button && owner.HitTest(ev.X, ev.Y) {
			fn(owner, ev)
		}
	})
}

// KeyHandler fires fn when key is pressed.
func KeyHandler(key Key, fn func(owner *Node, ev KeyEvent)) *Handler {
	return On(EventKeyDown, CapNone, func(owner *Node, ev KeyEvent) {
		if ev.Key == key {
			fn(owner, ev)
		}
	})
}

// Type returns the event type the handler is routed by.
func (h *Handler) Type() EventType { return h.typ }

// Requires returns the capabilities the owner must carry.
func (h *Handler) Requires() Capability { return h.requires }

// Owner returns the owner's ID, zero when unbound.
func (h *Handler) Owner() NodeID { return h.owner }

// AttachHandler binds h to n. When n is active the handler joins the engine's
// handler set immediately.
func (n *Node) AttachHandler(h *Handler) error {
	if h.owner == n.ID {
		return nil
	}
	if h.owner != 0 {
		return ErrHandlerBound
	}
	if err := checkCapability(n, h.requires); err != nil {
		return err
	}
	h.owner = n.ID
	n.handlers = append(n.handlers, h)
	if n.engine != nil {
		n.engine.queue.addHandler(h)
	}
	return nil
}

// DetachHandler unbinds h from n. No-op if h is not bound to n.
func (n *Node) DetachHandler(h *Handler) {
	if h.owner != n.ID {
		return
	}
	for i, x := range n.handlers {
		if x == h {
			copy(n.handlers[i:], n.handlers[i+1:])
			n.handlers[len(n.handlers)-1] = nil
			n.handlers = n.handlers[:len(n.handlers)-1]
			break
		}
	}
	if n.engine != nil {
		n.engine.queue.removeHandler(h)
	}
	h.owner = 0
}

// Handlers returns the attached handlers. The returned slice MUST NOT be
// mutated by the caller.
func (n *Node) Handlers() []*Handler { return n.handlers }
