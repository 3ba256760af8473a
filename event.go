package grove

// EventType is the type tag handlers are routed by.
type EventType uint16

const (
	EventKeyDown   EventType = iota + 1 // a key was pressed
	EventKeyUp                          // a key was released
	EventMouseDown                      // a mouse button was pressed
	EventMouseUp                        // a mouse button was released
	EventMouseMove                      // the pointer moved

	// EventUser is the first type tag free for application events.
	EventUser EventType = 1024
)

func (t EventType) String() string {
	switch t {
	case EventKeyDown:
		return "KeyDown"
	case EventKeyUp:
		return "KeyUp"
	case EventMouseDown:
		return "MouseDown"
	case EventMouseUp:
		return "MouseUp"
	case EventMouseMove:
		return "MouseMove"
	}
	if t >= EventUser {
		return "User"
	}
	return "Unknown"
}

// Event is an immutable record routed to handlers by its type tag.
type Event interface {
	Type() EventType
}

// KeyEvent reports a key transition.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods KeyModifiers
	Down bool
}

// Type returns EventKeyDown or EventKeyUp.
func (e KeyEvent) Type() EventType {
	if e.Down {
		return EventKeyDown
	}
	return EventKeyUp
}

// MouseButtonEvent reports a mouse button transition at a world position.
type MouseButtonEvent struct {
	Button MouseButton
	X, Y   float64
	Mods   KeyModifiers
	Down   bool
}

// Type returns EventMouseDown or EventMouseUp.
func (e MouseButtonEvent) Type() EventType {
	if e.Down {
		return EventMouseDown
	}
	return EventMouseUp
}

// MouseMoveEvent reports the pointer's new world position.
type MouseMoveEvent struct {
	X, Y float64
}

// Type returns EventMouseMove.
func (MouseMoveEvent) Type() EventType { return EventMouseMove }

// RawKind classifies a hardware input record.
type RawKind uint8

const (
	RawUnknown RawKind = iota
	RawKeyDown
	RawKeyUp
	RawMouseDown
	RawMouseUp
	RawMouseMove
	RawResize
	RawQuit
)

// RawInput is one hardware input record as produced by an InputSource.
type RawInput struct {
	Kind   RawKind
	Key    Key
	Rune   rune
	Button MouseButton
	X, Y   float64
	Mods   KeyModifiers
}

// Translate maps a raw record to at most one event. Quit, resize and unknown
// records produce no event.
func Translate(raw RawInput) (Event, bool) {
	switch raw.Kind {
	case RawKeyDown, RawKeyUp:
		return KeyEvent{Key: raw.Key, Rune: raw.Rune, Mods: raw.Mods, Down: raw.Kind == RawKeyDown}, true
	case RawMouseDown, RawMouseUp:
		return MouseButtonEvent{Button: raw.Button, X: raw.X, Y: raw.Y, Mods: raw.Mods, Down: raw.Kind == RawMouseDown}, true
	case RawMouseMove:
		return MouseMoveEvent{X: raw.X, Y: raw.Y}, true
	}
	return nil, false
}
