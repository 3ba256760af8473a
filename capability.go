package grove

import "strings"

// Capability is a bitmask of the subsystem roles a node can play. A node's
// capabilities follow from which components it carries.
type Capability uint8

const (
	CapDrawable Capability = 1 << iota // Sprite set: registered with the renderer
	CapBody                            // Body set: registered with physics
	CapAudio                           // Sound set: bound to the audio output
	CapHitTest                         // HitShape set: pointer hit testing
	CapHandlers                        // at least one attached event handler

	CapNone Capability = 0
)

var capNames = []struct {
	c    Capability
	name string
}{
	{CapDrawable, "drawable"},
	{CapBody, "body"},
	{CapAudio, "audio"},
	{CapHitTest, "hittest"},
	{CapHandlers, "handlers"},
}

func (c Capability) String() string {
	if c == CapNone {
		return "none"
	}
	var parts []string
	for _, cn := range capNames {
		if c&cn.c != 0 {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Has reports whether c includes every bit of want.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// DrawableRegistry is the graphics subsystem's side of registration. The
// engine registers every active node carrying a Sprite and calls RenderFrame
// once per frame.
type DrawableRegistry interface {
	Register(n *Node, priority int)
	Unregister(n *Node)
	RenderFrame() error
}

// BodyRegistry is the physics subsystem's side of registration. StepFrame
// advances the simulation and writes positions back to the nodes.
type BodyRegistry interface {
	Register(n *Node)
	Unregister(n *Node)
	StepFrame(dt float64) error
}

// AudioOutput plays a node's Sound.
type AudioOutput interface {
	Play(s *Sound) error
}

// InputSource yields raw hardware input records. Poll returns false when no
// record is pending and must not block.
type InputSource interface {
	Poll() (RawInput, bool)
}

// EventSink receives every event after its handlers ran.
type EventSink interface {
	EmitEvent(ev Event)
}
