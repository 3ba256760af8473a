// Package physics steps axis-aligned bodies for grove nodes carrying a
// grove.Body. A World is registered with the engine as its BodyRegistry.
package physics

import (
	"math"

	"github.com/phanxgames/grove"
)

// maxSubSteps bounds the catch-up work of a fixed-step world after a long frame.
const maxSubSteps = 8

type entry struct {
	node    *grove.Node
	x, y    float64
	written grove.Vec2
}

// World integrates velocities and gravity and resolves overlaps between
// bodies. Positions are read from and written back to the owning nodes.
type World struct {
	GravityX, GravityY float64
	// FixedStep, when positive, advances the simulation in increments of
	// this many seconds regardless of frame time.
	FixedStep float64

	bodies []*entry
	index  map[*grove.Node]*entry
	acc    float64
	steps  uint64
}

// NewWorld creates a world with the given gravity in units per second².
func NewWorld(gx, gy float64) *World {
	return &World{
		GravityX: gx,
		GravityY: gy,
		index:    make(map[*grove.Node]*entry),
	}
}

// Register adds n's body. Registering twice is a no-op.
func (w *World) Register(n *grove.Node) {
	if n.Body == nil {
		return
	}
	if _, ok := w.index[n]; ok {
		return
	}
	p := n.Position()
	e := &entry{node: n, x: p.X, y: p.Y, written: p}
	w.bodies = append(w.bodies, e)
	w.index[n] = e
}

// Unregister removes n's body. No-op if absent.
func (w *World) Unregister(n *grove.Node) {
	e, ok := w.index[n]
	if !ok {
		return
	}
	delete(w.index, n)
	for i, b := range w.bodies {
		if b == e {
			copy(w.bodies[i:], w.bodies[i+1:])
			w.bodies[len(w.bodies)-1] = nil
			w.bodies = w.bodies[:len(w.bodies)-1]
			return
		}
	}
}

// Bodies returns the number of registered bodies.
func (w *World) Bodies() int { return len(w.bodies) }

// Steps returns the number of simulation steps taken.
func (w *World) Steps() uint64 { return w.steps }

// StepFrame advances the simulation by dt seconds, writes positions back and
// then reports contacts.
func (w *World) StepFrame(dt float64) error {
	if w.FixedStep <= 0 {
		w.fire(w.step(dt))
		return nil
	}
	w.acc += dt
	var contacts []contact
	for i := 0; w.acc >= w.FixedStep; i++ {
		if i == maxSubSteps {
			grove.Logger().Warn("physics falling behind, dropping time", "dropped", w.acc)
			w.acc = 0
			break
		}
		contacts = append(contacts, w.step(w.FixedStep)...)
		w.acc -= w.FixedStep
	}
	w.fire(contacts)
	return nil
}

type contact struct {
	a, b *grove.Node
}

func (w *World) step(h float64) []contact {
	w.steps++

	// Bodies whose node was moved by game code since the last write-back
	// continue from the new position.
	for _, e := range w.bodies {
		if p := e.node.Position(); p != e.written {
			e.x, e.y = p.X, p.Y
		}
	}

	for _, e := range w.bodies {
		b := e.node.Body
		if b == nil {
			continue
		}
		switch b.Type {
		case grove.BodyDynamic:
			b.VX += w.GravityX * b.GravityScale * h
			b.VY += w.GravityY * b.GravityScale * h
			e.x += b.VX * h
			e.y += b.VY * h
		case grove.BodyKinematic:
			e.x += b.VX * h
			e.y += b.VY * h
		}
	}

	var contacts []contact
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a, b := w.bodies[i], w.bodies[j]
			if c, ok := w.collide(a, b); ok {
				contacts = append(contacts, c)
			}
		}
	}

	for _, e := range w.bodies {
		e.node.SetPosition(grove.Vec2{X: e.x, Y: e.y})
		e.written = e.node.Position()
	}
	return contacts
}

func (w *World) collide(a, b *entry) (contact, bool) {
	ba, bb := a.node.Body, b.node.Body
	if ba == nil || bb == nil {
		return contact{}, false
	}
	aDyn := ba.Type == grove.BodyDynamic
	bDyn := bb.Type == grove.BodyDynamic
	sensor := ba.Sensor || bb.Sensor
	if !aDyn && !bDyn && !sensor {
		return contact{}, false
	}

	sa, sb := a.node.Size(), b.node.Size()
	ox := math.Min(a.x+sa.X, b.x+sb.X) - math.Max(a.x, b.x)
	oy := math.Min(a.y+sa.Y, b.y+sb.Y) - math.Max(a.y, b.y)
	if ox <= 0 || oy <= 0 {
		return contact{}, false
	}
	c := contact{a: a.node, b: b.node}
	if sensor {
		return c, true
	}

	// Share of the correction each side takes.
	var wa, wb float64
	switch {
	case aDyn && bDyn:
		wa, wb = 0.5, 0.5
	case aDyn:
		wa = 1
	default:
		wb = 1
	}

	if ox < oy {
		dir := 1.0
		if a.x+sa.X/2 < b.x+sb.X/2 {
			dir = -1
		}
		a.x += dir * ox * wa
		b.x -= dir * ox * wb
		if aDyn {
			ba.VX = blockVelocity(ba.VX, -dir)
		}
		if bDyn {
			bb.VX = blockVelocity(bb.VX, dir)
		}
	} else {
		dir := 1.0
		if a.y+sa.Y/2 < b.y+sb.Y/2 {
			dir = -1
		}
		a.y += dir * oy * wa
		b.y -= dir * oy * wb
		if aDyn {
			ba.VY = blockVelocity(ba.VY, -dir)
		}
		if bDyn {
			bb.VY = blockVelocity(bb.VY, dir)
		}
	}
	return c, true
}

// blockVelocity zeroes v when it points toward the obstacle direction.
func blockVelocity(v, toward float64) float64 {
	if v*toward > 0 {
		return 0
	}
	return v
}

func (w *World) fire(contacts []contact) {
	for _, c := range contacts {
		if fn := c.a.Body; fn != nil && fn.OnContact != nil {
			fn.OnContact(c.a, c.b)
		}
		if fn := c.b.Body; fn != nil && fn.OnContact != nil {
			fn.OnContact(c.b, c.a)
		}
	}
}
