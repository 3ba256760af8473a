package grove

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a Node simultaneously.
// Create one via the convenience constructors and call Update(dt) from the
// node's OnLoop. Once the target has been active, the group stops as soon as
// the target leaves the engine.
//
// There is no global animation manager. Users call Update themselves.
type TweenGroup struct {
	tweens    [4]*gween.Tween
	count     int
	fields    [4]*float64
	target    *Node
	wasActive bool
	Done      bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float64) {
	if g.Done {
		return
	}
	if g.target != nil {
		if g.target.Active() {
			g.wasActive = true
		} else if g.wasActive {
			g.Done = true
			return
		}
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Reset rewinds every tween to its start.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.Done = false
}

// TweenPosition animates node.X and node.Y to the given offsets.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(node.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(node.Y), float32(toY), duration, fn)
	g.fields[0] = &node.X
	g.fields[1] = &node.Y
	return g
}

// TweenScale animates node.Scale.
func TweenScale(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Scale), float32(to), duration, fn)
	g.fields[0] = &node.Scale
	return g
}

// TweenColor animates all four components of the node's sprite color.
// Panics if the node has no Sprite.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	if node.Sprite == nil {
		panic("grove: TweenColor on node without sprite")
	}
	c := &node.Sprite.Color
	g := &TweenGroup{count: 4, target: node}
	g.tweens[0] = gween.New(float32(c.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(c.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(c.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(c.A), float32(to.A), duration, fn)
	g.fields[0] = &c.R
	g.fields[1] = &c.G
	g.fields[2] = &c.B
	g.fields[3] = &c.A
	return g
}

// TweenAlpha animates the sprite color's alpha component.
// Panics if the node has no Sprite.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	if node.Sprite == nil {
		panic("grove: TweenAlpha on node without sprite")
	}
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Sprite.Color.A), float32(to), duration, fn)
	g.fields[0] = &node.Sprite.Color.A
	return g
}
