// Package raster renders grove drawables into an in-memory image with
// gogpu/gg. It needs no window or GPU and suits tests, servers and
// screenshot tooling.
package raster

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
	"github.com/phanxgames/grove"
)

// Renderer draws registered drawables into a gg.Context once per frame.
// It implements grove.DrawableRegistry.
type Renderer struct {
	dc     *gg.Context
	set    *grove.DrawSet
	frames int

	// Background fills the image before each frame.
	Background grove.Color
	// OffsetX and OffsetY are subtracted from world positions.
	OffsetX, OffsetY float64
}

// NewRenderer returns a renderer with a w×h pixel target.
func NewRenderer(w, h int) *Renderer {
	return &Renderer{
		dc:         gg.NewContext(w, h),
		set:        grove.NewDrawSet(),
		Background: grove.Color{A: 1},
	}
}

// Register implements grove.DrawableRegistry.
func (r *Renderer) Register(n *grove.Node, priority int) { r.set.Add(n, priority) }

// Unregister implements grove.DrawableRegistry.
func (r *Renderer) Unregister(n *grove.Node) { r.set.Remove(n) }

// Len returns the number of registered drawables.
func (r *Renderer) Len() int { return r.set.Len() }

// Frames returns the number of frames rendered.
func (r *Renderer) Frames() int { return r.frames }

// RenderFrame clears the target and fills every visible drawable in priority
// order. Rectangles fill the node's bounds; circles are inscribed in them.
func (r *Renderer) RenderFrame() error {
	bg := r.Background
	r.dc.ClearWithColor(gg.RGBA2(bg.R, bg.G, bg.B, bg.A))

	var firstErr error
	r.set.Each(func(n *grove.Node) {
		sp := n.Sprite
		if sp == nil || sp.Hidden || firstErr != nil {
			return
		}
		b := n.Bounds()
		if b.Width <= 0 || b.Height <= 0 {
			return
		}
		x, y := b.X-r.OffsetX, b.Y-r.OffsetY
		r.dc.SetRGBA(sp.Color.R, sp.Color.G, sp.Color.B, sp.Color.A)
		switch sp.Shape {
		case grove.ShapeCircle:
			r.dc.DrawCircle(x+b.Width/2, y+b.Height/2, min(b.Width, b.Height)/2)
		default:
			r.dc.DrawRectangle(x, y, b.Width, b.Height)
		}
		if err := r.dc.Fill(); err != nil {
			firstErr = fmt.Errorf("fill %s: %w", n.Path(), err)
		}
	})
	r.frames++
	return firstErr
}

// Image returns the most recently rendered frame.
func (r *Renderer) Image() image.Image { return r.dc.Image() }

// Size returns the target dimensions in pixels.
func (r *Renderer) Size() (int, int) { return r.dc.Width(), r.dc.Height() }

// WritePNG encodes the current frame as PNG.
func (r *Renderer) WritePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Close releases the drawing context. Close is idempotent.
func (r *Renderer) Close() error { return r.dc.Close() }
