package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/grove"
)

// DefaultGlyph fills drawables whose Sprite has no Glyph.
const DefaultGlyph = '█'

// Renderer paints registered drawables as blocks of cells. It implements
// grove.DrawableRegistry.
type Renderer struct {
	screen *Screen
	set    *grove.DrawSet

	// Background clears the screen before each frame.
	Background grove.Color
	// OffsetX and OffsetY shift the world before it is mapped to cells.
	OffsetX, OffsetY float64
}

// NewRenderer returns a renderer drawing onto s.
func NewRenderer(s *Screen) *Renderer {
	return &Renderer{screen: s, set: grove.NewDrawSet()}
}

// Register implements grove.DrawableRegistry.
func (r *Renderer) Register(n *grove.Node, priority int) { r.set.Add(n, priority) }

// Unregister implements grove.DrawableRegistry.
func (r *Renderer) Unregister(n *grove.Node) { r.set.Remove(n) }

// Len returns the number of registered drawables.
func (r *Renderer) Len() int { return r.set.Len() }

// RenderFrame clears the screen, paints every visible drawable in priority
// order and flushes.
func (r *Renderer) RenderFrame() error {
	bg := tcellColor(r.Background)
	r.screen.SetStyle(tcell.StyleDefault.Background(bg))
	r.screen.Clear()
	w, h := r.screen.Size()
	r.set.Each(func(n *grove.Node) {
		sp := n.Sprite
		if sp == nil || sp.Hidden {
			return
		}
		x0, y0, x1, y1 := r.cells(n.Bounds())
		x0, y0 = max(x0, 0), max(y0, 0)
		x1, y1 = min(x1, w), min(y1, h)
		glyph := sp.Glyph
		if glyph == 0 {
			glyph = DefaultGlyph
		}
		c := tcellColor(sp.Color)
		style := tcell.StyleDefault.Foreground(c).Background(bg)
		for cy := y0; cy < y1; cy++ {
			for cx := x0; cx < x1; cx++ {
				r.screen.SetContent(cx, cy, glyph, nil, style)
			}
		}
	})
	r.screen.Show()
	return nil
}

// cells returns the half-open cell range covered by b. A non-empty rectangle
// always covers at least one cell.
func (r *Renderer) cells(b grove.Rect) (x0, y0, x1, y1 int) {
	cfg := r.screen.cfg
	left := (b.X - r.OffsetX) / cfg.CellWidth
	top := (b.Y - r.OffsetY) / cfg.CellHeight
	right := (b.X + b.Width - r.OffsetX) / cfg.CellWidth
	bottom := (b.Y + b.Height - r.OffsetY) / cfg.CellHeight
	x0, y0 = int(math.Floor(left)), int(math.Floor(top))
	x1, y1 = int(math.Ceil(right)), int(math.Ceil(bottom))
	if b.Width > 0 && x1 == x0 {
		x1++
	}
	if b.Height > 0 && y1 == y0 {
		y1++
	}
	return x0, y0, x1, y1
}

func tcellColor(c grove.Color) tcell.Color {
	rgba := c.RGBA()
	return tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B))
}
