package ebitengine

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/grove"
)

// drawCmd is one compiled drawable. Commands are built in RenderFrame and
// submitted in Draw, since Ebitengine only hands out the screen in Draw.
type drawCmd struct {
	node   *grove.Node
	bounds grove.Rect
	color  grove.Color
	shape  grove.SpriteShape
	region string
	image  *ebiten.Image
	screen bool // bounds are in screen space, the camera is not applied
}

type boundImage struct {
	img    *ebiten.Image
	screen bool
}

// Renderer implements grove.DrawableRegistry for Ebitengine. Drawables with
// a Region are drawn from Sheet; others are filled with their sprite color.
type Renderer struct {
	Camera     *Camera
	Sheet      *SpriteSheet
	Background grove.Color

	set    *grove.DrawSet
	images map[*grove.Node]boundImage
	cmds   []drawCmd
	culled int
}

// NewRenderer returns a renderer whose camera covers a w×h screen.
func NewRenderer(w, h int) *Renderer {
	return &Renderer{
		Camera:     NewCamera(grove.Rect{Width: float64(w), Height: float64(h)}),
		Background: grove.Color{A: 1},
		set:        grove.NewDrawSet(),
		images:     make(map[*grove.Node]boundImage),
	}
}

// Register implements grove.DrawableRegistry.
func (r *Renderer) Register(n *grove.Node, priority int) { r.set.Add(n, priority) }

// Unregister implements grove.DrawableRegistry.
func (r *Renderer) Unregister(n *grove.Node) { r.set.Remove(n) }

// Len returns the number of registered drawables.
func (r *Renderer) Len() int { return r.set.Len() }

// BindImage draws img over n's bounds instead of its sheet region. Screen
// images ignore the camera. The binding outlives registration; pass a nil
// img to remove it.
func (r *Renderer) BindImage(n *grove.Node, img *ebiten.Image, screen bool) {
	if img == nil {
		delete(r.images, n)
		return
	}
	r.images[n] = boundImage{img: img, screen: screen}
}

// RenderFrame compiles the visible drawables into draw commands in priority
// order, advancing frame animations.
func (r *Renderer) RenderFrame() error {
	clear(r.cmds)
	r.cmds = r.cmds[:0]
	r.culled = 0

	var visible grove.Rect
	cull := r.Camera != nil && r.Camera.CullEnabled
	if cull {
		visible = r.Camera.VisibleBounds()
	}

	r.set.Each(func(n *grove.Node) {
		sp := n.Sprite
		if sp == nil || sp.Hidden {
			return
		}
		cmd := drawCmd{
			node:   n,
			bounds: n.Bounds(),
			color:  sp.Color,
			shape:  sp.Shape,
			region: sp.Advance(),
		}
		if bi, ok := r.images[n]; ok {
			cmd.image, cmd.screen = bi.img, bi.screen
		} else if cmd.region != "" && r.Sheet != nil {
			cmd.image = r.Sheet.sub(cmd.region)
			if cmd.image == nil {
				grove.Logger().Debug("sprite region not found", "node", n.Path(), "region", cmd.region)
				cmd.color = magenta
			}
		}
		if cull && !cmd.screen && !cmd.bounds.Intersects(visible) {
			r.culled++
			return
		}
		r.cmds = append(r.cmds, cmd)
	})
	return nil
}

var magenta = grove.Color{R: 1, B: 1, A: 1}

var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// Draw submits the commands compiled by the last RenderFrame.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(r.Background.RGBA())

	var view ebiten.GeoM
	zoom := 1.0
	if r.Camera != nil {
		view = r.Camera.GeoM()
		zoom = r.Camera.Zoom
	}

	for i := range r.cmds {
		cmd := &r.cmds[i]
		b := cmd.bounds

		if cmd.shape == grove.ShapeCircle && cmd.image == nil {
			cx, cy := b.X+b.Width/2, b.Y+b.Height/2
			if !cmd.screen {
				cx, cy = view.Apply(cx, cy)
			}
			radius := min(b.Width, b.Height) / 2 * zoom
			vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(radius), cmd.color.RGBA(), true)
			continue
		}

		img := cmd.image
		tint := cmd.color
		if img == nil {
			img = ensureWhitePixel()
		}
		ib := img.Bounds()
		if ib.Dx() == 0 || ib.Dy() == 0 {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(b.Width/float64(ib.Dx()), b.Height/float64(ib.Dy()))
		op.GeoM.Translate(b.X, b.Y)
		if !cmd.screen {
			op.GeoM.Concat(view)
		}
		op.ColorScale.ScaleWithColor(tint.RGBA())
		screen.DrawImage(img, op)
	}
}
