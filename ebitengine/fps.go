package ebitengine

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/grove"
)

// NewFPSOverlay creates a node that displays the current FPS and TPS in the
// top-left corner of the screen, refreshed every half second. The node's
// image is bound to r so it draws above everything else, ignoring the camera.
func NewFPSOverlay(r *Renderer) *grove.Node {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	img := ebiten.NewImage(100, 32)

	n := grove.NewNode("fps")
	n.Width, n.Height = 100, 32
	n.Sprite = grove.NewSprite(grove.ColorWhite)
	n.Sprite.Z = math.MaxInt
	r.BindImage(n, img, true)

	since := 0.5
	n.OnLoop = func(_ *grove.Node, dt float64) error {
		since += dt
		if since < 0.5 {
			return nil
		}
		since = 0

		img.Clear()
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
		return nil
	}
	return n
}
