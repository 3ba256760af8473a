package ebitengine

import (
	"math"
	"testing"

	"github.com/phanxgames/grove"
	"github.com/tanema/gween/ease"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func viewport() grove.Rect { return grove.Rect{Width: 800, Height: 600} }

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera(viewport())
	if cam.Zoom != 1.0 {
		t.Errorf("Zoom = %f, want 1.0", cam.Zoom)
	}
	if !cam.CullEnabled {
		t.Error("CullEnabled = false, want true")
	}
	if cam.X != 400 || cam.Y != 300 {
		t.Errorf("position = (%f,%f), want viewport center", cam.X, cam.Y)
	}
	sx, sy := cam.WorldToScreen(10, 20)
	if !approxEqual(sx, 10, epsilon) || !approxEqual(sy, 20, epsilon) {
		t.Errorf("default camera should map world to screen 1:1, got (%f,%f)", sx, sy)
	}
}

func TestCameraTranslation(t *testing.T) {
	cam := NewCamera(viewport())
	cam.X, cam.Y = 100, 50
	sx, sy := cam.WorldToScreen(100, 50)
	if !approxEqual(sx, 400, epsilon) || !approxEqual(sy, 300, epsilon) {
		t.Errorf("WorldToScreen(100,50) = (%f,%f), want (400,300)", sx, sy)
	}
}

func TestCameraZoom(t *testing.T) {
	cam := NewCamera(viewport())
	cam.Zoom = 2.0
	sx1, _ := cam.WorldToScreen(1, 0)
	sx0, _ := cam.WorldToScreen(0, 0)
	if d := sx1 - sx0; !approxEqual(d, 2.0, epsilon) {
		t.Errorf("zoom 2x: 1 world unit = %f screen pixels, want 2.0", d)
	}
}

func TestCameraRotation90(t *testing.T) {
	cam := NewCamera(viewport())
	cam.X, cam.Y = 0, 0
	cam.Rotation = math.Pi / 2
	// Rotate(-π/2) maps (1,0) to (0,-1), then translate to the viewport center.
	sx, sy := cam.WorldToScreen(1, 0)
	if !approxEqual(sx, 400, epsilon) || !approxEqual(sy, 299, epsilon) {
		t.Errorf("WorldToScreen(1,0) = (%f,%f), want (400,299)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := NewCamera(viewport())
	cam.X, cam.Y = 42, -17
	cam.Zoom = 1.5
	cam.Rotation = 0.3

	sx, sy := cam.WorldToScreen(123, -456)
	wx, wy := cam.ScreenToWorld(sx, sy)
	if !approxEqual(wx, 123, 1e-6) || !approxEqual(wy, -456, 1e-6) {
		t.Errorf("roundtrip: got (%f,%f), want (123,-456)", wx, wy)
	}
}

func TestCameraGeoMMatchesWorldToScreen(t *testing.T) {
	cam := NewCamera(viewport())
	cam.X, cam.Y = 10, 20
	cam.Zoom = 3
	g := cam.GeoM()
	gx, gy := g.Apply(5, 7)
	sx, sy := cam.WorldToScreen(5, 7)
	if !approxEqual(gx, sx, 1e-9) || !approxEqual(gy, sy, 1e-9) {
		t.Errorf("GeoM = (%f,%f), WorldToScreen = (%f,%f)", gx, gy, sx, sy)
	}
}

func TestVisibleBounds(t *testing.T) {
	cam := NewCamera(viewport())
	b := cam.VisibleBounds()
	if !approxEqual(b.X, 0, 1e-6) || !approxEqual(b.Y, 0, 1e-6) ||
		!approxEqual(b.Width, 800, 1e-6) || !approxEqual(b.Height, 600, 1e-6) {
		t.Errorf("VisibleBounds = %+v, want 0,0 800x600", b)
	}

	cam.Zoom = 2
	b = cam.VisibleBounds()
	if !approxEqual(b.Width, 400, 1e-6) || !approxEqual(b.Height, 300, 1e-6) {
		t.Errorf("VisibleBounds at zoom 2 = %vx%v, want 400x300", b.Width, b.Height)
	}
}

func TestCameraFollow(t *testing.T) {
	e := grove.NewEngine(grove.DefaultConfig())
	target := grove.NewNode("target")
	target.X, target.Y = 200, 150
	e.AddChild(target)

	cam := NewCamera(grove.Rect{Width: 800, Height: 600})
	cam.X, cam.Y = 0, 0
	cam.Follow(target, 10, -20, 0.5)
	cam.Update(1.0 / 60)
	if !approxEqual(cam.X, 105, epsilon) || !approxEqual(cam.Y, 65, epsilon) {
		t.Errorf("after lerp 0.5: cam = (%f,%f), want (105,65)", cam.X, cam.Y)
	}

	cam.Follow(target, 0, 0, 1)
	cam.Update(1.0 / 60)
	if cam.X != 200 || cam.Y != 150 {
		t.Errorf("after snap: cam = (%f,%f), want (200,150)", cam.X, cam.Y)
	}
}

func TestCameraDropsRemovedTarget(t *testing.T) {
	e := grove.NewEngine(grove.DefaultConfig())
	target := grove.NewNode("target")
	e.AddChild(target)

	cam := NewCamera(viewport())
	cam.Follow(target, 0, 0, 1)
	target.RemoveFromParent()
	target.X = 999
	cam.Update(1.0 / 60)
	if cam.Following() != nil {
		t.Error("camera still follows removed node")
	}
	if cam.X == 999 {
		t.Error("camera moved to removed node")
	}
}

func TestCameraUnfollow(t *testing.T) {
	e := grove.NewEngine(grove.DefaultConfig())
	target := grove.NewNode("target")
	target.X = 100
	e.AddChild(target)

	cam := NewCamera(viewport())
	cam.Follow(target, 0, 0, 1.0)
	cam.Update(1.0 / 60)
	cam.Unfollow()
	target.X = 500
	cam.Update(1.0 / 60)
	if !approxEqual(cam.X, 100, epsilon) {
		t.Errorf("after unfollow: cam.X = %f, want 100", cam.X)
	}
}

func TestCameraScrollTo(t *testing.T) {
	cam := NewCamera(viewport())
	cam.X, cam.Y = 0, 0
	cam.ScrollTo(100, 200, 1.0, ease.Linear)

	cam.Update(0.5)
	if !approxEqual(cam.X, 50, 1.0) || !approxEqual(cam.Y, 100, 1.0) {
		t.Errorf("scroll halfway: cam = (%f,%f), want ~(50,100)", cam.X, cam.Y)
	}
	cam.Update(0.5)
	if !approxEqual(cam.X, 100, 1.0) || !approxEqual(cam.Y, 200, 1.0) {
		t.Errorf("scroll end: cam = (%f,%f), want ~(100,200)", cam.X, cam.Y)
	}
	if cam.Scrolling() {
		t.Error("still scrolling after completion")
	}
}

func TestCameraBounds(t *testing.T) {
	cam := NewCamera(grove.Rect{Width: 100, Height: 100})
	cam.SetBounds(grove.Rect{Width: 1000, Height: 1000})

	cam.X, cam.Y = 0, 0
	cam.Update(0)
	if cam.X != 50 || cam.Y != 50 {
		t.Errorf("bounds clamp min: cam = (%f,%f), want (50,50)", cam.X, cam.Y)
	}

	cam.X, cam.Y = 999, 999
	cam.Update(0)
	if cam.X != 950 || cam.Y != 950 {
		t.Errorf("bounds clamp max: cam = (%f,%f), want (950,950)", cam.X, cam.Y)
	}

	cam.ClearBounds()
	cam.X, cam.Y = -999, -999
	cam.Update(0)
	if cam.X != -999 || cam.Y != -999 {
		t.Errorf("cleared bounds still clamp: cam = (%f,%f)", cam.X, cam.Y)
	}
}

func TestCameraBoundsSmallerThanView(t *testing.T) {
	cam := NewCamera(grove.Rect{Width: 100, Height: 100})
	cam.SetBounds(grove.Rect{X: 10, Y: 20, Width: 40, Height: 60})
	cam.Update(0)
	if cam.X != 30 || cam.Y != 50 {
		t.Errorf("cam = (%f,%f), want bounds center (30,50)", cam.X, cam.Y)
	}
}

func TestInvertAffineSingular(t *testing.T) {
	if got := invertAffine([6]float64{0, 0, 0, 0, 5, 5}); got != identityTransform {
		t.Errorf("singular inverse = %v, want identity", got)
	}
}
