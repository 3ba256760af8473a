package physics

import (
	"math"
	"testing"

	"github.com/phanxgames/grove"
)

func body(name string, t grove.BodyType, x, y, w, h float64) *grove.Node {
	n := grove.NewNode(name)
	n.X, n.Y = x, y
	n.Width, n.Height = w, h
	n.Body = grove.NewBody(t)
	return n
}

func TestGravityIntegration(t *testing.T) {
	w := NewWorld(0, 10)
	ball := body("ball", grove.BodyDynamic, 0, 0, 1, 1)
	w.Register(ball)

	_ = w.StepFrame(1)
	if ball.Body.VY != 10 || ball.Y != 10 {
		t.Errorf("after 1s: vy=%v y=%v, want 10/10", ball.Body.VY, ball.Y)
	}
	ball.Body.GravityScale = 0
	_ = w.StepFrame(1)
	if ball.Body.VY != 10 || ball.Y != 20 {
		t.Errorf("zero gravity scale: vy=%v y=%v", ball.Body.VY, ball.Y)
	}
}

func TestKinematicIgnoresGravity(t *testing.T) {
	w := NewWorld(0, 100)
	pipe := body("pipe", grove.BodyKinematic, 100, 0, 10, 10)
	pipe.Body.VX = -50
	w.Register(pipe)
	_ = w.StepFrame(0.5)
	if pipe.X != 75 || pipe.Y != 0 {
		t.Errorf("pipe at (%v, %v), want (75, 0)", pipe.X, pipe.Y)
	}
}

func TestDynamicLandsOnStatic(t *testing.T) {
	w := NewWorld(0, 0)
	ground := body("ground", grove.BodyStatic, 0, 10, 100, 10)
	ball := body("ball", grove.BodyDynamic, 10, 0, 4, 4)
	ball.Body.VY = 8
	var hits int
	ball.Body.OnContact = func(self, other *grove.Node) {
		if self != ball || other != ground {
			t.Error("contact pair mismatch")
		}
		hits++
	}
	w.Register(ground)
	w.Register(ball)

	_ = w.StepFrame(1) // ball would reach y=8, overlapping the ground by 2
	if math.Abs(ball.Y-6) > 1e-9 {
		t.Errorf("ball.Y = %v, want 6 (resting on ground)", ball.Y)
	}
	if ball.Body.VY != 0 {
		t.Errorf("VY = %v, want 0 after landing", ball.Body.VY)
	}
	if ground.Y != 10 {
		t.Error("static body must not move")
	}
	if hits != 1 {
		t.Errorf("contacts = %d, want 1", hits)
	}
}

func TestSensorReportsWithoutBlocking(t *testing.T) {
	w := NewWorld(0, 0)
	zone := body("zone", grove.BodyKinematic, 0, 0, 10, 10)
	zone.Body.Sensor = true
	bird := body("bird", grove.BodyDynamic, 2, 2, 2, 2)
	bird.Body.VX = 1
	var scored int
	zone.Body.OnContact = func(self, other *grove.Node) { scored++ }
	w.Register(zone)
	w.Register(bird)

	_ = w.StepFrame(1)
	if scored != 1 {
		t.Errorf("sensor contacts = %d, want 1", scored)
	}
	if bird.X != 3 || bird.Body.VX != 1 {
		t.Error("sensor should not block")
	}
}

func TestTwoDynamicsSplitCorrection(t *testing.T) {
	w := NewWorld(0, 0)
	a := body("a", grove.BodyDynamic, 0, 0, 10, 10)
	b := body("b", grove.BodyDynamic, 8, 0, 10, 10)
	w.Register(a)
	w.Register(b)
	_ = w.StepFrame(0)
	if a.X != -1 || b.X != 9 {
		t.Errorf("a.X=%v b.X=%v, want -1/9", a.X, b.X)
	}
}

func TestTeleportIsHonoured(t *testing.T) {
	w := NewWorld(0, 0)
	n := body("n", grove.BodyKinematic, 0, 0, 1, 1)
	n.Body.VX = 1
	w.Register(n)
	_ = w.StepFrame(1)
	n.X = 50
	_ = w.StepFrame(1)
	if n.X != 51 {
		t.Errorf("X = %v, want 51", n.X)
	}
}

func TestPositionWrittenAsOffset(t *testing.T) {
	w := NewWorld(0, 0)
	parent := grove.NewNode("layer")
	parent.X = 100
	n := body("n", grove.BodyKinematic, 5, 0, 1, 1)
	n.Body.VX = 10
	parent.AddChild(n)
	w.Register(n)
	_ = w.StepFrame(1)
	if n.X != 15 || n.Position().X != 115 {
		t.Errorf("offset=%v world=%v, want 15/115", n.X, n.Position().X)
	}
}

func TestFixedStep(t *testing.T) {
	w := NewWorld(0, 0)
	w.FixedStep = 0.25
	n := body("n", grove.BodyKinematic, 0, 0, 1, 1)
	n.Body.VX = 4
	w.Register(n)

	_ = w.StepFrame(0.5)
	if w.Steps() != 2 || n.X != 2 {
		t.Errorf("steps=%d x=%v, want 2/2", w.Steps(), n.X)
	}
	_ = w.StepFrame(0.125)
	if w.Steps() != 2 {
		t.Errorf("steps=%d, want 2 until a full step accumulates", w.Steps())
	}
	_ = w.StepFrame(0.125)
	if w.Steps() != 3 {
		t.Errorf("steps=%d, want 3", w.Steps())
	}

	_ = w.StepFrame(100)
	if w.Steps() != 3+maxSubSteps {
		t.Errorf("steps=%d, want capped at %d", w.Steps(), 3+maxSubSteps)
	}
}

func TestUnregisterFromContact(t *testing.T) {
	w := NewWorld(0, 0)
	e := grove.NewEngine(grove.DefaultConfig(),
		grove.WithClock(&grove.ManualClock{Step: 0.1}),
		grove.WithPhysics(w))

	wall := body("wall", grove.BodyStatic, 0, 0, 10, 10)
	coin := body("coin", grove.BodyDynamic, 5, 5, 2, 2)
	coin.Body.OnContact = func(self, other *grove.Node) {
		self.RemoveFromParent()
	}
	e.AddChild(wall)
	e.AddChild(coin)
	if w.Bodies() != 2 {
		t.Fatalf("bodies = %d, want 2", w.Bodies())
	}
	if err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if w.Bodies() != 1 || coin.Active() {
		t.Errorf("coin should be gone: bodies=%d active=%v", w.Bodies(), coin.Active())
	}
}

func TestBodyClearedWhileActive(t *testing.T) {
	w := NewWorld(0, 100)
	e := grove.NewEngine(grove.DefaultConfig(),
		grove.WithClock(&grove.ManualClock{Step: 0.1}),
		grove.WithPhysics(w))

	floor := body("floor", grove.BodyStatic, 0, 10, 100, 10)
	ball := body("ball", grove.BodyDynamic, 0, 9, 2, 2)
	e.AddChild(floor)
	e.AddChild(ball)

	ball.Body = nil
	if err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if ball.Y != 9 {
		t.Errorf("bodiless node moved to y=%v", ball.Y)
	}
	if _, err := e.RemoveChild("ball"); err != nil {
		t.Fatal(err)
	}
	if w.Bodies() != 1 {
		t.Errorf("bodies = %d, want 1 after removal", w.Bodies())
	}
}

func TestSetBodyWhileActive(t *testing.T) {
	w := NewWorld(0, 0)
	e := grove.NewEngine(grove.DefaultConfig(), grove.WithPhysics(w))
	n := body("n", grove.BodyStatic, 0, 0, 1, 1)
	e.AddChild(n)

	n.SetBody(nil)
	if w.Bodies() != 0 {
		t.Errorf("bodies = %d after SetBody(nil), want 0", w.Bodies())
	}
	n.SetBody(grove.NewBody(grove.BodyDynamic))
	if w.Bodies() != 1 {
		t.Errorf("bodies = %d after SetBody, want 1", w.Bodies())
	}
}

func TestRegisterIgnoresNodesWithoutBody(t *testing.T) {
	w := NewWorld(0, 0)
	w.Register(grove.NewNode("plain"))
	n := body("n", grove.BodyStatic, 0, 0, 1, 1)
	w.Register(n)
	w.Register(n)
	if w.Bodies() != 1 {
		t.Errorf("bodies = %d, want 1", w.Bodies())
	}
	w.Unregister(n)
	w.Unregister(n)
	if w.Bodies() != 0 {
		t.Errorf("bodies = %d, want 0", w.Bodies())
	}
}
