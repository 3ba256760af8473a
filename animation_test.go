package grove

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	node := NewNode("pos")
	node.X = 10
	node.Y = 20

	g := TweenPosition(node, 100, 200, 1.0, ease.Linear)

	// Exact halves avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(node.X-100) > 0.5 {
		t.Errorf("X = %f, want ~100", node.X)
	}
	if math.Abs(node.Y-200) > 0.5 {
		t.Errorf("Y = %f, want ~200", node.Y)
	}
}

func TestTweenScaleMidway(t *testing.T) {
	node := NewNode("scale")
	g := TweenScale(node, 3.0, 1.0, ease.Linear)
	g.Update(0.5)
	if g.Done {
		t.Fatal("should not be done halfway")
	}
	if math.Abs(node.Scale-2.0) > 0.01 {
		t.Errorf("Scale = %f, want ~2.0", node.Scale)
	}
}

func TestTweenColorAllComponents(t *testing.T) {
	node := NewNode("color")
	node.Sprite = NewSprite(Color{R: 1, G: 0, B: 0, A: 1})
	target := Color{R: 0, G: 1, B: 0.5, A: 0.5}

	g := TweenColor(node, target, 1.0, ease.Linear)
	g.Update(0.5)
	g.Update(0.5)

	c := node.Sprite.Color
	if math.Abs(c.R) > 0.01 || math.Abs(c.G-1) > 0.01 || math.Abs(c.B-0.5) > 0.01 || math.Abs(c.A-0.5) > 0.01 {
		t.Errorf("Color = %+v, want %+v", c, target)
	}
}

func TestTweenAlphaRequiresSprite(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	TweenAlpha(NewNode("bare"), 0, 1, ease.Linear)
}

func TestTweenStopsWhenTargetLeavesEngine(t *testing.T) {
	e := testEngine()
	node := NewNode("mover")
	e.AddChild(node)

	g := TweenPosition(node, 100, 0, 1.0, ease.Linear)
	g.Update(0.25)
	x := node.X

	node.RemoveFromParent()
	g.Update(0.25)
	if !g.Done {
		t.Error("expected Done once the target is unregistered")
	}
	if node.X != x {
		t.Errorf("X changed after stop: %f -> %f", x, node.X)
	}
}

func TestTweenDetachedTargetRuns(t *testing.T) {
	node := NewNode("free")
	g := TweenPosition(node, 10, 0, 1.0, ease.Linear)
	g.Update(0.5)
	if g.Done || node.X == 0 {
		t.Error("a never-active target should still animate")
	}
}
