package grove

import "testing"

// drainFrame polls s until it reports no more records for this frame.
func drainFrame(s *ScriptedInput) []RawInput {
	var out []RawInput
	for {
		raw, ok := s.Poll()
		if !ok {
			return out
		}
		out = append(out, raw)
	}
}

func TestScriptedInputFrames(t *testing.T) {
	s := NewScriptedInput()
	s.InjectClick(10, 20)

	f1 := drainFrame(s)
	if len(f1) != 1 || f1[0].Kind != RawMouseDown || f1[0].X != 10 {
		t.Errorf("frame 1 = %+v, want mouse down", f1)
	}
	f2 := drainFrame(s)
	if len(f2) != 1 || f2[0].Kind != RawMouseUp {
		t.Errorf("frame 2 = %+v, want mouse up", f2)
	}
	if f3 := drainFrame(s); len(f3) != 0 {
		t.Errorf("frame 3 = %+v, want empty", f3)
	}
	if !s.Done() {
		t.Error("source should be done")
	}
}

func TestScriptedInputBatch(t *testing.T) {
	s := NewScriptedInput()
	s.Inject(RawInput{Kind: RawKeyDown, Key: KeyUp}, RawInput{Kind: RawKeyUp, Key: KeyUp})
	if got := drainFrame(s); len(got) != 2 {
		t.Errorf("batched frame = %d records, want 2", len(got))
	}
}

func TestInjectDrag(t *testing.T) {
	s := NewScriptedInput()
	s.InjectDrag(0, 0, 30, 0, 4)
	if s.Pending() != 4 {
		t.Fatalf("Pending = %d, want 4", s.Pending())
	}
	var xs []float64
	for i := 0; i < 4; i++ {
		f := drainFrame(s)
		xs = append(xs, f[0].X)
	}
	want := []float64{0, 10, 20, 30}
	for i := range want {
		if !approx(xs[i], want[i]) {
			t.Errorf("x[%d] = %v, want %v", i, xs[i], want[i])
		}
	}
}

func TestInjectKeyThroughEngine(t *testing.T) {
	in := NewScriptedInput()
	e := testEngine(WithInput(in))
	var downs, ups int
	n := NewNode("n")
	_ = n.AttachHandler(NewHandler(EventKeyDown, CapNone, func(*Node, Event) { downs++ }))
	_ = n.AttachHandler(NewHandler(EventKeyUp, CapNone, func(*Node, Event) { ups++ }))
	e.AddChild(n)

	in.InjectKey(KeyRune, 'a')
	_ = e.Step()
	if downs != 1 || ups != 0 {
		t.Errorf("frame 1: downs=%d ups=%d", downs, ups)
	}
	_ = e.Step()
	if ups != 1 {
		t.Errorf("frame 2: ups=%d", ups)
	}
}
