package grove

import "sync"

// ScriptedInput is an InputSource fed by code instead of hardware. Records
// are grouped into frames: each Poll cycle (until Poll reports false) drains
// exactly one frame, so a press and its release land in different frames.
// Safe for concurrent use.
type ScriptedInput struct {
	mu     sync.Mutex
	frames [][]RawInput
	cur    []RawInput
	inCur  bool
	script *inputScript
}

// NewScriptedInput returns an empty source.
func NewScriptedInput() *ScriptedInput {
	return &ScriptedInput{}
}

// Inject queues raw as its own frame.
func (s *ScriptedInput) Inject(raw ...RawInput) {
	s.mu.Lock()
	s.frames = append(s.frames, raw)
	s.mu.Unlock()
}

// InjectKey queues a key press and, one frame later, its release.
func (s *ScriptedInput) InjectKey(key Key, r rune) {
	s.Inject(RawInput{Kind: RawKeyDown, Key: key, Rune: r})
	s.Inject(RawInput{Kind: RawKeyUp, Key: key, Rune: r})
}

// InjectClick queues a left press and, one frame later, its release at the
// same world position.
func (s *ScriptedInput) InjectClick(x, y float64) {
	s.Inject(RawInput{Kind: RawMouseDown, Button: MouseButtonLeft, X: x, Y: y})
	s.Inject(RawInput{Kind: RawMouseUp, Button: MouseButtonLeft, X: x, Y: y})
}

// InjectMove queues a pointer move.
func (s *ScriptedInput) InjectMove(x, y float64) {
	s.Inject(RawInput{Kind: RawMouseMove, X: x, Y: y})
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves
// and a release at (toX, toY). Minimum frames is 2.
func (s *ScriptedInput) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.Inject(RawInput{Kind: RawMouseDown, Button: MouseButtonLeft, X: fromX, Y: fromY})
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.Inject(RawInput{Kind: RawMouseUp, Button: MouseButtonLeft, X: toX, Y: toY})
}

// InjectQuit queues a quit request.
func (s *ScriptedInput) InjectQuit() {
	s.Inject(RawInput{Kind: RawQuit})
}

// Pending returns the number of queued frames.
func (s *ScriptedInput) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Poll implements InputSource.
func (s *ScriptedInput) Poll() (RawInput, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inCur {
		if s.script != nil && len(s.frames) == 0 {
			s.script.advance(s)
		}
		if len(s.frames) == 0 {
			return RawInput{}, false
		}
		s.cur = s.frames[0]
		copy(s.frames, s.frames[1:])
		s.frames[len(s.frames)-1] = nil
		s.frames = s.frames[:len(s.frames)-1]
		s.inCur = true
	}
	if len(s.cur) == 0 {
		s.inCur = false
		s.cur = nil
		return RawInput{}, false
	}
	raw := s.cur[0]
	s.cur = s.cur[1:]
	return raw, true
}
