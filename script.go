package grove

import (
	"encoding/json"
	"fmt"
)

type scriptStep struct {
	Action string  `json:"action"`
	Key    string  `json:"key,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type inputScriptFile struct {
	Steps []scriptStep `json:"steps"`
}

type inputScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
}

// LoadInputScript parses a JSON input script into a ScriptedInput that
// releases one step per frame once the previous step's records drained.
//
//	{"steps": [
//	  {"action": "key", "key": "space"},
//	  {"action": "wait", "frames": 30},
//	  {"action": "click", "x": 100, "y": 40},
//	  {"action": "drag", "fromX": 0, "fromY": 0, "toX": 50, "toY": 0, "frames": 5},
//	  {"action": "move", "x": 10, "y": 10},
//	  {"action": "quit"}
//	]}
func LoadInputScript(jsonData []byte) (*ScriptedInput, error) {
	var file inputScriptFile
	if err := json.Unmarshal(jsonData, &file); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range file.Steps {
		switch st.Action {
		case "key":
			if _, _, ok := parseScriptKey(st.Key); !ok {
				return nil, fmt.Errorf("parse input script: step %d: unknown key %q", i, st.Key)
			}
		case "click", "drag", "move", "wait", "quit":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptedInput{script: &inputScript{steps: file.Steps}}, nil
}

// Done reports whether every script step has been released and drained.
// Sources without a script are done when nothing is queued.
func (s *ScriptedInput) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) > 0 || s.inCur {
		return false
	}
	return s.script == nil || (s.script.cursor >= len(s.script.steps) && s.script.waitCount == 0)
}

// advance releases the next step into s. Called with s.mu held.
func (r *inputScript) advance(s *ScriptedInput) {
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		return
	}
	st := r.steps[r.cursor]
	r.cursor++

	push := func(raw ...RawInput) { s.frames = append(s.frames, raw) }
	switch st.Action {
	case "key":
		key, ch, _ := parseScriptKey(st.Key)
		push(RawInput{Kind: RawKeyDown, Key: key, Rune: ch})
		push(RawInput{Kind: RawKeyUp, Key: key, Rune: ch})
	case "click":
		push(RawInput{Kind: RawMouseDown, Button: MouseButtonLeft, X: st.X, Y: st.Y})
		push(RawInput{Kind: RawMouseUp, Button: MouseButtonLeft, X: st.X, Y: st.Y})
	case "move":
		push(RawInput{Kind: RawMouseMove, X: st.X, Y: st.Y})
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		push(RawInput{Kind: RawMouseDown, Button: MouseButtonLeft, X: st.FromX, Y: st.FromY})
		steps := frames - 2
		for i := 1; i <= steps; i++ {
			t := float64(i) / float64(steps+1)
			push(RawInput{Kind: RawMouseMove, X: st.FromX + (st.ToX-st.FromX)*t, Y: st.FromY + (st.ToY-st.FromY)*t})
		}
		push(RawInput{Kind: RawMouseUp, Button: MouseButtonLeft, X: st.ToX, Y: st.ToY})
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "quit":
		push(RawInput{Kind: RawQuit})
	}
}

func parseScriptKey(name string) (Key, rune, bool) {
	switch name {
	case "space":
		return KeySpace, ' ', true
	case "enter":
		return KeyEnter, '\r', true
	case "escape":
		return KeyEscape, 0, true
	case "backspace":
		return KeyBackspace, 0, true
	case "tab":
		return KeyTab, '\t', true
	case "up":
		return KeyUp, 0, true
	case "down":
		return KeyDown, 0, true
	case "left":
		return KeyLeft, 0, true
	case "right":
		return KeyRight, 0, true
	}
	if r := []rune(name); len(r) == 1 {
		return KeyRune, r[0], true
	}
	return KeyUnknown, 0, false
}
