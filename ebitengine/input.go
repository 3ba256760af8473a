package ebitengine

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/grove"
)

// Input implements grove.InputSource over Ebitengine's per-tick input state.
// Collect runs once per tick before the engine steps; Poll then drains what
// it gathered. Cursor positions are converted to world space through Camera
// when one is set.
type Input struct {
	Camera *Camera

	queue []grove.RawInput
	head  int
	keys  []ebiten.Key

	lastX, lastY int
	seen         bool
}

// NewInput returns an input source converting the cursor through cam.
func NewInput(cam *Camera) *Input {
	return &Input{Camera: cam}
}

// Push appends a record as if it had been collected this tick.
func (in *Input) Push(raw grove.RawInput) {
	in.queue = append(in.queue, raw)
}

// Poll implements grove.InputSource.
func (in *Input) Poll() (grove.RawInput, bool) {
	if in.head >= len(in.queue) {
		in.queue = in.queue[:0]
		in.head = 0
		return grove.RawInput{}, false
	}
	raw := in.queue[in.head]
	in.head++
	return raw, true
}

// Collect gathers this tick's key transitions, mouse buttons, cursor motion
// and window close requests.
func (in *Input) Collect() {
	if ebiten.IsWindowBeingClosed() {
		in.Push(grove.RawInput{Kind: grove.RawQuit})
	}
	mods := readModifiers()

	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	for _, k := range in.keys {
		if raw, ok := keyRecord(k, true, mods); ok {
			in.Push(raw)
		}
	}
	in.keys = inpututil.AppendJustReleasedKeys(in.keys[:0])
	for _, k := range in.keys {
		if raw, ok := keyRecord(k, false, mods); ok {
			in.Push(raw)
		}
	}

	mx, my := ebiten.CursorPosition()
	wx, wy := in.toWorld(mx, my)
	if !in.seen || mx != in.lastX || my != in.lastY {
		in.Push(grove.RawInput{Kind: grove.RawMouseMove, X: wx, Y: wy, Mods: mods})
		in.lastX, in.lastY, in.seen = mx, my, true
	}
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b.ebiten) {
			in.Push(grove.RawInput{Kind: grove.RawMouseDown, Button: b.grove, X: wx, Y: wy, Mods: mods})
		}
		if inpututil.IsMouseButtonJustReleased(b.ebiten) {
			in.Push(grove.RawInput{Kind: grove.RawMouseUp, Button: b.grove, X: wx, Y: wy, Mods: mods})
		}
	}
}

func (in *Input) toWorld(sx, sy int) (float64, float64) {
	if in.Camera != nil {
		return in.Camera.ScreenToWorld(float64(sx), float64(sy))
	}
	return float64(sx), float64(sy)
}

var mouseButtons = []struct {
	ebiten ebiten.MouseButton
	grove  grove.MouseButton
}{
	{ebiten.MouseButtonLeft, grove.MouseButtonLeft},
	{ebiten.MouseButtonRight, grove.MouseButtonRight},
	{ebiten.MouseButtonMiddle, grove.MouseButtonMiddle},
}

var namedKeys = map[ebiten.Key]grove.Key{
	ebiten.KeySpace:      grove.KeySpace,
	ebiten.KeyEnter:      grove.KeyEnter,
	ebiten.KeyEscape:     grove.KeyEscape,
	ebiten.KeyBackspace:  grove.KeyBackspace,
	ebiten.KeyTab:        grove.KeyTab,
	ebiten.KeyArrowUp:    grove.KeyUp,
	ebiten.KeyArrowDown:  grove.KeyDown,
	ebiten.KeyArrowLeft:  grove.KeyLeft,
	ebiten.KeyArrowRight: grove.KeyRight,
}

// keyRecord maps an Ebitengine key transition to a raw record. Letters and
// digits become KeyRune with their lower-case rune; unmapped keys report
// false.
func keyRecord(k ebiten.Key, down bool, mods grove.KeyModifiers) (grove.RawInput, bool) {
	kind := grove.RawKeyUp
	if down {
		kind = grove.RawKeyDown
	}
	raw := grove.RawInput{Kind: kind, Mods: mods}
	switch {
	case k >= ebiten.KeyA && k <= ebiten.KeyZ:
		raw.Key, raw.Rune = grove.KeyRune, 'a'+rune(k-ebiten.KeyA)
	case k >= ebiten.KeyDigit0 && k <= ebiten.KeyDigit9:
		raw.Key, raw.Rune = grove.KeyRune, '0'+rune(k-ebiten.KeyDigit0)
	default:
		key, ok := namedKeys[k]
		if !ok {
			return grove.RawInput{}, false
		}
		raw.Key = key
		if key == grove.KeySpace {
			raw.Rune = ' '
		}
	}
	return raw, true
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() grove.KeyModifiers {
	var mods grove.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= grove.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= grove.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= grove.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= grove.ModMeta
	}
	return mods
}
