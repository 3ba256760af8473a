package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/grove"
)

// Input pumps tcell events on a background goroutine into a bounded queue
// that Poll drains without blocking. Terminals report no key releases, so
// only key-down records are produced.
type Input struct {
	screen *Screen
	events chan grove.RawInput
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	mouse mouseState
}

type mouseState struct {
	buttons tcell.ButtonMask
	x, y    int
	seen    bool
}

// NewInput starts pumping s's events.
func NewInput(s *Screen) *Input {
	in := &Input{
		screen: s,
		events: make(chan grove.RawInput, s.cfg.QueueSize),
		done:   make(chan struct{}),
	}
	in.wg.Add(1)
	go in.pump()
	return in
}

func (in *Input) pump() {
	defer in.wg.Done()
	for {
		ev := in.screen.PollEvent()
		if ev == nil {
			return
		}
		for _, raw := range translate(ev, &in.mouse, in.screen) {
			select {
			case in.events <- raw:
			case <-in.done:
				return
			default:
				grove.Logger().Warn("terminal input queue full, dropping record", "kind", raw.Kind)
			}
		}
		select {
		case <-in.done:
			return
		default:
		}
	}
}

// Poll implements grove.InputSource.
func (in *Input) Poll() (grove.RawInput, bool) {
	select {
	case raw := <-in.events:
		return raw, true
	default:
		return grove.RawInput{}, false
	}
}

// Close stops the pump. The pump exits once its pending PollEvent returns,
// which happens on the next terminal event or when the screen is closed.
func (in *Input) Close() {
	in.once.Do(func() {
		close(in.done)
		_ = in.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	in.wg.Wait()
}

var keyMap = map[tcell.Key]grove.Key{
	tcell.KeyEnter:      grove.KeyEnter,
	tcell.KeyEscape:     grove.KeyEscape,
	tcell.KeyBackspace:  grove.KeyBackspace,
	tcell.KeyBackspace2: grove.KeyBackspace,
	tcell.KeyTab:        grove.KeyTab,
	tcell.KeyUp:         grove.KeyUp,
	tcell.KeyDown:       grove.KeyDown,
	tcell.KeyLeft:       grove.KeyLeft,
	tcell.KeyRight:      grove.KeyRight,
}

func translateMods(m tcell.ModMask) grove.KeyModifiers {
	var mods grove.KeyModifiers
	if m&tcell.ModShift != 0 {
		mods |= grove.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= grove.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= grove.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= grove.ModMeta
	}
	return mods
}

var buttonMap = []struct {
	mask   tcell.ButtonMask
	button grove.MouseButton
}{
	{tcell.Button1, grove.MouseButtonLeft},
	{tcell.Button2, grove.MouseButtonRight},
	{tcell.Button3, grove.MouseButtonMiddle},
}

// translate maps one tcell event to zero or more raw records. Mouse
// positions are reported at the center of the cell in world units.
func translate(ev tcell.Event, ms *mouseState, s *Screen) []grove.RawInput {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		mods := translateMods(ev.Modifiers())
		if ev.Key() == tcell.KeyCtrlC {
			return []grove.RawInput{{Kind: grove.RawQuit}}
		}
		if ev.Key() == tcell.KeyRune {
			r := ev.Rune()
			key := grove.KeyRune
			if r == ' ' {
				key = grove.KeySpace
			}
			return []grove.RawInput{{Kind: grove.RawKeyDown, Key: key, Rune: r, Mods: mods}}
		}
		key, ok := keyMap[ev.Key()]
		if !ok {
			return []grove.RawInput{{Kind: grove.RawUnknown}}
		}
		return []grove.RawInput{{Kind: grove.RawKeyDown, Key: key, Mods: mods}}

	case *tcell.EventMouse:
		cx, cy := ev.Position()
		wx, wy := s.CellCenter(cx, cy)
		mods := translateMods(ev.Modifiers())
		var out []grove.RawInput
		if !ms.seen || cx != ms.x || cy != ms.y {
			out = append(out, grove.RawInput{Kind: grove.RawMouseMove, X: wx, Y: wy})
		}
		now := ev.Buttons()
		for _, bm := range buttonMap {
			was := ms.buttons&bm.mask != 0
			is := now&bm.mask != 0
			switch {
			case is && !was:
				out = append(out, grove.RawInput{Kind: grove.RawMouseDown, Button: bm.button, X: wx, Y: wy, Mods: mods})
			case was && !is:
				out = append(out, grove.RawInput{Kind: grove.RawMouseUp, Button: bm.button, X: wx, Y: wy, Mods: mods})
			}
		}
		ms.buttons = now
		ms.x, ms.y, ms.seen = cx, cy, true
		return out

	case *tcell.EventResize:
		w, h := ev.Size()
		return []grove.RawInput{{Kind: grove.RawResize, X: float64(w), Y: float64(h)}}

	case *tcell.EventInterrupt:
		return nil
	}
	return []grove.RawInput{{Kind: grove.RawUnknown}}
}
