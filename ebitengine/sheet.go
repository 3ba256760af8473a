package ebitengine

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/grove"
)

// ErrUnknownRegion is returned when a sprite sheet has no region of the
// requested name.
var ErrUnknownRegion = errors.New("unknown sprite sheet region")

// SpriteSheet is one texture and a set of named pixel regions within it.
type SpriteSheet struct {
	Image   *ebiten.Image
	regions map[string]image.Rectangle
	subs    map[string]*ebiten.Image
}

// NewSpriteSheet wraps img with no regions defined.
func NewSpriteSheet(img *ebiten.Image) *SpriteSheet {
	return &SpriteSheet{
		Image:   img,
		regions: make(map[string]image.Rectangle),
		subs:    make(map[string]*ebiten.Image),
	}
}

// LoadSpriteSheet decodes a PNG texture.
func LoadSpriteSheet(r io.Reader) (*SpriteSheet, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode sprite sheet: %w", err)
	}
	return NewSpriteSheet(ebiten.NewImageFromImage(img)), nil
}

// LoadSpriteSheetFile decodes the PNG texture at path.
func LoadSpriteSheetFile(path string) (*SpriteSheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sprite sheet: %w", err)
	}
	defer f.Close()
	return LoadSpriteSheet(f)
}

// Define names the pixel rectangle r. Redefining a name replaces it.
func (s *SpriteSheet) Define(name string, r grove.Rect) {
	s.regions[name] = image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
	delete(s.subs, name)
}

// Region returns the rectangle defined for name.
func (s *SpriteSheet) Region(name string) (grove.Rect, bool) {
	r, ok := s.regions[name]
	if !ok {
		return grove.Rect{}, false
	}
	return grove.Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), Width: float64(r.Dx()), Height: float64(r.Dy())}, true
}

// Len returns the number of defined regions.
func (s *SpriteSheet) Len() int { return len(s.regions) }

// sub returns the cached sub-image for name, nil when undefined.
func (s *SpriteSheet) sub(name string) *ebiten.Image {
	if img, ok := s.subs[name]; ok {
		return img
	}
	r, ok := s.regions[name]
	if !ok || s.Image == nil {
		return nil
	}
	img := s.Image.SubImage(r).(*ebiten.Image)
	s.subs[name] = img
	return img
}

// Build returns a detached node sized to the region and drawn from it.
func (s *SpriteSheet) Build(name string) (*grove.Node, error) {
	r, ok := s.Region(name)
	if !ok {
		return nil, fmt.Errorf("build %q: %w", name, ErrUnknownRegion)
	}
	n := grove.NewNode(name)
	n.Width, n.Height = r.Width, r.Height
	n.Sprite = grove.NewSprite(grove.ColorWhite)
	n.Sprite.Region = name
	return n, nil
}

// LoadAtlasJSON defines every frame of a TexturePacker export. Both the hash
// format (a single "frames" object) and the array format ("textures" list)
// are accepted; the array format must describe exactly one page.
func (s *SpriteSheet) LoadAtlasJSON(data []byte) error {
	regions, err := parseAtlas(data)
	if err != nil {
		return err
	}
	for name, r := range regions {
		s.Define(name, r)
	}
	return nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func parseAtlas(data []byte) (map[string]grove.Rect, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse atlas JSON: %w", err)
	}

	var frames map[string]jsonFrame
	switch {
	case probe.Textures != nil:
		var pages []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &pages); err != nil {
			return nil, fmt.Errorf("parse atlas textures: %w", err)
		}
		if len(pages) != 1 {
			return nil, fmt.Errorf("atlas has %d pages, want 1", len(pages))
		}
		frames = pages[0].Frames
	case probe.Frames != nil:
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("parse atlas frames: %w", err)
		}
	default:
		return nil, errors.New("atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	out := make(map[string]grove.Rect, len(frames))
	for name, f := range frames {
		if f.Rotated {
			return nil, fmt.Errorf("atlas frame %q is rotated, which is not supported", name)
		}
		out[name] = grove.Rect{X: float64(f.Frame.X), Y: float64(f.Frame.Y), Width: float64(f.Frame.W), Height: float64(f.Frame.H)}
	}
	return out, nil
}
