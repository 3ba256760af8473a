package grove

// SpriteShape selects how a renderer fills a sprite without a texture region.
type SpriteShape uint8

const (
	ShapeRect SpriteShape = iota
	ShapeCircle
)

// Sprite makes a node drawable. Renderers draw it over the node's Bounds.
type Sprite struct {
	Z     int // draw priority, lower draws first
	Color Color
	Shape SpriteShape

	// Region names a sprite sheet region. Renderers without textures ignore it.
	Region string
	// Frames, when non-empty, cycles Region through these names advancing
	// every FrameTicks rendered frames.
	Frames     []string
	FrameTicks int
	// Glyph is used by cell-based renderers.
	Glyph rune
	// Hidden sprites stay registered but are skipped when drawing.
	Hidden bool

	frame, tick int
}

// NewSprite returns a sprite with the given fill color.
func NewSprite(c Color) *Sprite {
	return &Sprite{Color: c}
}

// Advance steps the frame animation by one rendered frame and returns the
// current region name.
func (s *Sprite) Advance() string {
	if len(s.Frames) == 0 {
		return s.Region
	}
	ticks := s.FrameTicks
	if ticks < 1 {
		ticks = 1
	}
	s.tick++
	if s.tick >= ticks {
		s.tick = 0
		s.frame = (s.frame + 1) % len(s.Frames)
	}
	s.Region = s.Frames[s.frame]
	return s.Region
}

// BodyType selects how physics treats a body.
type BodyType uint8

const (
	BodyStatic    BodyType = iota // never moves, blocks others
	BodyKinematic                 // moves by velocity only
	BodyDynamic                   // velocity, gravity and collision response
)

// Body makes a node a physics participant. The physics registry reads and
// writes the owning node's position.
type Body struct {
	Type         BodyType
	VX, VY       float64
	GravityScale float64
	// Sensor bodies report contacts without blocking.
	Sensor bool
	// OnContact fires once per step for every overlapping pair the body is in.
	OnContact func(self, other *Node)
}

// NewBody returns a body of the given type with unit gravity scale.
func NewBody(t BodyType) *Body {
	return &Body{Type: t, GravityScale: 1}
}

// Sound makes a node audible. It is bound to the engine's audio output while
// the node is active.
type Sound struct {
	Clip     string
	Volume   float64 // 1 is unchanged, 0 is silent
	Loop     bool
	Autoplay bool // play once when the node is registered

	out AudioOutput
}

// NewSound returns a sound for the named clip at full volume.
func NewSound(clip string) *Sound {
	return &Sound{Clip: clip, Volume: 1}
}

// Play starts playback through the bound output.
func (s *Sound) Play() error {
	if s.out == nil {
		return ErrNoAudio
	}
	return s.out.Play(s)
}

// Bound reports whether the sound is attached to an audio output.
func (s *Sound) Bound() bool {
	return s.out != nil
}
