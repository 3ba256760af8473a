// Package terminal runs grove applications in a text terminal through tcell.
// Each world-space rectangle is mapped onto character cells.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/grove"
)

// Config controls the cell mapping and input pump.
type Config struct {
	// CellWidth and CellHeight are the world units covered by one cell.
	CellWidth  float64 `env:"GROVE_TERM_CELL_WIDTH"  envDefault:"8"`
	CellHeight float64 `env:"GROVE_TERM_CELL_HEIGHT" envDefault:"16"`
	Mouse      bool    `env:"GROVE_TERM_MOUSE"       envDefault:"true"`
	// QueueSize bounds the input records buffered between frames.
	QueueSize int `env:"GROVE_TERM_QUEUE" envDefault:"256"`
}

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() Config {
	return Config{CellWidth: 8, CellHeight: 16, Mouse: true, QueueSize: 256}
}

// LoadConfig reads a Config from GROVE_TERM_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := grove.ParseEnv(&cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Screen owns the terminal for its lifetime. Close restores it.
type Screen struct {
	tcell.Screen
	cfg Config
}

// Open takes over the controlling terminal.
func Open(cfg Config) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	if cfg.Mouse {
		s.EnableMouse()
	}
	s.Clear()
	return &Screen{Screen: s, cfg: normalize(cfg)}, nil
}

// NewSimulated returns an in-memory screen of w×h cells.
func NewSimulated(w, h int, cfg Config) (*Screen, error) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init simulation screen: %w", err)
	}
	s.SetSize(w, h)
	return &Screen{Screen: s, cfg: normalize(cfg)}, nil
}

// Config returns the screen's cell mapping.
func (s *Screen) Config() Config { return s.cfg }

// Close restores the terminal. Pending PollEvent calls return nil.
func (s *Screen) Close() {
	s.Fini()
}

// CellAt converts a world position to the cell containing it.
func (s *Screen) CellAt(x, y float64) (int, int) {
	return int(x / s.cfg.CellWidth), int(y / s.cfg.CellHeight)
}

// CellCenter converts a cell to the world position at its center.
func (s *Screen) CellCenter(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * s.cfg.CellWidth, (float64(cy) + 0.5) * s.cfg.CellHeight
}

func normalize(cfg Config) Config {
	if cfg.CellWidth <= 0 {
		cfg.CellWidth = 1
	}
	if cfg.CellHeight <= 0 {
		cfg.CellHeight = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	return cfg
}
