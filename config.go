package grove

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls engine pacing and the default window/world settings shared
// by the backends.
type Config struct {
	TargetFPS int           `env:"GROVE_TARGET_FPS" envDefault:"60"`
	RunFor    time.Duration `env:"GROVE_RUN_FOR"`
	Debug     bool          `env:"GROVE_DEBUG"`

	Width  int    `env:"GROVE_WIDTH"  envDefault:"640"`
	Height int    `env:"GROVE_HEIGHT" envDefault:"480"`
	Title  string `env:"GROVE_TITLE"  envDefault:"grove"`

	GravityX float64 `env:"GROVE_GRAVITY_X"`
	GravityY float64 `env:"GROVE_GRAVITY_Y" envDefault:"600"`
}

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() Config {
	return Config{
		TargetFPS: 60,
		Width:     640,
		Height:    480,
		Title:     "grove",
		GravityY:  600,
	}
}

// LoadConfig reads a Config from GROVE_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// ParseEnv loads any env-tagged struct. Backend packages use it for their own
// configuration.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// FrameDuration is the minimum frame time implied by TargetFPS, zero when
// pacing is disabled.
func (c Config) FrameDuration() float64 {
	if c.TargetFPS <= 0 {
		return 0
	}
	return 1 / float64(c.TargetFPS)
}
