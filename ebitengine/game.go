// Package ebitengine runs a grove engine inside an Ebitengine window.
//
// Ebitengine owns the main loop: each Update tick collects input, steps the
// engine once and advances the camera; Draw submits what the step rendered.
//
//	r := ebitengine.NewRenderer(cfg.Width, cfg.Height)
//	in := ebitengine.NewInput(r.Camera)
//	e := grove.NewEngine(cfg, grove.WithRenderer(r), grove.WithInput(in))
//	err := ebitengine.Run(e, r, in, ebitengine.RunConfig{Title: "demo"})
package ebitengine

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/grove"
)

// RunConfig controls the window. Zero sizes fall back to the engine config.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
	Resizable     bool
}

// Game adapts a grove engine to ebiten.Game.
type Game struct {
	engine   *grove.Engine
	renderer *Renderer
	input    *Input
	step     func() error
	width    int
	height   int
}

// Update implements ebiten.Game. A stopped engine terminates the game.
func (g *Game) Update() error {
	if g.input != nil {
		g.input.Collect()
	}
	if err := g.step(); err != nil {
		if errors.Is(err, grove.ErrStopped) {
			return ebiten.Termination
		}
		return err
	}
	if g.renderer != nil && g.renderer.Camera != nil {
		g.renderer.Camera.Update(1 / float64(ebiten.TPS()))
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.renderer != nil {
		g.renderer.Draw(screen)
	}
}

// Layout implements ebiten.Game with a fixed logical screen.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run opens a window and drives e until it stops or the window closes.
// Ebitengine paces frames at the engine's target FPS, so the engine's own
// pacing is disabled. Returns nil on a normal stop.
func Run(e *grove.Engine, r *Renderer, in *Input, cfg RunConfig) error {
	ecfg := e.Config()
	if cfg.Width <= 0 {
		cfg.Width = ecfg.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = ecfg.Height
	}
	if cfg.Title == "" {
		cfg.Title = ecfg.Title
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowClosingHandled(true)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if ecfg.TargetFPS > 0 {
		ebiten.SetTPS(ecfg.TargetFPS)
	}
	if cfg.ShowFPS && r != nil {
		e.AddChild(NewFPSOverlay(r))
	}
	e.DisablePacing()

	return e.Drive(func(step func() error) error {
		g := &Game{
			engine:   e,
			renderer: r,
			input:    in,
			step:     step,
			width:    cfg.Width,
			height:   cfg.Height,
		}
		return ebiten.RunGame(g)
	})
}

// Engine returns the engine the game drives.
func (g *Game) Engine() *grove.Engine { return g.engine }
