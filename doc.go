// Package grove is a small real-time application runtime: a tree of named
// nodes, a per-frame update loop, and a double-buffered event queue that
// decouples input producers from node handlers.
//
// Graphics, physics and audio are backends behind registration interfaces.
// The engine registers every active node with each subsystem its components
// qualify it for and calls each subsystem once per frame.
//
// # Quick start
//
//	engine := grove.NewEngine(grove.DefaultConfig(),
//		grove.WithRenderer(renderer),
//		grove.WithPhysics(physics.NewWorld(0, 600)),
//	)
//
//	bird := grove.NewNode("bird")
//	bird.Sprite = grove.NewSprite(grove.Color{R: 1, G: 0.8, A: 1})
//	bird.Body = grove.NewBody(grove.BodyDynamic)
//	bird.OnLoop = func(n *grove.Node, dt float64) error { return nil }
//	_ = bird.AttachHandler(grove.KeyHandler(grove.KeySpace, flap))
//	engine.AddChild(bird)
//
//	err := engine.Start(ctx)
//
// # Node tree
//
// Every element is a [Node]. A node keeps the name it was created with and
// the name it was registered under in its parent; colliding names get a
// numeric suffix ("Pipe", "Pipe_1", "Pipe_2"). [Node.Find] resolves
// slash separated paths of registered names.
//
// Adding a node under an active parent registers the whole subtree with the
// engine. Removing it unregisters the subtree; the nodes leave the active
// set at the top of the next frame, so removals from inside a loop callback
// are safe.
//
// # Frame
//
// Each [Engine.Step] drains the input source into the event queue, drops
// nodes removed during the previous frame, measures delta time, runs every
// active node's OnLoop, dispatches queued events, steps physics and renders.
//
// # Events
//
// Handlers are bound to a node and route by [EventType]. Every matching
// handler sees every event; there is no consumption. A handler whose owner
// has been unregistered is skipped.
//
// Backends live in sub-packages: ebitengine (window, input, sprites,
// camera), terminal (tcell), raster (headless images via gg), physics,
// audio (beep) and ecs (Donburi event mirror).
package grove
