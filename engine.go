package grove

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Engine owns the active node set and the subsystem registries and drives
// the per-frame loop. The node tree and the engine are not safe for
// concurrent use; only Post, Stop and Running may be called from other
// goroutines.
type Engine struct {
	cfg  Config
	root *Node

	// active keeps registration order; activeIdx mirrors it for membership.
	active    []*Node
	activeIdx map[*Node]int
	// dead holds nodes unregistered since the last reconcile. They stay in
	// active until the top of the next frame.
	dead  map[*Node]struct{}
	nodes map[NodeID]*Node

	queue    *EventQueue
	renderer DrawableRegistry
	physics  BodyRegistry
	audio    AudioOutput
	input    InputSource
	clock    Clock

	minFrame float64
	debug    bool

	running   sync.Mutex
	isRunning atomic.Bool
	stopReq   atomic.Bool

	frame   uint64
	elapsed float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithRenderer registers drawable nodes with r and calls r.RenderFrame each frame.
func WithRenderer(r DrawableRegistry) Option { return func(e *Engine) { e.renderer = r } }

// WithPhysics registers body nodes with p and calls p.StepFrame each frame.
func WithPhysics(p BodyRegistry) Option { return func(e *Engine) { e.physics = p } }

// WithAudio binds every Sound component to out while its node is active.
func WithAudio(out AudioOutput) Option { return func(e *Engine) { e.audio = out } }

// WithInput drains src at the top of every frame.
func WithInput(src InputSource) Option { return func(e *Engine) { e.input = src } }

// WithClock replaces the wall clock used for pacing and delta time.
func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

// WithEventSink forwards every dispatched event to sink.
func WithEventSink(sink EventSink) Option { return func(e *Engine) { e.queue.SetSink(sink) } }

// NewEngine creates an idle engine with a registered root node named "root".
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		activeIdx: make(map[*Node]int),
		dead:      make(map[*Node]struct{}),
		nodes:     make(map[NodeID]*Node),
		minFrame:  cfg.FrameDuration(),
		debug:     cfg.Debug,
	}
	e.queue = NewEventQueue(e.resolve)
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = NewClock()
	}
	e.root = NewNode("root")
	e.register(e.root)
	return e
}

// Root returns the engine's root node.
func (e *Engine) Root() *Node { return e.root }

// Config returns the configuration the engine was created with.
func (e *Engine) Config() Config { return e.cfg }

// Events returns the engine's event queue.
func (e *Engine) Events() *EventQueue { return e.queue }

// Audio returns the configured audio output, nil when none.
func (e *Engine) Audio() AudioOutput { return e.audio }

// SetDebug toggles tree sanity warnings and per-frame debug logging.
func (e *Engine) SetDebug(on bool) { e.debug = on }

// DisablePacing turns off the frame-rate wait. Use it when an outer loop
// already paces Step.
func (e *Engine) DisablePacing() { e.minFrame = 0 }

// AddChild adds n under the root.
func (e *Engine) AddChild(n *Node) { e.root.AddChild(n) }

// Child returns the root's child at index.
func (e *Engine) Child(index int) (*Node, error) { return e.root.Child(index) }

// Find resolves path relative to the root.
func (e *Engine) Find(path string) (*Node, error) { return e.root.Find(path) }

// Lookup resolves path relative to the root and checks capabilities.
func (e *Engine) Lookup(path string, want Capability) (*Node, error) {
	return e.root.Lookup(path, want)
}

// RemoveChild removes the root's child registered under name.
func (e *Engine) RemoveChild(name string) (*Node, error) { return e.root.RemoveChild(name) }

// RemoveChildAt removes the root's child at index.
func (e *Engine) RemoveChildAt(index int) (*Node, error) { return e.root.RemoveChildAt(index) }

// Post enqueues ev for the next dispatch. Safe for concurrent use.
func (e *Engine) Post(ev Event) { e.queue.Enqueue(ev) }

// ActiveCount returns the number of registered nodes, root included.
func (e *Engine) ActiveCount() int { return len(e.nodes) }

// IsActive reports whether n is registered with e.
func (e *Engine) IsActive(n *Node) bool { return n != nil && n.engine == e }

// Node resolves an ID to a registered node.
func (e *Engine) Node(id NodeID) (*Node, bool) { return e.resolve(id) }

// Frame returns the number of completed frames.
func (e *Engine) Frame() uint64 { return e.frame }

// Running reports whether Start or Drive is in progress.
func (e *Engine) Running() bool { return e.isRunning.Load() }

func (e *Engine) resolve(id NodeID) (*Node, bool) {
	n, ok := e.nodes[id]
	if !ok || n.engine != e {
		return nil, false
	}
	return n, true
}

// --- Registration ---

// register binds n and its subtree to the engine. Registering an already
// active node is a no-op.
func (e *Engine) register(n *Node) {
	if n.engine == e {
		return
	}
	if n.engine != nil {
		panic("grove: node is registered with another engine")
	}
	n.engine = e
	n.regSeq++
	seq := n.regSeq
	e.nodes[n.ID] = n
	n.init()
	// init removed the node, or removed and re-added it.
	if n.engine != e || n.regSeq != seq {
		return
	}

	delete(e.dead, n)
	if _, ok := e.activeIdx[n]; !ok {
		e.activeIdx[n] = len(e.active)
		e.active = append(e.active, n)
	}

	e.registerSprite(n)
	e.registerBody(n)
	for _, h := range n.handlers {
		e.queue.addHandler(h)
	}
	if e.debug {
		Logger().Debug("register", "node", n.Path(), "id", n.ID, "caps", n.Capabilities())
	}

	// init may have added children, which are already registered.
	for _, c := range slices.Clone(n.children) {
		if c.parent == n && n.engine == e {
			e.register(c)
		}
	}
}

// unregister releases n and its subtree, children first. Nodes leave the
// active set at the next reconcile.
func (e *Engine) unregister(n *Node) {
	if n.engine != e {
		return
	}
	for _, c := range slices.Clone(n.children) {
		e.unregister(c)
	}
	e.unregisterSprite(n)
	e.unregisterBody(n)
	for _, h := range n.handlers {
		e.queue.removeHandler(h)
	}
	if n.Sound != nil {
		n.Sound.out = nil
	}
	if e.debug {
		Logger().Debug("unregister", "node", n.Path(), "id", n.ID)
	}
	n.engine = nil
	delete(e.nodes, n.ID)
	if _, ok := e.activeIdx[n]; ok {
		e.dead[n] = struct{}{}
	}
}

// Registry membership is tracked in n.registered so that removal releases
// exactly what was registered, whatever the component fields hold by then.

func (e *Engine) registerSprite(n *Node) {
	if n.Sprite != nil && e.renderer != nil {
		e.renderer.Register(n, n.Sprite.Z)
		n.registered |= CapDrawable
	}
}

func (e *Engine) unregisterSprite(n *Node) {
	if n.registered&CapDrawable != 0 {
		e.renderer.Unregister(n)
		n.registered &^= CapDrawable
	}
}

func (e *Engine) registerBody(n *Node) {
	if n.Body != nil && e.physics != nil {
		e.physics.Register(n)
		n.registered |= CapBody
	}
}

func (e *Engine) unregisterBody(n *Node) {
	if n.registered&CapBody != 0 {
		e.physics.Unregister(n)
		n.registered &^= CapBody
	}
}

// reconcile drops the dead set from the active list.
func (e *Engine) reconcile() {
	if len(e.dead) == 0 {
		return
	}
	kept := e.active[:0]
	for _, n := range e.active {
		if _, dead := e.dead[n]; dead {
			delete(e.activeIdx, n)
			continue
		}
		e.activeIdx[n] = len(kept)
		kept = append(kept, n)
	}
	clear(e.active[len(kept):])
	e.active = kept
	clear(e.dead)
}

// --- Loop ---

// Start runs frames until Stop is called, ctx is cancelled or a frame fails.
// It returns ErrAlreadyRunning when the engine is already running, including
// when called from inside a frame. A stop or cancellation returns nil.
func (e *Engine) Start(ctx context.Context) error {
	return e.Drive(func(step func() error) error {
		for {
			if ctx.Err() != nil {
				return nil
			}
			if err := step(); err != nil {
				if err == ErrStopped {
					return nil
				}
				return err
			}
		}
	})
}

// Drive hands the frame function to an externally paced loop such as a
// windowing library's update callback. It shares Start's re-entrancy guard
// and returns what loop returns.
func (e *Engine) Drive(loop func(step func() error) error) error {
	if !e.running.TryLock() {
		return ErrAlreadyRunning
	}
	defer e.running.Unlock()
	e.isRunning.Store(true)
	defer e.isRunning.Store(false)

	e.stopReq.Store(false)
	e.elapsed = 0
	e.clock.Start()
	Logger().Info("engine started", "nodes", e.ActiveCount())
	err := loop(e.Step)
	Logger().Info("engine stopped", "frames", e.frame, "err", err)
	return err
}

// Stop requests the loop to end. The request is observed at the top of the
// next frame; the current frame completes.
func (e *Engine) Stop() { e.stopReq.Store(true) }

// Step runs one frame: drain input, reconcile removals, measure delta time,
// run every active node's loop, dispatch events, step physics and render.
// It returns ErrStopped without running a frame once a stop was requested.
//
// A node removed earlier in the same frame does not get its loop called,
// even though it stays in the active set until the next reconcile.
func (e *Engine) Step() error {
	if e.stopReq.Load() {
		return ErrStopped
	}
	var start time.Time
	if e.debug {
		start = time.Now()
	}

	e.pollInput()
	e.reconcile()
	dt := e.clock.WaitUntilElapsed(e.minFrame)
	e.elapsed += dt

	// Nodes registered during the loop join next frame; nodes unregistered
	// during it are skipped.
	count := len(e.active)
	for i := 0; i < count; i++ {
		n := e.active[i]
		if n.engine != e {
			continue
		}
		if err := n.loop(dt); err != nil {
			return fmt.Errorf("loop %s: %w", n.Path(), err)
		}
	}

	dispatched := e.queue.Dispatch()

	if e.physics != nil {
		if err := e.physics.StepFrame(dt); err != nil {
			return fmt.Errorf("step physics: %w", err)
		}
	}
	if e.renderer != nil {
		if err := e.renderer.RenderFrame(); err != nil {
			return fmt.Errorf("render frame: %w", err)
		}
	}
	e.frame++

	if e.debug {
		debugLogFrame(e, dt, dispatched, time.Since(start))
	}
	if e.cfg.RunFor > 0 && e.elapsed >= e.cfg.RunFor.Seconds() {
		e.Stop()
	}
	return nil
}

func (e *Engine) pollInput() {
	if e.input == nil {
		return
	}
	for {
		raw, ok := e.input.Poll()
		if !ok {
			return
		}
		if raw.Kind == RawQuit {
			e.Stop()
			continue
		}
		if ev, ok := Translate(raw); ok {
			e.queue.Enqueue(ev)
		}
	}
}
