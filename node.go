package grove

import (
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
)

// NodeID identifies a node for the life of the process. IDs are never reused,
// so a stale ID never resolves to a different node.
type NodeID uint32

var nodeIDCounter atomic.Uint32

func nextNodeID() NodeID {
	return NodeID(nodeIDCounter.Add(1))
}

// Node is the scene graph element. A single flat struct carries the tree
// links, the behaviour callbacks and the optional components that decide
// which subsystems the node registers with.
//
// Nodes are not safe for concurrent use. Mutate the tree from the goroutine
// driving the engine.
type Node struct {
	ID NodeID

	desiredName string
	name        string

	parent   *Node
	children []*Node
	byName   map[string]*Node

	// Offset from the parent's position, base size and uniform scale.
	X, Y          float64
	Width, Height float64
	Scale         float64

	// OnInit runs once each time the node is registered with an engine,
	// after component setup.
	OnInit func(n *Node)
	// OnLoop runs every frame while the node is active. A returned error
	// aborts the frame.
	OnLoop func(n *Node, dt float64) error

	// Components. Assign Sprite and Body before the node is active; use
	// SetSprite and SetBody afterwards so the registries follow.
	Sprite   *Sprite
	Body     *Body
	Sound    *Sound
	HitShape HitShape

	UserData any

	handlers   []*Handler
	engine     *Engine
	registered Capability
	regSeq     uint64
}

// NewNode creates an unattached node. Its resolved name is assigned when it is
// added to a parent.
func NewNode(name string) *Node {
	if name == "" {
		name = "node"
	}
	return &Node{
		ID:          nextNodeID(),
		desiredName: name,
		Scale:       1,
	}
}

// DesiredName returns the name the node was created with.
func (n *Node) DesiredName() string { return n.desiredName }

// Name returns the name the node is registered under in its parent, or the
// desired name when the node has no parent.
func (n *Node) Name() string {
	if n.parent == nil {
		return n.desiredName
	}
	return n.name
}

// Parent returns the node's parent, nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Engine returns the engine the node is registered with, nil when inactive.
func (n *Node) Engine() *Engine { return n.engine }

// Active reports whether the node is registered with an engine.
func (n *Node) Active() bool { return n.engine != nil }

// Children returns the child list in insertion order. The returned slice MUST
// NOT be mutated by the caller.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// Path returns the slash separated names from the topmost ancestor down to n.
func (n *Node) Path() string {
	var parts []string
	for p := n; p != nil; p = p.parent {
		parts = append(parts, p.Name())
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

// --- Tree manipulation ---

// AddChild appends child under a name unique among n's children: the desired
// name if free, otherwise the first free of name_1, name_2, ...
//
// Adding a node that is already a child of n is a no-op. A child with another
// parent is removed from it first. When n is active the child subtree is
// registered with n's engine.
//
// Panics if child is nil, is an engine root, or is an ancestor of n.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("grove: cannot add nil child")
	}
	if child.parent == n {
		return
	}
	if isAncestor(child, n) {
		panic("grove: adding child would create a cycle")
	}
	if child.parent == nil && child.engine != nil && child.engine.root == child {
		panic("grove: cannot add an engine root as a child")
	}
	if child.parent != nil {
		child.parent.detach(child)
	}

	name := n.uniqueName(child.desiredName)
	if n.byName == nil {
		n.byName = make(map[string]*Node)
	}
	child.name = name
	child.parent = n
	n.children = append(n.children, child)
	n.byName[name] = child

	if n.engine != nil {
		if n.engine.debug {
			debugCheckTreeDepth(child)
			debugCheckChildCount(n)
		}
		n.engine.register(child)
	}
}

func (n *Node) uniqueName(desired string) string {
	if _, taken := n.byName[desired]; !taken {
		return desired
	}
	for i := 1; ; i++ {
		candidate := desired + "_" + strconv.Itoa(i)
		if _, taken := n.byName[candidate]; !taken {
			return candidate
		}
	}
}

// Child returns the child at index.
func (n *Node) Child(index int) (*Node, error) {
	if index < 0 || index >= len(n.children) {
		return nil, &TreeError{Op: "child", Path: n.Path(), Index: index, Err: ErrOutOfRange}
	}
	return n.children[index], nil
}

// Find resolves a slash separated path of resolved names relative to n.
// "a/b" is the child b of n's child a.
func (n *Node) Find(path string) (*Node, error) {
	cur := n
	for _, seg := range strings.Split(path, "/") {
		next, ok := cur.byName[seg]
		if !ok || seg == "" {
			return nil, &TreeError{Op: "find", Path: cur.Path(), Index: -1, Name: seg, Err: ErrNotFound}
		}
		cur = next
	}
	return cur, nil
}

// Lookup resolves path like Find and additionally requires the node to carry
// every capability in want.
func (n *Node) Lookup(path string, want Capability) (*Node, error) {
	found, err := n.Find(path)
	if err != nil {
		return nil, err
	}
	if err := checkCapability(found, want); err != nil {
		return nil, err
	}
	return found, nil
}

// RemoveChildAt detaches and returns the child at index. An active child is
// unregistered together with its subtree.
func (n *Node) RemoveChildAt(index int) (*Node, error) {
	if index < 0 || index >= len(n.children) {
		return nil, &TreeError{Op: "remove", Path: n.Path(), Index: index, Err: ErrOutOfRange}
	}
	child := n.children[index]
	n.detach(child)
	return child, nil
}

// RemoveChild detaches and returns the child registered under name.
func (n *Node) RemoveChild(name string) (*Node, error) {
	child, ok := n.byName[name]
	if !ok {
		return nil, &TreeError{Op: "remove", Path: n.Path(), Index: -1, Name: name, Err: ErrNotFound}
	}
	n.detach(child)
	return child, nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.detach(n)
}

// detach unregisters child when active, then unlinks it from both the child
// sequence and the name index.
func (n *Node) detach(child *Node) {
	if child.engine != nil {
		child.engine.unregister(child)
	}
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			break
		}
	}
	delete(n.byName, child.name)
	child.parent = nil
	child.name = ""
}

// Capabilities reports the subsystem roles the node currently qualifies for.
func (n *Node) Capabilities() Capability {
	var c Capability
	if n.Sprite != nil {
		c |= CapDrawable
	}
	if n.Body != nil {
		c |= CapBody
	}
	if n.Sound != nil {
		c |= CapAudio
	}
	if n.HitShape != nil {
		c |= CapHitTest
	}
	if len(n.handlers) > 0 {
		c |= CapHandlers
	}
	return c
}

// SetDrawPriority changes the sprite's draw priority and moves the node
// within the renderer's ordering when active. No-op without a Sprite.
func (n *Node) SetDrawPriority(z int) {
	if n.Sprite == nil {
		return
	}
	n.Sprite.Z = z
	if n.registered&CapDrawable != 0 {
		n.engine.renderer.Register(n, z)
	}
}

// SetSprite replaces the sprite. An active node is moved into or out of the
// engine's renderer to match.
func (n *Node) SetSprite(s *Sprite) {
	if e := n.engine; e != nil {
		e.unregisterSprite(n)
		n.Sprite = s
		e.registerSprite(n)
		return
	}
	n.Sprite = s
}

// SetBody replaces the body. An active node is moved into or out of the
// engine's physics registry to match.
func (n *Node) SetBody(b *Body) {
	if e := n.engine; e != nil {
		e.unregisterBody(n)
		n.Body = b
		e.registerBody(n)
		return
	}
	n.Body = b
}

// Clone returns a deep copy of n's subtree. The copy is detached and
// inactive; components are copied, handlers are re-created for the copies
// and names are resolved again as the copies are inserted.
func (n *Node) Clone() *Node {
	c := &Node{
		ID:          nextNodeID(),
		desiredName: n.desiredName,
		X:           n.X,
		Y:           n.Y,
		Width:       n.Width,
		Height:      n.Height,
		Scale:       n.Scale,
		OnInit:      n.OnInit,
		OnLoop:      n.OnLoop,
		HitShape:    n.HitShape,
		UserData:    n.UserData,
	}
	if n.Sprite != nil {
		s := *n.Sprite
		s.Frames = slices.Clone(n.Sprite.Frames)
		c.Sprite = &s
	}
	if n.Body != nil {
		b := *n.Body
		c.Body = &b
	}
	if n.Sound != nil {
		s := *n.Sound
		s.out = nil
		c.Sound = &s
	}
	for _, h := range n.handlers {
		hc := &Handler{typ: h.typ, requires: h.requires, fn: h.fn, owner: c.ID}
		c.handlers = append(c.handlers, hc)
	}
	for _, child := range n.children {
		c.AddChild(child.Clone())
	}
	return c
}

// init runs component setup and the user init callback.
func (n *Node) init() {
	if n.Sound != nil {
		n.Sound.out = n.engine.audio
		if n.Sound.Autoplay {
			if err := n.Sound.Play(); err != nil {
				Logger().Warn("autoplay failed", "node", n.Path(), "clip", n.Sound.Clip, "err", err)
			}
		}
	}
	if n.OnInit != nil {
		n.OnInit(n)
	}
}

func (n *Node) loop(dt float64) error {
	if n.OnLoop == nil {
		return nil
	}
	return n.OnLoop(n, dt)
}

// isAncestor reports whether candidate is an ancestor of node or node itself.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}
