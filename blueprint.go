package grove

import "fmt"

// Blueprints is a named catalogue of prototype subtrees. Build returns a
// fresh clone on every call.
type Blueprints struct {
	protos map[string]*Node
}

// NewBlueprints returns an empty catalogue.
func NewBlueprints() *Blueprints {
	return &Blueprints{protos: make(map[string]*Node)}
}

// Add stores proto under name. The prototype should stay detached; it is
// never registered itself.
func (b *Blueprints) Add(name string, proto *Node) error {
	if _, ok := b.protos[name]; ok {
		return fmt.Errorf("blueprint %q: %w", name, ErrDuplicateBlueprint)
	}
	b.protos[name] = proto
	return nil
}

// Remove deletes the blueprint. No-op if absent.
func (b *Blueprints) Remove(name string) {
	delete(b.protos, name)
}

// Has reports whether a blueprint named name exists.
func (b *Blueprints) Has(name string) bool {
	_, ok := b.protos[name]
	return ok
}

// Build clones the named prototype.
func (b *Blueprints) Build(name string) (*Node, error) {
	proto, ok := b.protos[name]
	if !ok {
		return nil, fmt.Errorf("blueprint %q: %w", name, ErrUnknownBlueprint)
	}
	return proto.Clone(), nil
}

// BuildWith clones the named prototype and checks the clone carries want.
func (b *Blueprints) BuildWith(name string, want Capability) (*Node, error) {
	n, err := b.Build(name)
	if err != nil {
		return nil, err
	}
	if err := checkCapability(n, want); err != nil {
		return nil, err
	}
	return n, nil
}
