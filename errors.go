package grove

import (
	"errors"
	"fmt"
)

// Sentinel errors. Structured errors below wrap these so callers can match
// with errors.Is.
var (
	ErrNotFound           = errors.New("grove: node not found")
	ErrOutOfRange         = errors.New("grove: child index out of range")
	ErrCapability         = errors.New("grove: capability mismatch")
	ErrAlreadyRunning     = errors.New("grove: engine already running")
	ErrStopped            = errors.New("grove: engine stopped")
	ErrDuplicateBlueprint = errors.New("grove: duplicate blueprint")
	ErrUnknownBlueprint   = errors.New("grove: unknown blueprint")
	ErrHandlerBound       = errors.New("grove: handler already bound")
	ErrNoAudio            = errors.New("grove: no audio output")
)

// TreeError reports a failed tree query or mutation.
type TreeError struct {
	Op    string // "child", "find", "remove"
	Path  string // path of the node the operation ran on
	Index int    // requested index, -1 for name based operations
	Name  string // requested name or unresolved path segment
	Err   error  // ErrNotFound or ErrOutOfRange
}

func (e *TreeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s %s[%d]: %v", e.Op, e.Path, e.Index, e.Err)
	}
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Path, e.Name, e.Err)
}

func (e *TreeError) Unwrap() error { return e.Err }

// CapabilityError reports that a node lacks a capability an operation
// requires.
type CapabilityError struct {
	Path string
	Have Capability
	Want Capability
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%v: node %s has %v, want %v", ErrCapability, e.Path, e.Have, e.Want)
}

// Is matches ErrCapability and any other *CapabilityError.
func (e *CapabilityError) Is(target error) bool {
	if target == ErrCapability {
		return true
	}
	_, ok := target.(*CapabilityError)
	return ok
}

func checkCapability(n *Node, want Capability) error {
	have := n.Capabilities()
	if have&want != want {
		return &CapabilityError{Path: n.Path(), Have: have, Want: want}
	}
	return nil
}
