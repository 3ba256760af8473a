package grove

import "sort"

type drawEntry struct {
	node     *Node
	priority int
	seq      uint64
}

// DrawSet is the ordering renderers share: ascending priority, then
// registration order. Registering a node again moves it to its new priority.
type DrawSet struct {
	entries []drawEntry
	index   map[*Node]drawEntry
	seq     uint64
}

// NewDrawSet returns an empty set.
func NewDrawSet() *DrawSet {
	return &DrawSet{index: make(map[*Node]drawEntry)}
}

// Add inserts n at priority, replacing any earlier entry for n.
func (s *DrawSet) Add(n *Node, priority int) {
	if old, ok := s.index[n]; ok {
		if old.priority == priority {
			return
		}
		s.remove(old)
	}
	s.seq++
	e := drawEntry{node: n, priority: priority, seq: s.seq}
	i := sort.Search(len(s.entries), func(i int) bool {
		return less(e, s.entries[i])
	})
	s.entries = append(s.entries, drawEntry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = e
	s.index[n] = e
}

// Remove deletes n using the priority it was added with. No-op if absent.
func (s *DrawSet) Remove(n *Node) {
	if old, ok := s.index[n]; ok {
		s.remove(old)
	}
}

func (s *DrawSet) remove(e drawEntry) {
	i := sort.Search(len(s.entries), func(i int) bool {
		return !less(s.entries[i], e)
	})
	if i < len(s.entries) && s.entries[i].node == e.node {
		copy(s.entries[i:], s.entries[i+1:])
		s.entries[len(s.entries)-1] = drawEntry{}
		s.entries = s.entries[:len(s.entries)-1]
	}
	delete(s.index, e.node)
}

func less(a, b drawEntry) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

// Len returns the number of nodes in the set.
func (s *DrawSet) Len() int { return len(s.entries) }

// Contains reports whether n is in the set.
func (s *DrawSet) Contains(n *Node) bool {
	_, ok := s.index[n]
	return ok
}

// Each calls fn for every node in draw order. fn must not modify the set.
func (s *DrawSet) Each(fn func(n *Node)) {
	for _, e := range s.entries {
		fn(e.node)
	}
}
