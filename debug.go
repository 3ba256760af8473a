package grove

import "time"

// debugMaxTreeDepth is the depth above which AddChild warns in debug mode.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "node", n.Path())
	}
}

// debugMaxChildCount is the child count above which AddChild warns in debug mode.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		Logger().Warn("child count exceeds threshold",
			"node", n.Path(), "children", len(n.children), "threshold", debugMaxChildCount)
	}
}

func debugLogFrame(e *Engine, dt float64, dispatched int, took time.Duration) {
	Logger().Debug("frame",
		"frame", e.frame,
		"dt", dt,
		"active", len(e.active),
		"events", dispatched,
		"took", took)
}
