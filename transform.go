package grove

// WorldScale returns the product of the node's scale and every ancestor's.
func (n *Node) WorldScale() float64 {
	s := 1.0
	for p := n; p != nil; p = p.parent {
		s *= p.Scale
	}
	return s
}

// Position returns the node's world position: the parent's position plus the
// node's offset. Offsets are not scaled by ancestors.
func (n *Node) Position() Vec2 {
	pos := Vec2{n.X, n.Y}
	for p := n.parent; p != nil; p = p.parent {
		pos.X += p.X
		pos.Y += p.Y
	}
	return pos
}

// SetPosition moves the node so that Position returns p.
func (n *Node) SetPosition(p Vec2) {
	var base Vec2
	if n.parent != nil {
		base = n.parent.Position()
	}
	n.X = p.X - base.X
	n.Y = p.Y - base.Y
}

// Size returns the base size multiplied by the world scale.
func (n *Node) Size() Vec2 {
	s := n.WorldScale()
	return Vec2{n.Width * s, n.Height * s}
}

// Bounds returns the node's world-space rectangle.
func (n *Node) Bounds() Rect {
	p := n.Position()
	s := n.Size()
	return Rect{X: p.X, Y: p.Y, Width: s.X, Height: s.Y}
}

// ScaleToWidth sets Scale so that Size().X equals w. No-op for zero width.
func (n *Node) ScaleToWidth(w float64) {
	if n.Width == 0 {
		return
	}
	n.Scale = 1
	n.Scale = w / (n.Width * n.WorldScale())
}

// ScaleToHeight sets Scale so that Size().Y equals h. No-op for zero height.
func (n *Node) ScaleToHeight(h float64) {
	if n.Height == 0 {
		return
	}
	n.Scale = 1
	n.Scale = h / (n.Height * n.WorldScale())
}

// WorldToLocal converts a world point into the node's local, unscaled
// coordinates.
func (n *Node) WorldToLocal(wx, wy float64) (float64, float64) {
	p := n.Position()
	s := n.WorldScale()
	if s == 0 {
		return 0, 0
	}
	return (wx - p.X) / s, (wy - p.Y) / s
}
