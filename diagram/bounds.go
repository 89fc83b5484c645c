package diagram

import (
	"github.com/loopcanvas/loopcanvas/lib/geo"
)

// NodeBox returns the node's bounding box in canvas space.
func (n *Node) NodeBox() *geo.Box {
	w, h := n.Size()
	return geo.NewBoxFromCenter(geo.NewPoint(n.X, n.Y), w, h)
}

func (n *Node) Center() *geo.Point {
	return geo.NewPoint(n.X, n.Y)
}

// BoundingBox is the tight box around every node, each expanded by margin.
// Returns nil for an empty diagram.
func (d *Diagram) BoundingBox(margin float64) *geo.Box {
	var box *geo.Box
	for i := range d.Elements {
		box = box.Union(d.Elements[i].NodeBox().Expand(margin))
	}
	return box
}
