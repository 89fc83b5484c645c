// Package shape knows the geometry of each node type: bounding dimensions,
// boundary edge-points for connections, anchor snapping, and body hit tests.
// Rectangular types (variable, stock, flow) use their bounding box as the
// boundary; converter, cloud and loop markers use the inscribed ellipse.
package shape

import (
	"math"

	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/geo"
)

// EdgePoint returns where a connection meets the node's boundary.
//
// A fixed anchor pins the midpoint of that side. For elliptical types the
// axis points of the inscribed ellipse coincide with the side midpoints, so
// the same values serve both families.
//
// Auto derives the exit point from the direction toward the far end: the
// exact ray-boundary intersection for rectangles, the parametric ellipse
// point for elliptical types.
func EdgePoint(n *diagram.Node, toward *geo.Point, anchor diagram.Anchor) *geo.Point {
	w, h := n.Size()
	hw, hh := w/2, h/2

	switch anchor {
	case diagram.AnchorTop:
		return geo.NewPoint(n.X, n.Y-hh)
	case diagram.AnchorBottom:
		return geo.NewPoint(n.X, n.Y+hh)
	case diagram.AnchorLeft:
		return geo.NewPoint(n.X-hw, n.Y)
	case diagram.AnchorRight:
		return geo.NewPoint(n.X+hw, n.Y)
	}

	angle := math.Atan2(toward.Y-n.Y, toward.X-n.X)

	if n.Type.IsElliptical() {
		return geo.NewEllipse(n.Center(), hw, hh).PointAtAngle(angle)
	}

	// ray-box intersection: extend the ray well past the boundary so the
	// segment always crosses it, regardless of where toward sits
	reach := n.Center().DistanceTo(toward) + hw + hh
	far := geo.NewPoint(n.X+reach*math.Cos(angle), n.Y+reach*math.Sin(angle))
	if pts := n.NodeBox().Intersections(*geo.NewSegment(n.Center(), far)); len(pts) > 0 {
		return pts[0]
	}

	// a ray through an exact corner can slip past both adjacent edges in
	// floating point; land on the corner itself
	return geo.NewPoint(
		n.X+hw*float64(geo.Sign(math.Cos(angle))),
		n.Y+hh*float64(geo.Sign(math.Sin(angle))),
	)
}

// anchorSides is also the tie-break order for ClosestAnchorSide.
var anchorSides = []diagram.Anchor{
	diagram.AnchorTop,
	diagram.AnchorBottom,
	diagram.AnchorLeft,
	diagram.AnchorRight,
}

// SideMidpoint returns the midpoint of the given bounding-box side.
func SideMidpoint(n *diagram.Node, side diagram.Anchor) *geo.Point {
	w, h := n.Size()
	switch side {
	case diagram.AnchorTop:
		return geo.NewPoint(n.X, n.Y-h/2)
	case diagram.AnchorBottom:
		return geo.NewPoint(n.X, n.Y+h/2)
	case diagram.AnchorLeft:
		return geo.NewPoint(n.X-w/2, n.Y)
	default:
		return geo.NewPoint(n.X+w/2, n.Y)
	}
}

// ClosestAnchorSide returns the discrete side whose midpoint is nearest to
// p. Ties resolve to the first match in top, bottom, left, right order so
// snapping is deterministic.
func ClosestAnchorSide(n *diagram.Node, p *geo.Point) diagram.Anchor {
	best := anchorSides[0]
	bestDist := math.Inf(1)
	for _, side := range anchorSides {
		if d := SideMidpoint(n, side).DistanceTo(p); d < bestDist {
			best = side
			bestDist = d
		}
	}
	return best
}

// Contains reports whether p hits the node's body.
func Contains(n *diagram.Node, p *geo.Point) bool {
	w, h := n.Size()
	if n.Type.IsElliptical() {
		return geo.NewEllipse(n.Center(), w/2, h/2).Contains(p)
	}
	return n.NodeBox().Contains(p)
}
