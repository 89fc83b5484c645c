package render

import (
	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/color"
	"github.com/loopcanvas/loopcanvas/lib/geo"
	"github.com/loopcanvas/loopcanvas/shape"
)

// Corner identifies a resize handle. Naming follows compass directions.
type Corner string

const (
	CornerNW Corner = "nw"
	CornerNE Corner = "ne"
	CornerSE Corner = "se"
	CornerSW Corner = "sw"
)

// Corners in render order.
var Corners = []Corner{CornerNW, CornerNE, CornerSE, CornerSW}

// connectHandleGap pushes the connect handle just outside the right edge so
// it doesn't overlap the node body.
const connectHandleGap = 10.0

// ResizeHandlePos returns the canvas position of one corner handle.
func ResizeHandlePos(n *diagram.Node, c Corner) *geo.Point {
	w, h := n.Size()
	hw, hh := w/2, h/2
	switch c {
	case CornerNW:
		return geo.NewPoint(n.X-hw, n.Y-hh)
	case CornerNE:
		return geo.NewPoint(n.X+hw, n.Y-hh)
	case CornerSE:
		return geo.NewPoint(n.X+hw, n.Y+hh)
	default:
		return geo.NewPoint(n.X-hw, n.Y+hh)
	}
}

// ConnectHandlePos is where the drag-to-connect affordance sits.
func ConnectHandlePos(n *diagram.Node) *geo.Point {
	w, _ := n.Size()
	return geo.NewPoint(n.X+w/2+connectHandleGap, n.Y)
}

// EdgeEndpoints returns the two boundary points of a connection, for the
// endpoint drag handles. ok is false for dangling edges.
func EdgeEndpoints(d *diagram.Diagram, e *diagram.Edge) (src, dst *geo.Point, ok bool) {
	srcNode := d.Node(e.Source)
	dstNode := d.Node(e.Target)
	if srcNode == nil || dstNode == nil {
		return nil, nil, false
	}
	ctrl := geo.CurveControlPoint(srcNode.Center(), dstNode.Center(), e.Curve)
	return shape.EdgePoint(srcNode, ctrl, e.SourceAnchor),
		shape.EdgePoint(dstNode, ctrl, e.TargetAnchor),
		true
}

func handleDot(p *geo.Point, fill string) *Path {
	return pathPrim(shape.CirclePath(p, HandleRadius), fill, color.White, 1, DashSolid)
}

// HandleMarker is a free-floating handle dot, used for the temporary
// endpoint position while one is being dragged.
func HandleMarker(p *geo.Point) Primitive {
	return handleDot(p, color.Selection)
}

// NodeSelection builds the affordances shown while a node is selected: the
// highlight outline, the connect handle, and (except for loop markers,
// which have a fixed size) the four corner resize handles.
func NodeSelection(n *diagram.Node) []Primitive {
	prims := []Primitive{NodeHighlight(n, color.Selection)}
	prims = append(prims, handleDot(ConnectHandlePos(n), color.Selection))
	if !n.Type.IsLoopMarker() {
		for _, c := range Corners {
			prims = append(prims, handleDot(ResizeHandlePos(n, c), color.Selection))
		}
	}
	return prims
}

// EdgeSelection builds the affordances shown while a connection is
// selected: a handle on each boundary endpoint and one on the curve
// midpoint for dragging the bow.
func EdgeSelection(d *diagram.Diagram, e *diagram.Edge) []Primitive {
	src, dst, ok := EdgeEndpoints(d, e)
	if !ok {
		return nil
	}
	q, _ := EdgeCurve(d, e)
	return []Primitive{
		handleDot(src, color.Selection),
		handleDot(dst, color.Selection),
		handleDot(q.At(0.5), color.Selection),
	}
}

// NodeHighlight outlines the node's bounding box, slightly expanded. Used
// for both the selection outline and the drop-target highlight during
// drag-to-connect.
func NodeHighlight(n *diagram.Node, stroke string) *Path {
	box := n.NodeBox().Expand(4)
	return pathPrim(shape.RectPath(box), color.None, stroke, 1.5, DashDotted)
}
