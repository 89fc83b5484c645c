package render

import (
	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/color"
	"github.com/loopcanvas/loopcanvas/lib/geo"
	"github.com/loopcanvas/loopcanvas/shape"
)

// NodeScene builds the primitives for one node: outline(s) first, label on
// top, so later items paint over earlier ones.
func NodeScene(n *diagram.Node) []Primitive {
	switch n.Type {
	case diagram.NodeStock:
		return stockScene(n)
	case diagram.NodeFlow:
		return flowScene(n)
	case diagram.NodeConverter:
		return converterScene(n)
	case diagram.NodeCloud:
		return cloudScene(n)
	case diagram.NodeLoopR, diagram.NodeLoopB:
		return loopMarkerScene(n)
	default:
		return variableScene(n)
	}
}

// A variable is label-first: the rect only appears when the author picked a
// real background fill.
func variableScene(n *diagram.Node) []Primitive {
	var prims []Primitive
	if n.FillColor != "" && n.FillColor != color.Transparent && n.FillColor != color.None {
		rect := shape.RectPath(n.NodeBox())
		prims = append(prims, pathPrim(rect, n.FillColor, color.None, 0, DashSolid))
	}
	prims = append(prims, labelText(n, n.Center(), 1))
	return prims
}

func stockScene(n *diagram.Node) []Primitive {
	outer, inner := shape.StockPaths(n.NodeBox())
	return []Primitive{
		pathPrim(outer, nodeFill(n), nodeStroke(n), diagram.DefaultStrokeWidth, DashSolid),
		pathPrim(inner, color.None, nodeStroke(n), 1, DashSolid),
		labelText(n, n.Center(), 1),
	}
}

func flowScene(n *diagram.Node) []Primitive {
	valve := shape.PolygonPath(shape.FlowPolygon(n.NodeBox()))
	return []Primitive{
		pathPrim(valve, nodeFill(n), nodeStroke(n), diagram.DefaultStrokeWidth, DashSolid),
		labelText(n, n.Center(), SmallTextScale),
	}
}

func converterScene(n *diagram.Node) []Primitive {
	box := n.NodeBox()
	circle := shape.CirclePath(n.Center(), shape.ConverterRadius(box))
	return []Primitive{
		pathPrim(circle, nodeFill(n), nodeStroke(n), diagram.DefaultStrokeWidth, DashSolid),
		labelText(n, n.Center(), SmallTextScale),
	}
}

func cloudScene(n *diagram.Node) []Primitive {
	outline := shape.CloudPath(n.NodeBox())
	return []Primitive{
		pathPrim(outline, nodeFill(n), nodeStroke(n), diagram.DefaultStrokeWidth, DashSolid),
	}
}

func loopMarkerScene(n *diagram.Node) []Primitive {
	box := n.NodeBox()
	reinforcing := n.Type == diagram.NodeLoopR

	arc := shape.LoopArc(box, reinforcing)
	tip, tangent := shape.LoopArcTip(box, reinforcing)

	letter := "R"
	if !reinforcing {
		letter = "B"
	}

	return []Primitive{
		pathPrim(arc, color.None, nodeStroke(n), diagram.DefaultStrokeWidth, DashSolid),
		arrowheadAt(tip, tangent, nodeStroke(n)),
		&Text{
			Pos:     n.Center(),
			Content: letter,
			Size:    fontSize(n),
			Color:   nodeTextColor(n, ""),
			Family:  n.FontFamily,
			Weight:  "bold",
		},
	}
}

// arrowheadAt builds the filled triangle whose apex sits at tip, pointing
// along the unit direction dir.
func arrowheadAt(tip *geo.Point, dir geo.Vector, fill string) *Path {
	base := geo.NewPoint(tip.X-dir[0]*ArrowPullback, tip.Y-dir[1]*ArrowPullback)
	nx, ny := -dir[1], dir[0]

	pc := shape.PolygonPath([]*geo.Point{
		tip,
		geo.NewPoint(base.X+nx*arrowHalfWidth, base.Y+ny*arrowHalfWidth),
		geo.NewPoint(base.X-nx*arrowHalfWidth, base.Y-ny*arrowHalfWidth),
	})
	return pathPrim(pc, fill, color.None, 0, DashSolid)
}
