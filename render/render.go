// Package render turns a diagram snapshot into an ordered list of drawing
// primitives. The SVG serializer and the PNG rasterizer both consume these
// primitives, so the two outputs are numerically identical by construction
// instead of by keeping two formula sets in sync.
package render

import (
	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/color"
	"github.com/loopcanvas/loopcanvas/lib/geo"
	"github.com/loopcanvas/loopcanvas/lib/svg"
)

const (
	// DefaultFontSize is the label size before any per-node override.
	DefaultFontSize = 13.0
	// SmallTextScale shrinks labels inside flow valves and converters.
	SmallTextScale = 0.85

	// ArrowPullback is how far the edge path stops short of the target
	// boundary to leave room for the arrowhead.
	ArrowPullback  = 8.0
	arrowHalfWidth = 4.0

	// PolarityT and PolarityOffset place the "+"/"−" glyph along the curve.
	PolarityT      = 0.75
	PolarityOffset = 12.0

	// DelayT is where the double tick marks straddle the curve.
	DelayT           = 0.4
	delayTickHalfLen = 6.0
	delayTickGap     = 3.0

	// HandleRadius is the hit and render size of selection handles.
	HandleRadius = 5.0
)

// Dash patterns per line style.
const (
	DashSolid  = ""
	DashDashed = "6,4"
	DashDotted = "2,3"
)

// Primitive is one drawable item. Concrete types are Path and Text.
type Primitive interface {
	isPrimitive()
}

// Path is a filled and/or stroked outline. Data is SVG path syntax and
// Subpaths is the flattened polyline form of the same commands.
type Path struct {
	Data     string
	Subpaths [][]*geo.Point

	Fill        string
	Stroke      string
	StrokeWidth float64
	Dash        string
}

func (*Path) isPrimitive() {}

// Text is a run of label text anchored at its center point.
type Text struct {
	Pos     *geo.Point
	Content string
	Size    float64
	Color   string
	Family  string
	Weight  string
	Style   string
}

func (*Text) isPrimitive() {}

// Scene is the full primitive list for one frame, in paint order.
type Scene struct {
	Prims []Primitive
}

func (s *Scene) add(prims ...Primitive) {
	s.Prims = append(s.Prims, prims...)
}

func pathPrim(pc *svg.PathContext, fill, stroke string, width float64, dash string) *Path {
	return &Path{
		Data:        pc.PathData(),
		Subpaths:    pc.Subpaths,
		Fill:        fill,
		Stroke:      stroke,
		StrokeWidth: width,
		Dash:        dash,
	}
}

// Dash returns the stroke-dasharray pattern for a line style.
func Dash(style diagram.LineStyle) string {
	switch style {
	case diagram.LineDashed:
		return DashDashed
	case diagram.LineDotted:
		return DashDotted
	default:
		return DashSolid
	}
}

// DiagramScene builds the base scene: edges underneath, nodes on top. Edges
// whose endpoints are missing are skipped, never an error.
func DiagramScene(d *diagram.Diagram) *Scene {
	s := &Scene{}
	for i := range d.Connections {
		s.add(EdgeScene(d, &d.Connections[i])...)
	}
	for i := range d.Elements {
		s.add(NodeScene(&d.Elements[i])...)
	}
	return s
}

func nodeFill(n *diagram.Node) string {
	if n.FillColor != "" {
		return n.FillColor
	}
	return color.White
}

func nodeStroke(n *diagram.Node) string {
	if n.StrokeColor != "" {
		return n.StrokeColor
	}
	return color.Stroke
}

func nodeTextColor(n *diagram.Node, fill string) string {
	if n.TextColor != "" {
		return n.TextColor
	}
	if fill != "" && fill != color.Transparent && fill != color.None {
		return color.ContrastingText(fill)
	}
	return color.Text
}

func fontSize(n *diagram.Node) float64 {
	if n.FontSize > 0 {
		return n.FontSize
	}
	return DefaultFontSize
}

func labelText(n *diagram.Node, pos *geo.Point, scale float64) *Text {
	return &Text{
		Pos:     pos,
		Content: n.Label,
		Size:    fontSize(n) * scale,
		Color:   nodeTextColor(n, n.FillColor),
		Family:  n.FontFamily,
		Weight:  n.FontWeight,
		Style:   n.FontStyle,
	}
}
