package shape

import (
	"math"

	"github.com/loopcanvas/loopcanvas/lib/geo"
	"github.com/loopcanvas/loopcanvas/lib/svg"
)

// StockInset is the gap between a stock's outer and inner border.
const StockInset = 3.0

// FlowWaist is how far the flow valve's mid-height vertices sit from the
// center, as a fraction of half-width.
const FlowWaist = 0.3

// Cloud outline radii as fractions of the half-dimensions.
const (
	CloudRx = 0.9
	CloudRy = 0.85
)

// Loop marker arc: a little over three quarters of a turn, leaving a gap
// for the arrowhead.
const (
	loopArcRadiusRatio = 0.75
	loopArcStart       = -math.Pi * 5 / 4
	loopArcEnd         = math.Pi / 4
)

// RectPath traces the box clockwise from the top-left corner.
func RectPath(box *geo.Box) *svg.PathContext {
	tl := box.TopLeft
	pc := svg.NewPathContext()
	pc.StartAt(tl)
	pc.H(tl.X + box.Width)
	pc.V(tl.Y + box.Height)
	pc.H(tl.X)
	pc.Z()
	return pc
}

// StockPaths returns the double border: the outer box and an inner box
// inset by StockInset on every side.
func StockPaths(box *geo.Box) (outer, inner *svg.PathContext) {
	return RectPath(box), RectPath(geo.NewBox(
		geo.NewPoint(box.TopLeft.X+StockInset, box.TopLeft.Y+StockInset),
		box.Width-2*StockInset,
		box.Height-2*StockInset,
	))
}

// FlowPolygon is the valve's hourglass hexagon: the four box corners plus
// two mid-height waist points pulled in toward the center.
func FlowPolygon(box *geo.Box) []*geo.Point {
	tl := box.TopLeft
	c := box.Center()
	hw := box.Width / 2
	return []*geo.Point{
		tl.Copy(),
		geo.NewPoint(tl.X+box.Width, tl.Y),
		geo.NewPoint(c.X+hw*FlowWaist, c.Y),
		geo.NewPoint(tl.X+box.Width, tl.Y+box.Height),
		geo.NewPoint(tl.X, tl.Y+box.Height),
		geo.NewPoint(c.X-hw*FlowWaist, c.Y),
	}
}

func PolygonPath(points []*geo.Point) *svg.PathContext {
	pc := svg.NewPathContext()
	pc.StartAt(points[0])
	for _, p := range points[1:] {
		pc.L(p.X, p.Y)
	}
	pc.Z()
	return pc
}

// ConverterRadius is min of the half-dimensions, keeping the circle inside
// the box even under uneven resizes.
func ConverterRadius(box *geo.Box) float64 {
	return math.Min(box.Width/2, box.Height/2)
}

func CirclePath(center *geo.Point, r float64) *svg.PathContext {
	pc := svg.NewPathContext()
	pc.StartAt(geo.NewPoint(center.X+r, center.Y))
	pc.EllipticalArc(center, r, r, 0, math.Pi)
	pc.EllipticalArc(center, r, r, math.Pi, 2*math.Pi)
	pc.Z()
	return pc
}

// CloudPath approximates the cloud outline with five cubic segments around
// an ellipse of CloudRx/CloudRy of the half-dimensions.
func CloudPath(box *geo.Box) *svg.PathContext {
	c := box.Center()
	rx := box.Width / 2 * CloudRx
	ry := box.Height / 2 * CloudRy

	at := func(fx, fy float64) *geo.Point {
		return geo.NewPoint(c.X+fx*rx, c.Y+fy*ry)
	}

	pc := svg.NewPathContext()
	start := at(-0.8, 0.6)
	pc.StartAt(start)
	cubic := func(c1, c2, end *geo.Point) {
		pc.C(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
	}
	// left bump
	cubic(at(-1.2, 0.2), at(-0.9, -0.5), at(-0.45, -0.45))
	// top bump
	cubic(at(-0.35, -1.0), at(0.2, -1.0), at(0.35, -0.55))
	// right bump
	cubic(at(0.85, -0.8), at(1.15, -0.2), at(0.8, 0.3))
	// bottom-right bump
	cubic(at(1.0, 0.8), at(0.4, 1.0), at(0.2, 0.8))
	// bottom-left bump back to start
	cubic(at(-0.1, 1.05), at(-0.6, 1.0), start)
	pc.Z()
	return pc
}

// LoopArc is the loop marker's partial circle. Reinforcing markers sweep in
// the positive (clockwise on screen) direction, balancing markers the
// opposite way.
func LoopArc(box *geo.Box, reinforcing bool) *svg.PathContext {
	c := box.Center()
	r := math.Min(box.Width, box.Height) / 2 * loopArcRadiusRatio

	start, end := loopArcStart, loopArcEnd
	if !reinforcing {
		start, end = end, start
	}

	pc := svg.NewPathContext()
	pc.StartAt(geo.NewPoint(c.X+math.Cos(start)*r, c.Y+math.Sin(start)*r))
	pc.EllipticalArc(c, r, r, start, end)
	return pc
}

// LoopArcTip returns the arc's end point and its unit tangent in the sweep
// direction, where the arrowhead goes.
func LoopArcTip(box *geo.Box, reinforcing bool) (tip *geo.Point, tangent geo.Vector) {
	c := box.Center()
	r := math.Min(box.Width, box.Height) / 2 * loopArcRadiusRatio

	end := loopArcEnd
	dir := 1.0
	if !reinforcing {
		end = loopArcStart
		dir = -1.0
	}
	tip = geo.NewPoint(c.X+math.Cos(end)*r, c.Y+math.Sin(end)*r)
	// derivative of (cos, sin) scaled by sweep direction
	tangent = geo.NewVector(-math.Sin(end)*dir, math.Cos(end)*dir)
	return tip, tangent
}
