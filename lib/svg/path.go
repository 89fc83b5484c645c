// Package svg builds SVG path data while simultaneously flattening the same
// commands into polylines. The interactive serializer consumes the path
// strings and the rasterizer consumes the polylines, so both rendering paths
// share one set of geometry inputs by construction.
package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/loopcanvas/loopcanvas/lib/geo"
)

// segments used when flattening one curve command
const flattenSteps = 16

func chopPrecision(f float64) float64 {
	return math.Round(f*10000) / 10000
}

func fmtNum(f float64) string {
	s := fmt.Sprintf("%.4f", chopPrecision(f))
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

type PathContext struct {
	Commands []string
	// Flattened subpaths, one per M command.
	Subpaths [][]*geo.Point

	start   *geo.Point
	current *geo.Point
}

func NewPathContext() *PathContext {
	return &PathContext{}
}

func (c *PathContext) push(p *geo.Point) {
	n := len(c.Subpaths)
	c.Subpaths[n-1] = append(c.Subpaths[n-1], p.Copy())
}

func (c *PathContext) StartAt(p *geo.Point) {
	c.start = p.Copy()
	c.current = p.Copy()
	c.Commands = append(c.Commands, fmt.Sprintf("M %s %s", fmtNum(p.X), fmtNum(p.Y)))
	c.Subpaths = append(c.Subpaths, []*geo.Point{})
	c.push(p)
}

func (c *PathContext) L(x, y float64) {
	end := geo.NewPoint(x, y)
	c.Commands = append(c.Commands, fmt.Sprintf("L %s %s", fmtNum(x), fmtNum(y)))
	c.push(end)
	c.current = end
}

func (c *PathContext) H(x float64) {
	c.L(x, c.current.Y)
	c.Commands[len(c.Commands)-1] = fmt.Sprintf("H %s", fmtNum(x))
}

func (c *PathContext) V(y float64) {
	c.L(c.current.X, y)
	c.Commands[len(c.Commands)-1] = fmt.Sprintf("V %s", fmtNum(y))
}

// Q appends a quadratic Bézier to (x, y) with control point (cx, cy).
func (c *PathContext) Q(cx, cy, x, y float64) {
	curve := geo.NewQuadCurve(c.current, geo.NewPoint(cx, cy), geo.NewPoint(x, y))
	c.Commands = append(c.Commands, fmt.Sprintf("Q %s %s %s %s", fmtNum(cx), fmtNum(cy), fmtNum(x), fmtNum(y)))
	for i := 1; i <= flattenSteps; i++ {
		c.push(curve.At(float64(i) / flattenSteps))
	}
	c.current = geo.NewPoint(x, y)
}

// C appends a cubic Bézier to (x3, y3).
func (c *PathContext) C(x1, y1, x2, y2, x3, y3 float64) {
	p0 := c.current.Copy()
	c.Commands = append(c.Commands, fmt.Sprintf("C %s %s %s %s %s %s",
		fmtNum(x1), fmtNum(y1), fmtNum(x2), fmtNum(y2), fmtNum(x3), fmtNum(y3)))
	for i := 1; i <= flattenSteps; i++ {
		t := float64(i) / flattenSteps
		mt := 1 - t
		c.push(geo.NewPoint(
			mt*mt*mt*p0.X+3*mt*mt*t*x1+3*mt*t*t*x2+t*t*t*x3,
			mt*mt*mt*p0.Y+3*mt*mt*t*y1+3*mt*t*t*y2+t*t*t*y3,
		))
	}
	c.current = geo.NewPoint(x3, y3)
}

// EllipticalArc appends an arc of the axis-aligned ellipse at center from
// startAngle to endAngle (radians, y-down screen convention). The current
// position must already be the arc's start point. Positive sweep means
// increasing angle.
func (c *PathContext) EllipticalArc(center *geo.Point, rx, ry, startAngle, endAngle float64) {
	sweep := endAngle > startAngle
	delta := math.Abs(endAngle - startAngle)
	end := geo.NewPoint(center.X+math.Cos(endAngle)*rx, center.Y+math.Sin(endAngle)*ry)

	largeArc := 0
	if delta > math.Pi {
		largeArc = 1
	}
	sweepFlag := 0
	if sweep {
		sweepFlag = 1
	}
	c.Commands = append(c.Commands, fmt.Sprintf("A %s %s 0 %d %d %s %s",
		fmtNum(rx), fmtNum(ry), largeArc, sweepFlag, fmtNum(end.X), fmtNum(end.Y)))

	steps := int(math.Ceil(delta / (2 * math.Pi) * 64))
	if steps < 8 {
		steps = 8
	}
	for i := 1; i <= steps; i++ {
		angle := startAngle + (endAngle-startAngle)*float64(i)/float64(steps)
		c.push(geo.NewPoint(center.X+math.Cos(angle)*rx, center.Y+math.Sin(angle)*ry))
	}
	c.current = end
}

func (c *PathContext) Z() {
	c.Commands = append(c.Commands, "Z")
	if c.start != nil {
		c.push(c.start)
		c.current = c.start.Copy()
	}
}

func (c *PathContext) PathData() string {
	return strings.Join(c.Commands, " ")
}
