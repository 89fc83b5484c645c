package shape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/geo"
)

func variableAt(x, y float64) *diagram.Node {
	return &diagram.Node{ID: "v", Type: diagram.NodeVariable, X: x, Y: y} // 80x24
}

func TestEdgePointFixedAnchors(t *testing.T) {
	n := variableAt(100, 100)
	toward := geo.NewPoint(500, 500) // ignored for fixed anchors

	tests := []struct {
		anchor diagram.Anchor
		want   *geo.Point
	}{
		{diagram.AnchorTop, geo.NewPoint(100, 88)},
		{diagram.AnchorBottom, geo.NewPoint(100, 112)},
		{diagram.AnchorLeft, geo.NewPoint(60, 100)},
		{diagram.AnchorRight, geo.NewPoint(140, 100)},
	}
	for _, tc := range tests {
		t.Run(string(tc.anchor), func(t *testing.T) {
			got := EdgePoint(n, toward, tc.anchor)
			assert.True(t, got.Equals(tc.want), "got %v want %v", got.ToString(), tc.want.ToString())
		})
	}
}

func TestEdgePointAutoAxisDirections(t *testing.T) {
	n := variableAt(0, 0)

	got := EdgePoint(n, geo.NewPoint(100, 0), diagram.AnchorAuto)
	assert.InDelta(t, 40, got.X, geo.PRECISION)
	assert.InDelta(t, 0, got.Y, geo.PRECISION)

	got = EdgePoint(n, geo.NewPoint(0, -100), diagram.AnchorAuto)
	assert.InDelta(t, 0, got.X, geo.PRECISION)
	assert.InDelta(t, -12, got.Y, geo.PRECISION)

	got = EdgePoint(n, geo.NewPoint(-100, 0), diagram.AnchorAuto)
	assert.InDelta(t, -40, got.X, geo.PRECISION)
	assert.InDelta(t, 0, got.Y, geo.PRECISION)
}

// the auto edge point must lie exactly on the bounding-box perimeter for
// every query angle, not on some bounding-circle approximation
func TestEdgePointAutoOnPerimeter(t *testing.T) {
	n := &diagram.Node{ID: "s", Type: diagram.NodeStock, X: 50, Y: -20} // 100x44

	for i := 0; i < 360; i += 7 {
		angle := float64(i) * math.Pi / 180
		toward := geo.NewPoint(n.X+math.Cos(angle)*500, n.Y+math.Sin(angle)*500)
		p := EdgePoint(n, toward, diagram.AnchorAuto)

		onVertical := geo.PrecisionCompare(math.Abs(p.X-n.X), 50, geo.PRECISION) == 0 &&
			math.Abs(p.Y-n.Y) <= 22+geo.PRECISION
		onHorizontal := geo.PrecisionCompare(math.Abs(p.Y-n.Y), 22, geo.PRECISION) == 0 &&
			math.Abs(p.X-n.X) <= 50+geo.PRECISION
		assert.True(t, onVertical || onHorizontal, "angle %d: %v not on perimeter", i, p.ToString())

		// and on the query ray
		assert.InDelta(t, 0, p.DistanceToLine(n.Center(), toward), geo.PRECISION, "angle %d off ray", i)
	}
}

func TestEdgePointAutoThroughCorner(t *testing.T) {
	n := variableAt(0, 0) // 80x24, corners at (±40, ±12)

	got := EdgePoint(n, geo.NewPoint(400, 120), diagram.AnchorAuto)
	assert.InDelta(t, 40, got.X, geo.PRECISION)
	assert.InDelta(t, 12, got.Y, geo.PRECISION)

	got = EdgePoint(n, geo.NewPoint(-400, 120), diagram.AnchorAuto)
	assert.InDelta(t, -40, got.X, geo.PRECISION)
	assert.InDelta(t, 12, got.Y, geo.PRECISION)
}

func TestEdgePointAutoEllipse(t *testing.T) {
	n := &diagram.Node{ID: "c", Type: diagram.NodeCloud, X: 0, Y: 0} // 50x36

	got := EdgePoint(n, geo.NewPoint(100, 0), diagram.AnchorAuto)
	assert.InDelta(t, 25, got.X, geo.PRECISION)
	assert.InDelta(t, 0, got.Y, geo.PRECISION)

	// at 45 degrees the parametric ellipse point is (rx/sqrt2, ry/sqrt2)
	got = EdgePoint(n, geo.NewPoint(100, 100), diagram.AnchorAuto)
	assert.InDelta(t, 25/math.Sqrt2, got.X, geo.PRECISION)
	assert.InDelta(t, 18/math.Sqrt2, got.Y, geo.PRECISION)
}

func TestEdgePointDegenerateDirection(t *testing.T) {
	n := variableAt(10, 10)
	// toward the node's own center: atan2(0,0)=0, so it resolves to the right edge
	got := EdgePoint(n, geo.NewPoint(10, 10), diagram.AnchorAuto)
	assert.True(t, got.Equals(geo.NewPoint(50, 10)))
}

func TestClosestAnchorSide(t *testing.T) {
	n := variableAt(0, 0) // sides at (0,-12) (0,12) (-40,0) (40,0)

	assert.Equal(t, diagram.AnchorTop, ClosestAnchorSide(n, geo.NewPoint(2, -30)))
	assert.Equal(t, diagram.AnchorBottom, ClosestAnchorSide(n, geo.NewPoint(2, 30)))
	assert.Equal(t, diagram.AnchorLeft, ClosestAnchorSide(n, geo.NewPoint(-45, 3)))
	assert.Equal(t, diagram.AnchorRight, ClosestAnchorSide(n, geo.NewPoint(45, 3)))

	// exact center ties everything; first-match order wins
	assert.Equal(t, diagram.AnchorTop, ClosestAnchorSide(n, geo.NewPoint(0, 0)))
}

func TestContains(t *testing.T) {
	rect := variableAt(0, 0)
	assert.True(t, Contains(rect, geo.NewPoint(39, 11)))
	assert.False(t, Contains(rect, geo.NewPoint(41, 0)))

	conv := &diagram.Node{ID: "k", Type: diagram.NodeConverter, X: 0, Y: 0} // 40x40
	assert.True(t, Contains(conv, geo.NewPoint(0, 19)))
	// box corner is outside the circle
	assert.False(t, Contains(conv, geo.NewPoint(18, 18)))
}

func TestFlowPolygon(t *testing.T) {
	box := geo.NewBoxFromCenter(geo.NewPoint(0, 0), 40, 34)
	points := FlowPolygon(box)
	assert.Len(t, points, 6)
	// waist points pulled in to 30% of half-width at mid-height
	assert.True(t, points[2].Equals(geo.NewPoint(6, 0)))
	assert.True(t, points[5].Equals(geo.NewPoint(-6, 0)))
}

func TestStockPaths(t *testing.T) {
	box := geo.NewBoxFromCenter(geo.NewPoint(0, 0), 100, 44)
	outer, inner := StockPaths(box)
	assert.Equal(t, "M -50 -22 H 50 V 22 H -50 Z", outer.PathData())
	assert.Equal(t, "M -47 -19 H 47 V 19 H -47 Z", inner.PathData())
}

func TestLoopArcSweepDirections(t *testing.T) {
	box := geo.NewBoxFromCenter(geo.NewPoint(0, 0), 44, 44)

	r := LoopArc(box, true)
	b := LoopArc(box, false)

	// both are a single arc command; sweep flags are opposite
	assert.Contains(t, r.PathData(), " 1 1 ")
	assert.Contains(t, b.PathData(), " 1 0 ")

	tipR, tanR := LoopArcTip(box, true)
	tipB, _ := LoopArcTip(box, false)
	assert.False(t, tipR.Equals(tipB))
	assert.InDelta(t, 1, math.Hypot(tanR[0], tanR[1]), geo.PRECISION)
}
