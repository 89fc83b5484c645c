package render

import (
	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/color"
	"github.com/loopcanvas/loopcanvas/lib/geo"
	"github.com/loopcanvas/loopcanvas/lib/svg"
	"github.com/loopcanvas/loopcanvas/shape"
)

func edgeStroke(e *diagram.Edge) string {
	if e.StrokeColor != "" {
		return e.StrokeColor
	}
	return color.Stroke
}

// EdgeCurve resolves a connection to its on-screen quadratic: boundary
// points on both nodes (toward the control point, so fixed and auto anchors
// agree on exit direction) and the end pulled back to leave arrowhead room.
// ok is false when an endpoint node is missing; such edges are skipped
// everywhere, never an error.
func EdgeCurve(d *diagram.Diagram, e *diagram.Edge) (q geo.QuadCurve, ok bool) {
	src := d.Node(e.Source)
	dst := d.Node(e.Target)
	if src == nil || dst == nil {
		return q, false
	}

	ctrl := geo.CurveControlPoint(src.Center(), dst.Center(), e.Curve)
	start := shape.EdgePoint(src, ctrl, e.SourceAnchor)
	head := shape.EdgePoint(dst, ctrl, e.TargetAnchor)

	dir := unitBetween(start, head)
	end := geo.NewPoint(head.X-dir[0]*ArrowPullback, head.Y-dir[1]*ArrowPullback)

	return geo.NewQuadCurve(start, ctrl, end), true
}

// unitBetween is VectorTo + Unit with the degenerate fallback every other
// direction helper uses, so overlapping nodes never produce NaNs.
func unitBetween(from, to *geo.Point) geo.Vector {
	v := from.VectorTo(to)
	if v.Length() == 0 {
		return geo.NewVector(0, 1)
	}
	return v.Unit()
}

// EdgeScene builds the primitives for one connection: the quadratic path,
// the arrowhead at the target boundary, the polarity glyph, and delay ticks.
func EdgeScene(d *diagram.Diagram, e *diagram.Edge) []Primitive {
	q, ok := EdgeCurve(d, e)
	if !ok {
		return nil
	}

	stroke := edgeStroke(e)
	width := e.EffectiveStrokeWidth()

	pc := svg.NewPathContext()
	pc.StartAt(q.Start)
	pc.Q(q.Control.X, q.Control.Y, q.End.X, q.End.Y)

	prims := []Primitive{
		pathPrim(pc, color.None, stroke, width, Dash(e.EffectiveLineStyle())),
		arrowheadAt(tipOf(q), q.TangentAt(1), stroke),
	}

	if glyph := e.PolarityGlyph(); glyph != "" {
		at := q.At(PolarityT)
		normal := q.NormalAt(PolarityT)
		prims = append(prims, &Text{
			Pos:     geo.NewPoint(at.X+normal[0]*PolarityOffset, at.Y+normal[1]*PolarityOffset),
			Content: glyph,
			Size:    DefaultFontSize,
			Color:   stroke,
			Weight:  "bold",
		})
	}

	if e.HasDelay {
		prims = append(prims, delayTicks(q, stroke, width)...)
	}

	return prims
}

// tipOf extends the curve end by the pullback so the arrowhead apex lands
// exactly on the target boundary point.
func tipOf(q geo.QuadCurve) *geo.Point {
	dir := q.TangentAt(1)
	return geo.NewPoint(q.End.X+dir[0]*ArrowPullback, q.End.Y+dir[1]*ArrowPullback)
}

// delayTicks draws the two short marks straddling DelayT, each perpendicular
// to the local tangent and separated by a small gap along it.
func delayTicks(q geo.QuadCurve, stroke string, width float64) []Primitive {
	at := q.At(DelayT)
	tangent := q.TangentAt(DelayT)
	normal := q.NormalAt(DelayT)

	var prims []Primitive
	for _, offset := range []float64{-delayTickGap, delayTickGap} {
		cx := at.X + tangent[0]*offset
		cy := at.Y + tangent[1]*offset
		pc := svg.NewPathContext()
		pc.StartAt(geo.NewPoint(cx-normal[0]*delayTickHalfLen, cy-normal[1]*delayTickHalfLen))
		pc.L(cx+normal[0]*delayTickHalfLen, cy+normal[1]*delayTickHalfLen)
		prims = append(prims, pathPrim(pc, color.None, stroke, width, DashSolid))
	}
	return prims
}

// TransientConnection is the dashed arrow-terminated preview line drawn
// while the user drags out a new connection from a node's edge handle.
func TransientConnection(from, to *geo.Point) []Primitive {
	dir := unitBetween(from, to)

	pc := svg.NewPathContext()
	pc.StartAt(from)
	pc.L(to.X, to.Y)

	return []Primitive{
		pathPrim(pc, color.None, color.Selection, diagram.DefaultStrokeWidth, DashDashed),
		arrowheadAt(to, dir, color.Selection),
	}
}
