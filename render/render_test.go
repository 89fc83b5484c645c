package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/geo"
)

func flowDiagram() *diagram.Diagram {
	d := diagram.NewDiagram()
	d.Type = diagram.TypeStockFlow
	d.Elements = []diagram.Node{
		{ID: "stock", Type: diagram.NodeStock, Label: "Water", X: 300, Y: 200},
		{ID: "cloud", Type: diagram.NodeCloud, X: 50, Y: 200},
	}
	d.Connections = []diagram.Edge{
		{ID: "pipe", Source: "cloud", Target: "stock", Type: diagram.EdgeFlowPipe, Curve: diagram.DefaultCurve},
	}
	return d
}

func TestEdgeCurveControlPoint(t *testing.T) {
	d := flowDiagram()

	q, ok := EdgeCurve(d, &d.Connections[0])
	require.True(t, ok)
	assert.True(t, q.Control.Equals(geo.NewPoint(175, 280)),
		"control point %v", q.Control.ToString())
}

func TestEdgeCurveStraightPullback(t *testing.T) {
	d := diagram.NewDiagram()
	d.Elements = []diagram.Node{
		{ID: "a", Type: diagram.NodeVariable, X: 0, Y: 0},
		{ID: "b", Type: diagram.NodeVariable, X: 200, Y: 0},
	}
	d.Connections = []diagram.Edge{
		{ID: "e", Source: "a", Target: "b", Type: diagram.EdgePositive, Curve: 0},
	}

	q, ok := EdgeCurve(d, &d.Connections[0])
	require.True(t, ok)
	assert.True(t, q.Start.Equals(geo.NewPoint(40, 0)))
	assert.True(t, q.Control.Equals(geo.NewPoint(100, 0)))
	// boundary point (160, 0) pulled back by the arrowhead length
	assert.True(t, q.End.Equals(geo.NewPoint(160-ArrowPullback, 0)))

	// the arrowhead apex lands exactly back on the boundary
	assert.True(t, tipOf(q).Equals(geo.NewPoint(160, 0)))
}

func TestEdgeCurveDanglingEdge(t *testing.T) {
	d := diagram.NewDiagram()
	e := diagram.Edge{ID: "e", Source: "a", Target: "b", Type: diagram.EdgePositive}

	_, ok := EdgeCurve(d, &e)
	assert.False(t, ok)
	assert.Nil(t, EdgeScene(d, &e))
}

func TestEdgeSceneNegativeDefaultsDashed(t *testing.T) {
	d := flowDiagram()
	d.Connections[0].Type = diagram.EdgeNegative

	prims := EdgeScene(d, &d.Connections[0])
	require.NotEmpty(t, prims)

	path, isPath := prims[0].(*Path)
	require.True(t, isPath)
	assert.Equal(t, DashDashed, path.Dash)

	var glyph *Text
	for _, p := range prims {
		if txt, isText := p.(*Text); isText {
			glyph = txt
		}
	}
	require.NotNil(t, glyph, "negative edges carry a polarity glyph")
	assert.Equal(t, "−", glyph.Content)
}

func TestEdgeSceneNeutralHasNoGlyph(t *testing.T) {
	d := flowDiagram()
	d.Connections[0].Type = diagram.EdgeNeutral

	for _, p := range EdgeScene(d, &d.Connections[0]) {
		_, isText := p.(*Text)
		assert.False(t, isText)
	}
}

func TestEdgeSceneDelayTicks(t *testing.T) {
	d := flowDiagram()
	base := len(EdgeScene(d, &d.Connections[0]))

	d.Connections[0].HasDelay = true
	assert.Equal(t, base+2, len(EdgeScene(d, &d.Connections[0])))
}

func TestNodeSceneVariable(t *testing.T) {
	n := &diagram.Node{ID: "v", Type: diagram.NodeVariable, Label: "Births", X: 10, Y: 20}

	prims := NodeScene(n)
	require.Len(t, prims, 1, "no background rect without an explicit fill")
	txt := prims[0].(*Text)
	assert.Equal(t, "Births", txt.Content)
	assert.True(t, txt.Pos.Equals(geo.NewPoint(10, 20)))

	n.FillColor = "#ffcc00"
	prims = NodeScene(n)
	require.Len(t, prims, 2)
	_, isPath := prims[0].(*Path)
	assert.True(t, isPath)
}

func TestNodeSceneStockDoubleBorder(t *testing.T) {
	n := &diagram.Node{ID: "s", Type: diagram.NodeStock, Label: "Population", X: 0, Y: 0}

	prims := NodeScene(n)
	require.Len(t, prims, 3)
	_, outer := prims[0].(*Path)
	_, inner := prims[1].(*Path)
	_, txt := prims[2].(*Text)
	assert.True(t, outer && inner && txt)
}

func TestNodeSceneCloudHasNoText(t *testing.T) {
	n := &diagram.Node{ID: "c", Type: diagram.NodeCloud, X: 0, Y: 0}

	prims := NodeScene(n)
	require.Len(t, prims, 1)
	_, isPath := prims[0].(*Path)
	assert.True(t, isPath)
}

func TestNodeSceneLoopMarkerLetter(t *testing.T) {
	for _, tc := range []struct {
		typ    diagram.NodeType
		letter string
	}{
		{diagram.NodeLoopR, "R"},
		{diagram.NodeLoopB, "B"},
	} {
		prims := NodeScene(&diagram.Node{ID: "l", Type: tc.typ, X: 0, Y: 0})
		require.Len(t, prims, 3, "arc, arrowhead, letter")
		txt := prims[2].(*Text)
		assert.Equal(t, tc.letter, txt.Content)
		assert.Equal(t, "bold", txt.Weight)
	}
}

func TestNodeSceneFlowScalesText(t *testing.T) {
	prims := NodeScene(&diagram.Node{ID: "f", Type: diagram.NodeFlow, Label: "in", X: 0, Y: 0})
	txt := prims[1].(*Text)
	assert.InDelta(t, DefaultFontSize*SmallTextScale, txt.Size, 1e-9)
}

func TestDiagramSceneSkipsDanglingEdges(t *testing.T) {
	d := flowDiagram()
	d.Connections = append(d.Connections, diagram.Edge{
		ID: "dangling", Source: "a", Target: "b", Type: diagram.EdgePositive,
	})

	s := DiagramScene(d)
	withoutDangling := DiagramScene(flowDiagram())
	assert.Equal(t, len(withoutDangling.Prims), len(s.Prims))
}

func TestNodeSelectionHandles(t *testing.T) {
	v := &diagram.Node{ID: "v", Type: diagram.NodeVariable, X: 0, Y: 0}
	// highlight + connect handle + 4 corners
	assert.Len(t, NodeSelection(v), 6)

	loop := &diagram.Node{ID: "l", Type: diagram.NodeLoopR, X: 0, Y: 0}
	// loop markers are fixed-size: no resize handles
	assert.Len(t, NodeSelection(loop), 2)
}

func TestEdgeSelectionHandles(t *testing.T) {
	d := flowDiagram()
	assert.Len(t, EdgeSelection(d, &d.Connections[0]), 3)

	dangling := diagram.Edge{ID: "x", Source: "nope", Target: "stock", Type: diagram.EdgePositive}
	assert.Nil(t, EdgeSelection(d, &dangling))
}

func TestTransientConnection(t *testing.T) {
	prims := TransientConnection(geo.NewPoint(0, 0), geo.NewPoint(100, 0))
	require.Len(t, prims, 2)
	line := prims[0].(*Path)
	assert.Equal(t, DashDashed, line.Dash)
	assert.Equal(t, "M 0 0 L 100 0", line.Data)
}
