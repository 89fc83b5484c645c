package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopcanvas/loopcanvas/diagram"
)

func testDiagram(t *testing.T) *diagram.Diagram {
	t.Helper()
	d := diagram.NewDiagram()
	var err error
	d, _, err = AddNode(d, diagram.NodeStock, "Population", 300, 200)
	require.NoError(t, err)
	d, _, err = AddNode(d, diagram.NodeCloud, "", 50, 200)
	require.NoError(t, err)
	return d
}

func nodeIDs(d *diagram.Diagram) (stock, cloud string) {
	for _, n := range d.Elements {
		switch n.Type {
		case diagram.NodeStock:
			stock = n.ID
		case diagram.NodeCloud:
			cloud = n.ID
		}
	}
	return stock, cloud
}

func TestAddNodeDoesNotMutateInput(t *testing.T) {
	d := diagram.NewDiagram()
	d2, _, err := AddNode(d, diagram.NodeVariable, "births", 10, 20)
	require.NoError(t, err)

	assert.Len(t, d.Elements, 0)
	assert.Len(t, d2.Elements, 1)
	assert.Equal(t, "births", d2.Elements[0].Label)
}

func TestAddNodeRejectsUnknownType(t *testing.T) {
	_, _, err := AddNode(diagram.NewDiagram(), "pentagon", "x", 0, 0)
	assert.Error(t, err)
}

func TestMoveNode(t *testing.T) {
	d := testDiagram(t)
	stock, _ := nodeIDs(d)

	d2, err := MoveNode(d, stock, 500, 600)
	require.NoError(t, err)
	assert.Equal(t, 500.0, d2.Node(stock).X)
	assert.Equal(t, 300.0, d.Node(stock).X)

	_, err = MoveNode(d, "missing", 0, 0)
	assert.Error(t, err)
}

func TestResizeNodeClamps(t *testing.T) {
	d := testDiagram(t)
	stock, _ := nodeIDs(d)

	d2, err := ResizeNode(d, stock, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, diagram.MinNodeWidth, d2.Node(stock).Width)
	assert.Equal(t, diagram.MinNodeHeight, d2.Node(stock).Height)
}

func TestResizeLoopMarkerRejected(t *testing.T) {
	d := diagram.NewDiagram()
	d, id, err := AddNode(d, diagram.NodeLoopR, "", 0, 0)
	require.NoError(t, err)
	_, err = ResizeNode(d, id, 100, 100)
	assert.Error(t, err)
}

func TestUpdateNodeLabel(t *testing.T) {
	d := testDiagram(t)
	stock, cloud := nodeIDs(d)

	d2, err := UpdateNodeLabel(d, stock, "Rabbits")
	require.NoError(t, err)
	assert.Equal(t, "Rabbits", d2.Node(stock).Label)

	// clouds carry no free text
	_, err = UpdateNodeLabel(d, cloud, "nope")
	assert.Error(t, err)
}

func TestUpdateNodeStyle(t *testing.T) {
	d := testDiagram(t)
	stock, _ := nodeIDs(d)

	d2, err := UpdateNodeStyle(d, stock, "fillColor", "red")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", d2.Node(stock).FillColor)

	_, err = UpdateNodeStyle(d, stock, "fillColor", "#zzzz")
	assert.Error(t, err)

	_, err = UpdateNodeStyle(d, stock, "flavor", "sweet")
	assert.Error(t, err)

	d2, err = UpdateNodeStyle(d, stock, "fontSize", "18")
	require.NoError(t, err)
	assert.Equal(t, 18.0, d2.Node(stock).FontSize)
}

func TestDeleteNodeCascades(t *testing.T) {
	d := testDiagram(t)
	stock, cloud := nodeIDs(d)

	d, _, err := AddEdge(d, diagram.EdgeFlowPipe, cloud, stock, diagram.AnchorAuto, diagram.AnchorAuto)
	require.NoError(t, err)
	require.Len(t, d.Connections, 1)

	d2, err := DeleteNode(d, stock)
	require.NoError(t, err)
	assert.Len(t, d2.Elements, 1)
	assert.Len(t, d2.Connections, 0, "deleting a node must drop incident connections")

	// original snapshot untouched
	assert.Len(t, d.Elements, 2)
	assert.Len(t, d.Connections, 1)
}

func TestAddEdge(t *testing.T) {
	d := testDiagram(t)
	stock, cloud := nodeIDs(d)

	d2, id, err := AddEdge(d, diagram.EdgeNegative, cloud, stock, "", "")
	require.NoError(t, err)
	e := d2.Edge(id)
	require.NotNil(t, e)
	assert.Equal(t, diagram.DefaultCurve, e.Curve)
	assert.Equal(t, diagram.AnchorAuto, e.SourceAnchor)
	assert.Equal(t, diagram.AnchorAuto, e.TargetAnchor)

	_, _, err = AddEdge(d, diagram.EdgePositive, stock, stock, "", "")
	assert.Error(t, err, "self loops are rejected")

	_, _, err = AddEdge(d, diagram.EdgePositive, "ghost", stock, "", "")
	assert.Error(t, err)
}

func TestUpdateEdgeCurveClamps(t *testing.T) {
	d := testDiagram(t)
	stock, cloud := nodeIDs(d)
	d, id, err := AddEdge(d, diagram.EdgePositive, cloud, stock, "", "")
	require.NoError(t, err)

	for curve, want := range map[float64]float64{
		500:  diagram.MaxCurve,
		-500: diagram.MinCurve,
		42:   42,
		0:    0,
	} {
		d2, err := UpdateEdgeCurve(d, id, curve)
		require.NoError(t, err)
		assert.Equal(t, want, d2.Edge(id).Curve)
	}
}

func TestUpdateEdgeAnchor(t *testing.T) {
	d := testDiagram(t)
	stock, cloud := nodeIDs(d)
	d, id, err := AddEdge(d, diagram.EdgePositive, cloud, stock, "", "")
	require.NoError(t, err)

	d2, err := UpdateEdgeAnchor(d, id, false, diagram.AnchorLeft)
	require.NoError(t, err)
	assert.Equal(t, diagram.AnchorLeft, d2.Edge(id).TargetAnchor)
	assert.Equal(t, diagram.AnchorAuto, d2.Edge(id).SourceAnchor)

	_, err = UpdateEdgeAnchor(d, id, true, "northwest")
	assert.Error(t, err)
}

func TestDuplicateNode(t *testing.T) {
	d := testDiagram(t)
	stock, _ := nodeIDs(d)

	d2, newID, err := DuplicateNode(d, stock)
	require.NoError(t, err)
	dup := d2.Node(newID)
	require.NotNil(t, dup)
	assert.NotEqual(t, stock, dup.ID)
	assert.Equal(t, d.Node(stock).X+DuplicateOffset, dup.X)
	assert.Equal(t, d.Node(stock).Y+DuplicateOffset, dup.Y)
	assert.Equal(t, d.Node(stock).Label, dup.Label)
}

func TestClearAll(t *testing.T) {
	d := testDiagram(t)
	cleared := ClearAll(d)
	assert.Empty(t, cleared.Elements)
	assert.Empty(t, cleared.Connections)
	assert.Empty(t, cleared.Loops)
	assert.Equal(t, d.ID, cleared.ID)
	assert.Len(t, d.Elements, 2)
}
