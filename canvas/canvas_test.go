package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/geo"
)

func leftClick() Pointer { return Pointer{Button: ButtonLeft} }

// testCanvas builds a session at zoom 1 and pan (0,0), so screen and
// canvas coordinates coincide.
func testCanvas(nodes ...diagram.Node) *Canvas {
	d := diagram.NewDiagram()
	d.Elements = append(d.Elements, nodes...)
	return New(800, 600, d)
}

func TestPlacementClickCreatesNode(t *testing.T) {
	c := testCanvas()
	c.SetPlacement(diagram.NodeStock)

	c.PointerDown(geo.NewPoint(300, 200), leftClick())

	require.Len(t, c.Diagram().Elements, 1)
	n := &c.Diagram().Elements[0]
	assert.Equal(t, diagram.NodeStock, n.Type)
	assert.InDelta(t, 300, n.X, 1e-9)
	assert.InDelta(t, 200, n.Y, 1e-9)
	assert.Equal(t, n.ID, c.Selection().NodeID)
	assert.IsType(t, Idle{}, c.Mode(), "placement is one-shot")
}

func TestPlacementDoesNotPan(t *testing.T) {
	c := testCanvas()
	c.SetPlacement(diagram.NodeVariable)

	c.PointerDown(geo.NewPoint(100, 100), leftClick())
	c.PointerMove(geo.NewPoint(150, 150))

	assert.True(t, c.Viewport().Pan.Equals(geo.NewPoint(0, 0)))
}

func TestDragNodeKeepsPointerOffset(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "a", Type: diagram.NodeVariable, X: 100, Y: 100})

	// grab off-center
	c.PointerDown(geo.NewPoint(110, 105), leftClick())
	require.IsType(t, DraggingNode{}, c.Mode())
	assert.Equal(t, "a", c.Selection().NodeID)

	c.PointerMove(geo.NewPoint(210, 155))
	n := c.Diagram().Node("a")
	assert.InDelta(t, 200, n.X, 1e-9, "center follows pointer minus grab offset")
	assert.InDelta(t, 150, n.Y, 1e-9)

	c.PointerUp(geo.NewPoint(210, 155))
	assert.IsType(t, Idle{}, c.Mode())

	// the whole drag is one undo step
	require.True(t, c.Undo())
	assert.InDelta(t, 100, c.Diagram().Node("a").X, 1e-9)
}

func TestDragOntoNodeRevertsAndOpensPopup(t *testing.T) {
	c := testCanvas(
		diagram.Node{ID: "a", Type: diagram.NodeVariable, X: 0, Y: 0},
		diagram.Node{ID: "b", Type: diagram.NodeVariable, X: 300, Y: 0},
	)

	c.PointerDown(geo.NewPoint(0, 0), leftClick())
	c.PointerMove(geo.NewPoint(260, 10)) // within the 60x40 proximity of b
	m := c.Mode().(DraggingNode)
	assert.Equal(t, "b", m.DragTarget)

	c.PointerUp(geo.NewPoint(260, 10))

	popup, open := c.Mode().(ConnectionTypePopup)
	require.True(t, open)
	assert.Equal(t, "a", popup.SourceID)
	assert.Equal(t, "b", popup.TargetID)

	a := c.Diagram().Node("a")
	assert.InDelta(t, 0, a.X, 1e-9, "drop-to-connect reverts the move")
	assert.InDelta(t, 0, a.Y, 1e-9)

	require.NoError(t, c.ChooseConnectionType(diagram.EdgeNegative))
	require.Len(t, c.Diagram().Connections, 1)
	e := &c.Diagram().Connections[0]
	assert.Equal(t, "a", e.Source)
	assert.Equal(t, "b", e.Target)
	assert.Equal(t, diagram.EdgeNegative, e.Type)
	assert.InDelta(t, diagram.DefaultCurve, e.Curve, 1e-9)
	assert.IsType(t, Idle{}, c.Mode())
}

func TestConnectHandleDragCreatesConnection(t *testing.T) {
	c := testCanvas(
		diagram.Node{ID: "a", Type: diagram.NodeVariable, X: 0, Y: 0},
		diagram.Node{ID: "b", Type: diagram.NodeVariable, X: 300, Y: 0},
	)
	c.SelectNode("a")

	// the connect handle sits just right of the node
	c.PointerDown(geo.NewPoint(50, 0), leftClick())
	require.IsType(t, DrawingConnection{}, c.Mode())

	c.PointerMove(geo.NewPoint(290, 5))
	m := c.Mode().(DrawingConnection)
	assert.Equal(t, "b", m.DragTarget)

	c.PointerUp(geo.NewPoint(290, 5))
	popup, open := c.Mode().(ConnectionTypePopup)
	require.True(t, open)
	assert.Equal(t, "a", popup.SourceID)
	assert.Equal(t, diagram.AnchorAuto, popup.SourceAnchor)
}

func TestDrawingConnectionWithoutTargetCancels(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "a", Type: diagram.NodeVariable, X: 0, Y: 0})
	c.SelectNode("a")

	c.PointerDown(geo.NewPoint(50, 0), leftClick())
	c.PointerMove(geo.NewPoint(400, 400))
	c.PointerUp(geo.NewPoint(400, 400))

	assert.IsType(t, Idle{}, c.Mode())
	assert.Empty(t, c.Diagram().Connections)
}

func connectedPair() *Canvas {
	c := testCanvas(
		diagram.Node{ID: "a", Type: diagram.NodeVariable, X: 0, Y: 0},
		diagram.Node{ID: "b", Type: diagram.NodeVariable, X: 200, Y: 0},
	)
	c.diagram.Connections = []diagram.Edge{{
		ID: "e", Source: "a", Target: "b", Type: diagram.EdgePositive,
		Curve:        0,
		SourceAnchor: diagram.AnchorAuto, TargetAnchor: diagram.AnchorAuto,
	}}
	return c
}

func TestCurveDragClampsOffset(t *testing.T) {
	c := connectedPair()

	// the straight path passes through (100, 0)
	c.PointerDown(geo.NewPoint(100, 0), leftClick())
	require.IsType(t, DraggingCurve{}, c.Mode())
	assert.Equal(t, "e", c.Selection().EdgeID)

	c.PointerMove(geo.NewPoint(100, 130))
	assert.InDelta(t, 130, c.Diagram().Edge("e").Curve, 1e-9)

	c.PointerMove(geo.NewPoint(100, 5000))
	assert.InDelta(t, diagram.MaxCurve, c.Diagram().Edge("e").Curve, 1e-9)

	c.PointerMove(geo.NewPoint(100, -5000))
	assert.InDelta(t, diagram.MinCurve, c.Diagram().Edge("e").Curve, 1e-9)

	c.PointerUp(geo.NewPoint(100, -5000))
	assert.IsType(t, Idle{}, c.Mode())
}

func TestEndpointDragSnapsToClosestSide(t *testing.T) {
	c := connectedPair()
	c.SelectEdge("e")

	// source boundary point is (40, 0); grab just outside the node body
	c.PointerDown(geo.NewPoint(44, 0), leftClick())
	require.IsType(t, DraggingEndpoint{}, c.Mode())
	assert.Equal(t, EndpointSource, c.Mode().(DraggingEndpoint).End)

	// drag below the source node and release: snaps to its bottom side
	c.PointerMove(geo.NewPoint(0, 80))
	c.PointerUp(geo.NewPoint(0, 80))
	assert.Equal(t, diagram.AnchorBottom, c.Diagram().Edge("e").SourceAnchor)
	assert.IsType(t, Idle{}, c.Mode())
}

func TestClickWithoutDragDoesNotCommit(t *testing.T) {
	c := connectedPair()

	// select-click a node body
	c.PointerDown(geo.NewPoint(0, 0), leftClick())
	c.PointerUp(geo.NewPoint(0, 0))
	assert.Equal(t, "a", c.Selection().NodeID)

	// click the curve midpoint
	c.PointerDown(geo.NewPoint(100, 0), leftClick())
	c.PointerUp(geo.NewPoint(100, 0))
	assert.Equal(t, "e", c.Selection().EdgeID)

	// grab and release an endpoint handle in place
	c.PointerDown(geo.NewPoint(44, 0), leftClick())
	require.IsType(t, DraggingEndpoint{}, c.Mode())
	c.PointerUp(geo.NewPoint(44, 0))
	assert.Equal(t, diagram.AnchorAuto, c.Diagram().Edge("e").SourceAnchor,
		"releasing an endpoint in place keeps the auto anchor")

	assert.False(t, c.Undo(), "selection clicks push no history")
}

func TestResizeSymmetricWithClamp(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "a", Type: diagram.NodeStock, X: 0, Y: 0})
	c.SelectNode("a")

	// stock is 100x44; SE handle at (50, 22)
	c.PointerDown(geo.NewPoint(50, 22), leftClick())
	require.IsType(t, Resizing{}, c.Mode())

	c.PointerMove(geo.NewPoint(60, 32))
	n := c.Diagram().Node("a")
	assert.InDelta(t, 120, n.Width, 1e-9, "east corner adds 2*dx")
	assert.InDelta(t, 64, n.Height, 1e-9)

	// dragging far past the center clamps at the minimum size
	c.PointerMove(geo.NewPoint(-500, -500))
	n = c.Diagram().Node("a")
	assert.InDelta(t, diagram.MinNodeWidth, n.Width, 1e-9)
	assert.InDelta(t, diagram.MinNodeHeight, n.Height, 1e-9)

	c.PointerUp(geo.NewPoint(-500, -500))
	assert.IsType(t, Idle{}, c.Mode())
}

func TestLoopMarkerHasNoResizeHandles(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "l", Type: diagram.NodeLoopB, X: 0, Y: 0})
	c.SelectNode("l")

	// where the SE handle would be; the marker is elliptical, so the
	// corner misses the body too and this pans instead
	c.PointerDown(geo.NewPoint(22, 22), leftClick())
	assert.IsType(t, Panning{}, c.Mode())
}

func TestPanSuppressesNextClick(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "a", Type: diagram.NodeVariable, X: 0, Y: 0})
	c.SelectNode("a")

	c.PointerDown(geo.NewPoint(400, 400), leftClick())
	require.IsType(t, Panning{}, c.Mode())
	c.PointerMove(geo.NewPoint(420, 410))
	assert.True(t, c.Viewport().Pan.Equals(geo.NewPoint(20, 10)))

	c.PointerUp(geo.NewPoint(420, 410))
	c.Click(geo.NewPoint(420, 410))
	assert.Equal(t, "a", c.Selection().NodeID, "click after drag-pan must not deselect")

	// a plain background click does deselect
	c.PointerDown(geo.NewPoint(400, 400), leftClick())
	c.PointerUp(geo.NewPoint(400, 400))
	c.Click(geo.NewPoint(400, 400))
	assert.True(t, c.Selection().Empty())
}

func TestPopupPointerDownCloses(t *testing.T) {
	c := testCanvas(
		diagram.Node{ID: "a", Type: diagram.NodeVariable, X: 0, Y: 0},
		diagram.Node{ID: "b", Type: diagram.NodeVariable, X: 300, Y: 0},
	)
	c.PointerDown(geo.NewPoint(0, 0), leftClick())
	c.PointerMove(geo.NewPoint(290, 0))
	c.PointerUp(geo.NewPoint(290, 0))
	require.IsType(t, ConnectionTypePopup{}, c.Mode())

	// pointer-down outside the popup closes it and takes no other action
	c.PointerDown(geo.NewPoint(500, 500), leftClick())
	assert.IsType(t, Idle{}, c.Mode())
	assert.Empty(t, c.Diagram().Connections)
}

func TestDoubleClickEditsLabel(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "a", Type: diagram.NodeVariable, Label: "old", X: 0, Y: 0})

	c.DoubleClick(geo.NewPoint(0, 0))
	require.IsType(t, EditingLabel{}, c.Mode())

	c.SetLabelDraft("new label")
	c.KeyDown(Key{Name: "Enter"})
	assert.Equal(t, "new label", c.Diagram().Node("a").Label)
	assert.IsType(t, Idle{}, c.Mode())
}

func TestDoubleClickCloudDoesNothing(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "c", Type: diagram.NodeCloud, X: 0, Y: 0})
	c.DoubleClick(geo.NewPoint(0, 0))
	assert.IsType(t, Idle{}, c.Mode())
}

func TestLabelEscapeDiscards(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "a", Type: diagram.NodeVariable, Label: "old", X: 0, Y: 0})
	c.DoubleClick(geo.NewPoint(0, 0))
	c.SetLabelDraft("draft")
	c.KeyDown(Key{Name: "Escape"})

	assert.Equal(t, "old", c.Diagram().Node("a").Label)
}

func TestDeleteCascades(t *testing.T) {
	c := connectedPair()
	c.SelectNode("a")

	c.KeyDown(Key{Name: "Delete"})
	assert.Nil(t, c.Diagram().Node("a"))
	assert.Empty(t, c.Diagram().Connections, "incident edges go with the node")
	assert.True(t, c.Selection().Empty())
}

func TestEscapeCancelsPlacement(t *testing.T) {
	c := testCanvas()
	c.SetPlacement(diagram.NodeFlow)
	c.KeyDown(Key{Name: "Escape"})
	assert.IsType(t, Idle{}, c.Mode())

	c.PointerDown(geo.NewPoint(10, 10), leftClick())
	assert.Empty(t, c.Diagram().Elements, "canceled placement must not create")
}

func TestCopyPasteOffset(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "a", Type: diagram.NodeVariable, Label: "x", X: 100, Y: 100})
	c.SelectNode("a")

	c.KeyDown(Key{Name: "c", Ctrl: true})
	c.KeyDown(Key{Name: "v", Ctrl: true})

	require.Len(t, c.Diagram().Elements, 2)
	pasted := c.Diagram().Node(c.Selection().NodeID)
	require.NotNil(t, pasted)
	assert.NotEqual(t, "a", pasted.ID)
	assert.InDelta(t, 130, pasted.X, 1e-9)
	assert.InDelta(t, 130, pasted.Y, 1e-9)
	assert.Equal(t, "x", pasted.Label)
}

func TestDuplicateShortcut(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "a", Type: diagram.NodeConverter, X: 0, Y: 0})
	c.SelectNode("a")

	c.KeyDown(Key{Name: "d", Ctrl: true})
	assert.Len(t, c.Diagram().Elements, 2)
}

func TestPlacementShortcuts(t *testing.T) {
	c := testCanvas()
	c.KeyDown(Key{Name: "s"})

	m, ok := c.Mode().(PlacementPending)
	require.True(t, ok)
	assert.Equal(t, diagram.NodeStock, m.NodeType)

	// modified letters are not placement shortcuts
	c.KeyDown(Key{Name: "Escape"})
	c.KeyDown(Key{Name: "s", Ctrl: true})
	assert.IsType(t, Idle{}, c.Mode())
}

func TestUndoRedoThroughKeyboard(t *testing.T) {
	c := testCanvas()
	_, err := c.AddNodeAt(diagram.NodeVariable, geo.NewPoint(10, 10))
	require.NoError(t, err)

	c.KeyDown(Key{Name: "z", Ctrl: true})
	assert.Empty(t, c.Diagram().Elements)

	c.KeyDown(Key{Name: "z", Ctrl: true, Shift: true})
	assert.Len(t, c.Diagram().Elements, 1)
}

func TestSelectionChangeNotification(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "a", Type: diagram.NodeVariable, X: 0, Y: 0})

	var got []Selection
	c.OnSelectionChange(func(s Selection) { got = append(got, s) })

	c.SelectNode("a")
	c.SelectNode("a") // no-op, no duplicate notification
	c.ClearSelection()

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].NodeID)
	assert.True(t, got[1].Empty())
}

func TestRenderInteractiveIncludesOverlays(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "a", Type: diagram.NodeVariable, X: 0, Y: 0})

	plain := len(c.RenderInteractive())
	c.SelectNode("a")
	selected := len(c.RenderInteractive())
	assert.Greater(t, selected, plain)
}

func TestSelfDropDoesNotConnect(t *testing.T) {
	c := testCanvas(diagram.Node{ID: "a", Type: diagram.NodeVariable, X: 0, Y: 0})
	c.SelectNode("a")

	c.PointerDown(geo.NewPoint(50, 0), leftClick()) // connect handle
	c.PointerMove(geo.NewPoint(10, 0))              // back over the source
	c.PointerUp(geo.NewPoint(10, 0))

	assert.IsType(t, Idle{}, c.Mode(), "self-connection is not offered")
	assert.Empty(t, c.Diagram().Connections)
}
