// Package canvas is the interaction engine: it owns the viewport
// transform, the single active interaction mode, selection, and the
// snapshot history, and turns pointer/keyboard events into edit
// operations on the diagram.
package canvas

import (
	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/edit"
	"github.com/loopcanvas/loopcanvas/lib/color"
	"github.com/loopcanvas/loopcanvas/lib/geo"
	"github.com/loopcanvas/loopcanvas/pngrender"
	"github.com/loopcanvas/loopcanvas/render"
	"github.com/loopcanvas/loopcanvas/shape"
	"github.com/loopcanvas/loopcanvas/svgrender"
)

// Selection holds at most one selected node or edge, never both.
type Selection struct {
	NodeID string
	EdgeID string
}

func (s Selection) Empty() bool {
	return s.NodeID == "" && s.EdgeID == ""
}

// PointerButton distinguishes the pressed button on pointer-down.
type PointerButton int

const (
	ButtonLeft PointerButton = iota
	ButtonMiddle
	ButtonRight
)

// Pointer carries a pointer-down's button and held modifier state.
type Pointer struct {
	Button   PointerButton
	Modifier bool
}

// Canvas is one editing session over a diagram.
type Canvas struct {
	diagram  *diagram.Diagram
	viewport *Viewport
	mode     Mode

	selection Selection
	clipboard *diagram.Node
	history   *History

	// set after a drag-pan so the synthetic click that follows doesn't
	// clear the selection
	suppressNextClick bool

	onDiagramChange   func(*diagram.Diagram)
	onSelectionChange func(Selection)
}

func New(width, height float64, d *diagram.Diagram) *Canvas {
	if d == nil {
		d = diagram.NewDiagram()
	}
	c := &Canvas{
		diagram:  d,
		viewport: NewViewport(width, height),
		mode:     Idle{},
		history:  NewHistory(HistoryDepth),
	}
	c.history.Push(d)
	return c
}

func (c *Canvas) Diagram() *diagram.Diagram { return c.diagram }
func (c *Canvas) Viewport() *Viewport { return c.viewport }
func (c *Canvas) Mode() Mode { return c.mode }
func (c *Canvas) Selection() Selection { return c.selection }

// OnDiagramChange registers the controlled-value callback fired after
// every committed or live mutation.
func (c *Canvas) OnDiagramChange(fn func(*diagram.Diagram)) { c.onDiagramChange = fn }

func (c *Canvas) OnSelectionChange(fn func(Selection)) { c.onSelectionChange = fn }

// SetDiagram replaces the session's diagram (e.g. after a library load)
// and starts a fresh history.
func (c *Canvas) SetDiagram(d *diagram.Diagram) {
	c.diagram = d
	c.mode = Idle{}
	c.setSelection(Selection{})
	c.history.Clear()
	c.history.Push(d)
	c.notifyDiagram()
}

func (c *Canvas) notifyDiagram() {
	if c.onDiagramChange != nil {
		c.onDiagramChange(c.diagram)
	}
}

// apply swaps in a mutated snapshot without recording history; drag loops
// use it for live feedback.
func (c *Canvas) apply(d *diagram.Diagram) {
	c.diagram = d
	c.notifyDiagram()
}

// commit swaps in a mutated snapshot and records it as one undoable step.
func (c *Canvas) commit(d *diagram.Diagram) {
	c.diagram = d
	c.history.Push(d)
	c.notifyDiagram()
}

func (c *Canvas) setSelection(s Selection) {
	if s == c.selection {
		return
	}
	c.selection = s
	if c.onSelectionChange != nil {
		c.onSelectionChange(s)
	}
}

func (c *Canvas) SelectNode(id string) { c.setSelection(Selection{NodeID: id}) }
func (c *Canvas) SelectEdge(id string) { c.setSelection(Selection{EdgeID: id}) }
func (c *Canvas) ClearSelection() { c.setSelection(Selection{}) }

// SetPlacement arms placement mode: the next background click creates a
// node of this type.
func (c *Canvas) SetPlacement(t diagram.NodeType) {
	c.mode = PlacementPending{NodeType: t}
}

// AddNodeAt serves the host's "add node at position" request directly.
func (c *Canvas) AddNodeAt(t diagram.NodeType, p *geo.Point) (string, error) {
	d, id, err := edit.AddNode(c.diagram, t, "", p.X, p.Y)
	if err != nil {
		return "", err
	}
	c.commit(d)
	c.SelectNode(id)
	return id, nil
}

// PointerDown disambiguates the gesture. The checks run in a fixed
// priority order; the first match decides the mode for the whole drag.
func (c *Canvas) PointerDown(screen *geo.Point, pt Pointer) {
	p := c.viewport.ScreenToCanvas(screen)

	// an open popup swallows the event: close it and do nothing else
	if _, open := c.mode.(ConnectionTypePopup); open {
		c.mode = Idle{}
		return
	}

	if pending, armed := c.mode.(PlacementPending); armed {
		if _, background := c.hitTest(p).(hitNone); background {
			c.mode = Idle{}
			if _, err := c.AddNodeAt(pending.NodeType, p); err != nil {
				c.mode = pending
			}
			return
		}
		// placement only consumes background clicks; anything else
		// falls through and replaces the pending mode
	}

	switch h := c.hitTest(p).(type) {
	case hitConnectHandle:
		c.mode = DrawingConnection{SourceID: h.NodeID, Pointer: p}

	case hitResizeHandle:
		n := c.diagram.Node(h.NodeID)
		w, ht := n.Size()
		c.mode = Resizing{
			NodeID:      h.NodeID,
			Corner:      h.Corner,
			StartCanvas: p,
			StartWidth:  w,
			StartHeight: ht,
		}

	case hitNode:
		n := c.diagram.Node(h.ID)
		c.SelectNode(h.ID)
		c.mode = DraggingNode{
			ID:       h.ID,
			StartPos: n.Center(),
			Offset:   n.Center().VectorTo(p),
		}

	case hitEndpointHandle:
		c.mode = DraggingEndpoint{EdgeID: h.EdgeID, End: h.End, Pointer: p}

	case hitEdge:
		c.SelectEdge(h.ID)
		c.mode = DraggingCurve{EdgeID: h.ID}

	case hitNone:
		if pt.Button == ButtonLeft || pt.Button == ButtonMiddle || pt.Modifier {
			c.mode = Panning{StartScreen: screen.Copy(), StartPan: c.viewport.Pan.Copy()}
		}
	}
}

func (c *Canvas) PointerMove(screen *geo.Point) {
	p := c.viewport.ScreenToCanvas(screen)

	switch m := c.mode.(type) {
	case Panning:
		c.viewport.Pan = geo.NewPoint(
			m.StartPan.X+screen.X-m.StartScreen.X,
			m.StartPan.Y+screen.Y-m.StartScreen.Y,
		)
		if !screen.Equals(m.StartScreen) {
			m.Moved = true
			c.mode = m
		}

	case DraggingNode:
		center := p.Copy()
		center.X -= m.Offset[0]
		center.Y -= m.Offset[1]
		if d, err := edit.MoveNode(c.diagram, m.ID, center.X, center.Y); err == nil {
			c.apply(d)
		}
		m.DragTarget = dragTargetNear(c.diagram, center, m.ID)
		if !center.Equals(m.StartPos) {
			m.Moved = true
		}
		c.mode = m

	case DrawingConnection:
		m.Pointer = p
		m.DragTarget = dragTargetNear(c.diagram, p, m.SourceID)
		c.mode = m

	case DraggingCurve:
		e := c.diagram.Edge(m.EdgeID)
		if e == nil {
			c.mode = Idle{}
			return
		}
		src := c.diagram.Node(e.Source)
		dst := c.diagram.Node(e.Target)
		if src == nil || dst == nil {
			c.mode = Idle{}
			return
		}
		offset := geo.CurveOffsetFor(src.Center(), dst.Center(), p)
		if d, err := edit.UpdateEdgeCurve(c.diagram, m.EdgeID, offset); err == nil {
			c.apply(d)
			m.Moved = true
			c.mode = m
		}

	case DraggingEndpoint:
		m.Pointer = p
		m.Moved = true
		c.mode = m

	case Resizing:
		dx := p.X - m.StartCanvas.X
		dy := p.Y - m.StartCanvas.Y
		w, h := m.StartWidth, m.StartHeight
		switch m.Corner {
		case render.CornerNE:
			w += 2 * dx
			h -= 2 * dy
		case render.CornerSE:
			w += 2 * dx
			h += 2 * dy
		case render.CornerSW:
			w -= 2 * dx
			h += 2 * dy
		default: // NW
			w -= 2 * dx
			h -= 2 * dy
		}
		if d, err := edit.ResizeNode(c.diagram, m.NodeID, w, h); err == nil {
			c.apply(d)
			m.Moved = true
			c.mode = m
		}
	}
}

func (c *Canvas) PointerUp(screen *geo.Point) {
	p := c.viewport.ScreenToCanvas(screen)

	switch m := c.mode.(type) {
	case Panning:
		if m.Moved {
			c.suppressNextClick = true
		}
		c.mode = Idle{}

	case DraggingNode:
		if m.DragTarget != "" {
			// dropping onto another node is a connect gesture, not a
			// move: put the node back and ask for the connection type
			if d, err := edit.MoveNode(c.diagram, m.ID, m.StartPos.X, m.StartPos.Y); err == nil {
				c.apply(d)
			}
			target := c.diagram.Node(m.DragTarget)
			c.mode = ConnectionTypePopup{
				SourceID:     m.ID,
				TargetID:     m.DragTarget,
				SourceAnchor: diagram.AnchorAuto,
				TargetAnchor: diagram.AnchorAuto,
				At:           target.Center(),
			}
			return
		}
		if m.Moved {
			c.commit(c.diagram)
		}
		c.mode = Idle{}

	case DrawingConnection:
		if m.DragTarget != "" && m.DragTarget != m.SourceID {
			target := c.diagram.Node(m.DragTarget)
			c.mode = ConnectionTypePopup{
				SourceID:     m.SourceID,
				TargetID:     m.DragTarget,
				SourceAnchor: diagram.AnchorAuto,
				TargetAnchor: diagram.AnchorAuto,
				At:           target.Center(),
			}
			return
		}
		c.mode = Idle{}

	case DraggingCurve:
		if m.Moved {
			c.commit(c.diagram)
		}
		c.mode = Idle{}

	case DraggingEndpoint:
		e := c.diagram.Edge(m.EdgeID)
		if e == nil || !m.Moved {
			c.mode = Idle{}
			return
		}
		nodeID := e.Source
		if m.End == EndpointTarget {
			nodeID = e.Target
		}
		if n := c.diagram.Node(nodeID); n != nil {
			side := shape.ClosestAnchorSide(n, p)
			if d, err := edit.UpdateEdgeAnchor(c.diagram, m.EdgeID, m.End == EndpointSource, side); err == nil {
				c.commit(d)
			}
		}
		c.mode = Idle{}

	case Resizing:
		if m.Moved {
			c.commit(c.diagram)
		}
		c.mode = Idle{}
	}
}

// Click handles the synthetic click that follows pointer-up on the canvas
// background: it deselects, unless a drag-pan just ended.
func (c *Canvas) Click(screen *geo.Point) {
	if c.suppressNextClick {
		c.suppressNextClick = false
		return
	}
	if _, open := c.mode.(ConnectionTypePopup); open {
		return
	}
	p := c.viewport.ScreenToCanvas(screen)
	if _, background := c.hitTest(p).(hitNone); background {
		c.ClearSelection()
	}
}

// DoubleClick starts label editing on eligible nodes. Clouds and loop
// markers carry no free text.
func (c *Canvas) DoubleClick(screen *geo.Point) {
	p := c.viewport.ScreenToCanvas(screen)
	if h, isNode := c.hitTest(p).(hitNode); isNode {
		n := c.diagram.Node(h.ID)
		if n != nil && n.Type.HasLabel() {
			c.SelectNode(h.ID)
			c.mode = EditingLabel{NodeID: h.ID, Draft: n.Label}
		}
	}
}

// SetLabelDraft tracks the text field while editing a label.
func (c *Canvas) SetLabelDraft(draft string) {
	if m, editing := c.mode.(EditingLabel); editing {
		m.Draft = draft
		c.mode = m
	}
}

// CommitLabel applies the draft (Enter or blur).
func (c *Canvas) CommitLabel() {
	m, editing := c.mode.(EditingLabel)
	if !editing {
		return
	}
	if d, err := edit.UpdateNodeLabel(c.diagram, m.NodeID, m.Draft); err == nil {
		c.commit(d)
	}
	c.mode = Idle{}
}

// CancelLabel discards the draft (Escape).
func (c *Canvas) CancelLabel() {
	if _, editing := c.mode.(EditingLabel); editing {
		c.mode = Idle{}
	}
}

// ChooseConnectionType commits the pending popup into a new edge.
func (c *Canvas) ChooseConnectionType(t diagram.EdgeType) error {
	m, open := c.mode.(ConnectionTypePopup)
	if !open {
		return nil
	}
	d, id, err := edit.AddEdge(c.diagram, t, m.SourceID, m.TargetID, m.SourceAnchor, m.TargetAnchor)
	if err != nil {
		return err
	}
	c.mode = Idle{}
	c.commit(d)
	c.SelectEdge(id)
	return nil
}

// DismissPopup closes the pending connection popup without creating
// anything.
func (c *Canvas) DismissPopup() {
	if _, open := c.mode.(ConnectionTypePopup); open {
		c.mode = Idle{}
	}
}

// Wheel forwards wheel gestures to the viewport.
func (c *Canvas) Wheel(screen *geo.Point, deltaX, deltaY float64, zoomModifier bool) {
	c.viewport.Wheel(screen, deltaX, deltaY, zoomModifier)
}

// Control surface for the host's toolbar.

func (c *Canvas) ZoomIn() { c.viewport.ZoomIn() }
func (c *Canvas) ZoomOut() { c.viewport.ZoomOut() }
func (c *Canvas) ResetView() { c.viewport.Reset() }
func (c *Canvas) GetZoom() float64 { return c.viewport.Zoom }

func (c *Canvas) FitToContent() {
	c.viewport.FitToContent(c.diagram.BoundingBox(0))
}

func (c *Canvas) ExportSVG(background string) []byte {
	return svgrender.Export(c.diagram, background)
}

func (c *Canvas) ExportPNG(background string) ([]byte, error) {
	return pngrender.Export(c.diagram, background)
}

// Undo restores the previous committed snapshot.
func (c *Canvas) Undo() bool {
	d, ok := c.history.Undo()
	if !ok {
		return false
	}
	c.mode = Idle{}
	c.setSelection(Selection{})
	c.apply(d)
	return true
}

func (c *Canvas) Redo() bool {
	d, ok := c.history.Redo()
	if !ok {
		return false
	}
	c.mode = Idle{}
	c.setSelection(Selection{})
	c.apply(d)
	return true
}

// overlays derives the selection-conditional affordances and transient
// feedback for the current mode, as a pure function of (selection, mode).
func (c *Canvas) overlays() []render.Primitive {
	var prims []render.Primitive

	if id := c.selection.NodeID; id != "" {
		if n := c.diagram.Node(id); n != nil {
			prims = append(prims, render.NodeSelection(n)...)
		}
	}
	if id := c.selection.EdgeID; id != "" {
		if e := c.diagram.Edge(id); e != nil {
			prims = append(prims, render.EdgeSelection(c.diagram, e)...)
		}
	}

	switch m := c.mode.(type) {
	case DraggingNode:
		if t := c.diagram.Node(m.DragTarget); t != nil {
			prims = append(prims, render.NodeHighlight(t, color.DragTarget))
		}
	case DrawingConnection:
		if src := c.diagram.Node(m.SourceID); src != nil {
			prims = append(prims, render.TransientConnection(src.Center(), m.Pointer)...)
		}
		if t := c.diagram.Node(m.DragTarget); t != nil {
			prims = append(prims, render.NodeHighlight(t, color.DragTarget))
		}
	case DraggingEndpoint:
		prims = append(prims, render.HandleMarker(m.Pointer))
	}

	return prims
}

// RenderInteractive serializes the current view, selection affordances and
// transient overlays included.
func (c *Canvas) RenderInteractive() []byte {
	return svgrender.Interactive(
		c.diagram,
		c.viewport.Pan,
		c.viewport.Zoom,
		c.viewport.Width,
		c.viewport.Height,
		c.overlays(),
	)
}
