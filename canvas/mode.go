package canvas

import (
	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/geo"
	"github.com/loopcanvas/loopcanvas/render"
)

// Mode is the single active interaction state. Exactly one variant is live
// at a time; representing the state as a sum type makes the "panning while
// resizing" class of bug unrepresentable.
type Mode interface {
	mode()
}

type Idle struct{}

// Panning tracks a background drag. moved distinguishes a drag-pan from a
// click so the release can suppress the accidental deselect that follows.
type Panning struct {
	StartScreen *geo.Point
	StartPan    *geo.Point
	Moved       bool
}

// DraggingNode moves a node body. Offset is pointer minus center at drag
// start, so the node doesn't jump under the pointer. DragTarget is the
// current drop-to-connect candidate, empty when none. Moved gates the
// release commit so a plain select-click doesn't push history.
type DraggingNode struct {
	ID         string
	StartPos   *geo.Point
	Offset     geo.Vector
	DragTarget string
	Moved      bool
}

type DraggingCurve struct {
	EdgeID string
	Moved  bool
}

// DrawingConnection is the rubber-band gesture from a node's connect
// handle. Pointer is in canvas space.
type DrawingConnection struct {
	SourceID   string
	Pointer    *geo.Point
	DragTarget string
}

// Endpoint names which end of a connection is being dragged.
type Endpoint string

const (
	EndpointSource Endpoint = "source"
	EndpointTarget Endpoint = "target"
)

type DraggingEndpoint struct {
	EdgeID  string
	End     Endpoint
	Pointer *geo.Point
	Moved   bool
}

type Resizing struct {
	NodeID      string
	Corner      render.Corner
	StartCanvas *geo.Point
	StartWidth  float64
	StartHeight float64
	Moved       bool
}

type EditingLabel struct {
	NodeID string
	Draft  string
}

// ConnectionTypePopup holds a pending connection until the host commits a
// polarity choice or dismisses.
type ConnectionTypePopup struct {
	SourceID     string
	TargetID     string
	SourceAnchor diagram.Anchor
	TargetAnchor diagram.Anchor
	At           *geo.Point
}

// PlacementPending arms the next background click to create a node.
type PlacementPending struct {
	NodeType diagram.NodeType
}

func (Idle) mode() {}
func (Panning) mode() {}
func (DraggingNode) mode() {}
func (DraggingCurve) mode() {}
func (DrawingConnection) mode() {}
func (DraggingEndpoint) mode() {}
func (Resizing) mode() {}
func (EditingLabel) mode() {}
func (ConnectionTypePopup) mode() {}
func (PlacementPending) mode() {}
