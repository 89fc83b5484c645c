package canvas

import (
	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/geo"
	"github.com/loopcanvas/loopcanvas/render"
	"github.com/loopcanvas/loopcanvas/shape"
)

const (
	// EdgeHitWidth is the invisible wide region around the visible curve
	// that accepts curve drags.
	EdgeHitWidth = 20.0

	// handleHitSlack widens handle targets a little beyond their render
	// radius so they're clickable at low zoom.
	handleHitSlack = 3.0
)

// hit identifies what a canvas-space point lands on.
type hit interface {
	isHit()
}

type hitNone struct{}

type hitNode struct {
	ID string
}

type hitEdge struct {
	ID string
}

type hitConnectHandle struct {
	NodeID string
}

type hitResizeHandle struct {
	NodeID string
	Corner render.Corner
}

type hitEndpointHandle struct {
	EdgeID string
	End    Endpoint
}

func (hitNone) isHit() {}
func (hitNode) isHit() {}
func (hitEdge) isHit() {}
func (hitConnectHandle) isHit() {}
func (hitResizeHandle) isHit() {}
func (hitEndpointHandle) isHit() {}

func withinHandle(handle, p *geo.Point) bool {
	return handle != nil && handle.DistanceTo(p) <= render.HandleRadius+handleHitSlack
}

// hitTest resolves a canvas point to the topmost interactive target.
// Handles paint above bodies, bodies above endpoint handles, endpoint
// handles above the wide curve region, so the checks run in that order.
// Later elements of a slice paint later, hence the reverse iteration.
func (c *Canvas) hitTest(p *geo.Point) hit {
	d := c.diagram

	if sel := c.selection.NodeID; sel != "" {
		if n := d.Node(sel); n != nil {
			if withinHandle(render.ConnectHandlePos(n), p) {
				return hitConnectHandle{NodeID: sel}
			}
			if !n.Type.IsLoopMarker() {
				for _, corner := range render.Corners {
					if withinHandle(render.ResizeHandlePos(n, corner), p) {
						return hitResizeHandle{NodeID: sel, Corner: corner}
					}
				}
			}
		}
	}

	for i := len(d.Elements) - 1; i >= 0; i-- {
		if shape.Contains(&d.Elements[i], p) {
			return hitNode{ID: d.Elements[i].ID}
		}
	}

	if sel := c.selection.EdgeID; sel != "" {
		if e := d.Edge(sel); e != nil {
			if src, dst, ok := render.EdgeEndpoints(d, e); ok {
				if withinHandle(src, p) {
					return hitEndpointHandle{EdgeID: sel, End: EndpointSource}
				}
				if withinHandle(dst, p) {
					return hitEndpointHandle{EdgeID: sel, End: EndpointTarget}
				}
			}
		}
	}

	for i := len(d.Connections) - 1; i >= 0; i-- {
		e := &d.Connections[i]
		q, ok := render.EdgeCurve(d, e)
		if !ok {
			continue
		}
		if q.DistanceTo(p) <= EdgeHitWidth/2 {
			return hitEdge{ID: e.ID}
		}
	}

	return hitNone{}
}

// dragTargetNear finds the nearest node within the drop-to-connect
// proximity box of the given center, excluding one node id. Empty when
// nothing qualifies.
func dragTargetNear(d *diagram.Diagram, center *geo.Point, exclude string) string {
	const proximityX, proximityY = 60.0, 40.0

	best := ""
	bestDist := 0.0
	for i := range d.Elements {
		n := &d.Elements[i]
		if n.ID == exclude {
			continue
		}
		dx := center.X - n.X
		dy := center.Y - n.Y
		if dx < -proximityX || dx > proximityX || dy < -proximityY || dy > proximityY {
			continue
		}
		dist := center.DistanceTo(n.Center())
		if best == "" || dist < bestDist {
			best = n.ID
			bestDist = dist
		}
	}
	return best
}
