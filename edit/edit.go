// Package edit applies validated changes to diagram snapshots. Every
// operation takes the current diagram and returns a new one; inputs are
// never mutated, which is what makes snapshot-based undo/redo safe.
package edit

import (
	"fmt"

	"oss.terrastruct.com/util-go/xdefer"

	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/color"
	"github.com/loopcanvas/loopcanvas/lib/geo"
)

// Offset applied to duplicated and pasted nodes so the copy never sits
// exactly on top of the original.
const DuplicateOffset = 30.0

func touch(d *diagram.Diagram) *diagram.Diagram {
	clone := d.Clone()
	clone.UpdatedAt = nowFunc()
	return clone
}

func AddNode(d *diagram.Diagram, nodeType diagram.NodeType, label string, x, y float64) (_ *diagram.Diagram, newID string, err error) {
	defer xdefer.Errorf(&err, "failed to add %v node", nodeType)

	if !diagram.IsNodeType(string(nodeType)) {
		return nil, "", fmt.Errorf("unknown node type %q", nodeType)
	}

	clone := touch(d)
	newID = diagram.NewID("node")
	clone.Elements = append(clone.Elements, diagram.Node{
		ID:    newID,
		Type:  nodeType,
		Label: label,
		X:     x,
		Y:     y,
	})
	return clone, newID, nil
}

func MoveNode(d *diagram.Diagram, id string, x, y float64) (_ *diagram.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to move node %q", id)

	if d.Node(id) == nil {
		return nil, fmt.Errorf("node not found")
	}
	clone := touch(d)
	n := clone.Node(id)
	n.X = x
	n.Y = y
	return clone, nil
}

// ResizeNode clamps to the canvas minimums so a drag can never invert or
// collapse a shape.
func ResizeNode(d *diagram.Diagram, id string, width, height float64) (_ *diagram.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to resize node %q", id)

	node := d.Node(id)
	if node == nil {
		return nil, fmt.Errorf("node not found")
	}
	if node.Type.IsLoopMarker() {
		return nil, fmt.Errorf("loop markers have a fixed size")
	}
	clone := touch(d)
	n := clone.Node(id)
	n.Width = geo.Clamp(width, diagram.MinNodeWidth, 1e6)
	n.Height = geo.Clamp(height, diagram.MinNodeHeight, 1e6)
	return clone, nil
}

func UpdateNodeLabel(d *diagram.Diagram, id, label string) (_ *diagram.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to update label of node %q", id)

	node := d.Node(id)
	if node == nil {
		return nil, fmt.Errorf("node not found")
	}
	if !node.Type.HasLabel() {
		return nil, fmt.Errorf("%v nodes carry no label", node.Type)
	}
	clone := touch(d)
	clone.Node(id).Label = label
	return clone, nil
}

// UpdateNodeStyle sets one style field by name. Color fields are validated
// and normalized to hex before committing.
func UpdateNodeStyle(d *diagram.Diagram, id, field, value string) (_ *diagram.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to set %v on node %q", field, id)

	if d.Node(id) == nil {
		return nil, fmt.Errorf("node not found")
	}

	clone := touch(d)
	n := clone.Node(id)
	switch field {
	case "fillColor", "strokeColor", "textColor":
		normalized, err := color.Normalize(value)
		if err != nil {
			return nil, err
		}
		switch field {
		case "fillColor":
			n.FillColor = normalized
		case "strokeColor":
			n.StrokeColor = normalized
		case "textColor":
			n.TextColor = normalized
		}
	case "fontFamily":
		n.FontFamily = value
	case "fontWeight":
		n.FontWeight = value
	case "fontStyle":
		n.FontStyle = value
	case "fontSize":
		size, err := parseSize(value)
		if err != nil {
			return nil, err
		}
		n.FontSize = size
	default:
		return nil, fmt.Errorf("unknown style field")
	}
	return clone, nil
}

// DeleteNode removes the node and cascades to every connection referencing
// it, so a committed diagram never holds a dangling edge.
func DeleteNode(d *diagram.Diagram, id string) (_ *diagram.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to delete node %q", id)

	if d.Node(id) == nil {
		return nil, fmt.Errorf("node not found")
	}
	clone := touch(d)

	elements := clone.Elements[:0]
	for _, n := range clone.Elements {
		if n.ID != id {
			elements = append(elements, n)
		}
	}
	clone.Elements = elements

	connections := clone.Connections[:0]
	for _, e := range clone.Connections {
		if e.Source != id && e.Target != id {
			connections = append(connections, e)
		}
	}
	clone.Connections = connections
	return clone, nil
}

func DuplicateNode(d *diagram.Diagram, id string) (_ *diagram.Diagram, newID string, err error) {
	defer xdefer.Errorf(&err, "failed to duplicate node %q", id)

	node := d.Node(id)
	if node == nil {
		return nil, "", fmt.Errorf("node not found")
	}
	clone := touch(d)
	dup := *node
	dup.ID = diagram.NewID("node")
	dup.X += DuplicateOffset
	dup.Y += DuplicateOffset
	clone.Elements = append(clone.Elements, dup)
	return clone, dup.ID, nil
}

// PasteNode inserts a copy of a node captured earlier (clipboard), with a
// fresh id and the same paste offset as duplication. The source node does
// not need to exist in d anymore.
func PasteNode(d *diagram.Diagram, node diagram.Node) (_ *diagram.Diagram, newID string, err error) {
	defer xdefer.Errorf(&err, "failed to paste node")

	if !diagram.IsNodeType(string(node.Type)) {
		return nil, "", fmt.Errorf("unknown node type %q", node.Type)
	}
	clone := touch(d)
	node.ID = diagram.NewID("node")
	node.X += DuplicateOffset
	node.Y += DuplicateOffset
	clone.Elements = append(clone.Elements, node)
	return clone, node.ID, nil
}

func AddEdge(d *diagram.Diagram, edgeType diagram.EdgeType, source, target string, sourceAnchor, targetAnchor diagram.Anchor) (_ *diagram.Diagram, newID string, err error) {
	defer xdefer.Errorf(&err, "failed to connect %q -> %q", source, target)

	if !diagram.IsEdgeType(string(edgeType)) {
		return nil, "", fmt.Errorf("unknown connection type %q", edgeType)
	}
	if source == target {
		return nil, "", fmt.Errorf("connection cannot point at its own source")
	}
	if d.Node(source) == nil {
		return nil, "", fmt.Errorf("source node not found")
	}
	if d.Node(target) == nil {
		return nil, "", fmt.Errorf("target node not found")
	}
	if sourceAnchor == "" {
		sourceAnchor = diagram.AnchorAuto
	}
	if targetAnchor == "" {
		targetAnchor = diagram.AnchorAuto
	}

	clone := touch(d)
	newID = diagram.NewID("conn")
	clone.Connections = append(clone.Connections, diagram.Edge{
		ID:           newID,
		Source:       source,
		Target:       target,
		Type:         edgeType,
		Curve:        diagram.DefaultCurve,
		SourceAnchor: sourceAnchor,
		TargetAnchor: targetAnchor,
	})
	return clone, newID, nil
}

// UpdateEdgeCurve clamps to the allowed range; drags far past the limit
// just pin the curve at the boundary.
func UpdateEdgeCurve(d *diagram.Diagram, id string, curve float64) (_ *diagram.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to update curve of connection %q", id)

	if d.Edge(id) == nil {
		return nil, fmt.Errorf("connection not found")
	}
	clone := touch(d)
	clone.Edge(id).Curve = geo.Clamp(curve, diagram.MinCurve, diagram.MaxCurve)
	return clone, nil
}

// UpdateEdgeAnchor pins one endpoint to a discrete side (or back to auto).
func UpdateEdgeAnchor(d *diagram.Diagram, id string, isSource bool, anchor diagram.Anchor) (_ *diagram.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to re-anchor connection %q", id)

	if d.Edge(id) == nil {
		return nil, fmt.Errorf("connection not found")
	}
	switch anchor {
	case diagram.AnchorAuto, diagram.AnchorTop, diagram.AnchorBottom, diagram.AnchorLeft, diagram.AnchorRight:
	default:
		return nil, fmt.Errorf("unknown anchor %q", anchor)
	}
	clone := touch(d)
	e := clone.Edge(id)
	if isSource {
		e.SourceAnchor = anchor
	} else {
		e.TargetAnchor = anchor
	}
	return clone, nil
}

func UpdateEdgeStyle(d *diagram.Diagram, id, field, value string) (_ *diagram.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to set %v on connection %q", field, id)

	if d.Edge(id) == nil {
		return nil, fmt.Errorf("connection not found")
	}
	clone := touch(d)
	e := clone.Edge(id)
	switch field {
	case "lineStyle":
		switch diagram.LineStyle(value) {
		case diagram.LineSolid, diagram.LineDashed, diagram.LineDotted:
			e.LineStyle = diagram.LineStyle(value)
		default:
			return nil, fmt.Errorf("unknown line style %q", value)
		}
	case "strokeColor":
		normalized, err := color.Normalize(value)
		if err != nil {
			return nil, err
		}
		e.StrokeColor = normalized
	case "strokeWidth":
		width, err := parseSize(value)
		if err != nil {
			return nil, err
		}
		e.StrokeWidth = width
	case "hasDelay":
		e.HasDelay = value == "true"
	case "type":
		if !diagram.IsEdgeType(value) {
			return nil, fmt.Errorf("unknown connection type %q", value)
		}
		e.Type = diagram.EdgeType(value)
	default:
		return nil, fmt.Errorf("unknown style field")
	}
	return clone, nil
}

func DeleteEdge(d *diagram.Diagram, id string) (_ *diagram.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to delete connection %q", id)

	if d.Edge(id) == nil {
		return nil, fmt.Errorf("connection not found")
	}
	clone := touch(d)
	connections := clone.Connections[:0]
	for _, e := range clone.Connections {
		if e.ID != id {
			connections = append(connections, e)
		}
	}
	clone.Connections = connections
	return clone, nil
}

// ClearAll empties the board but keeps identity and metadata.
func ClearAll(d *diagram.Diagram) *diagram.Diagram {
	clone := touch(d)
	clone.Elements = []diagram.Node{}
	clone.Connections = []diagram.Edge{}
	clone.Loops = []diagram.Loop{}
	clone.Annotations = []diagram.Annotation{}
	return clone
}
