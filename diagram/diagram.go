// Package diagram holds the data model for causal-loop and stock-flow
// diagrams: typed nodes, polarity-typed curved edges, and loop metadata.
// Snapshots are immutable by convention; see the edit package for mutations.
package diagram

import (
	"time"
)

type Type string

const (
	TypeCLD       Type = "cld"
	TypeStockFlow Type = "stockflow"
)

type NodeType string

const (
	NodeVariable  NodeType = "variable"
	NodeStock     NodeType = "stock"
	NodeFlow      NodeType = "flow"
	NodeConverter NodeType = "converter"
	NodeCloud     NodeType = "cloud"
	NodeLoopR     NodeType = "loopR"
	NodeLoopB     NodeType = "loopB"
)

func IsNodeType(s string) bool {
	switch NodeType(s) {
	case NodeVariable, NodeStock, NodeFlow, NodeConverter, NodeCloud, NodeLoopR, NodeLoopB:
		return true
	}
	return false
}

// IsElliptical reports whether the type's boundary is an ellipse rather than
// its bounding box. Drives edge-point math and hit-testing.
func (t NodeType) IsElliptical() bool {
	switch t {
	case NodeConverter, NodeCloud, NodeLoopR, NodeLoopB:
		return true
	}
	return false
}

// IsLoopMarker markers carry no free-text label and cannot be resized.
func (t NodeType) IsLoopMarker() bool {
	return t == NodeLoopR || t == NodeLoopB
}

// HasLabel reports whether double-click label editing applies.
func (t NodeType) HasLabel() bool {
	return t != NodeCloud && !t.IsLoopMarker()
}

type EdgeType string

const (
	EdgePositive  EdgeType = "positive"
	EdgeNegative  EdgeType = "negative"
	EdgeNeutral   EdgeType = "neutral"
	EdgeFlowPipe  EdgeType = "flow_pipe"
	EdgeConnector EdgeType = "connector"
)

func IsEdgeType(s string) bool {
	switch EdgeType(s) {
	case EdgePositive, EdgeNegative, EdgeNeutral, EdgeFlowPipe, EdgeConnector:
		return true
	}
	return false
}

type Anchor string

const (
	AnchorAuto   Anchor = "auto"
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
	AnchorLeft   Anchor = "left"
	AnchorRight  Anchor = "right"
)

type LineStyle string

const (
	LineUnset  LineStyle = ""
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
)

type LoopType string

const (
	LoopReinforcing LoopType = "reinforcing"
	LoopBalancing   LoopType = "balancing"
)

const (
	DefaultCurve       = 80.0
	MinCurve           = -200.0
	MaxCurve           = 200.0
	DefaultStrokeWidth = 1.5

	MinNodeWidth  = 60.0
	MinNodeHeight = 30.0
)

type Diagram struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name"`
	Type        Type   `json:"type" validate:"omitempty,oneof=cld stockflow"`
	Description string `json:"description,omitempty"`

	Elements    []Node       `json:"elements" validate:"dive"`
	Connections []Edge       `json:"connections" validate:"dive"`
	Loops       []Loop       `json:"loops" validate:"dive"`
	Annotations []Annotation `json:"annotations"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Node is a placed shape. X, Y is the shape's center in canvas (model)
// space, never screen space.
type Node struct {
	ID    string   `json:"id" validate:"required"`
	Type  NodeType `json:"type" validate:"required,oneof=variable stock flow converter cloud loopR loopB"`
	Label string   `json:"label,omitempty"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	// zero means the type default applies
	Width  float64 `json:"width,omitempty" validate:"omitempty,gte=0"`
	Height float64 `json:"height,omitempty" validate:"omitempty,gte=0"`

	FillColor   string  `json:"fillColor,omitempty"`
	StrokeColor string  `json:"strokeColor,omitempty"`
	TextColor   string  `json:"textColor,omitempty"`
	FontFamily  string  `json:"fontFamily,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty" validate:"omitempty,gt=0"`
	FontWeight  string  `json:"fontWeight,omitempty"`
	FontStyle   string  `json:"fontStyle,omitempty"`
}

type Edge struct {
	ID     string   `json:"id" validate:"required"`
	Source string   `json:"source" validate:"required"`
	Target string   `json:"target" validate:"required"`
	Type   EdgeType `json:"type" validate:"required,oneof=positive negative neutral flow_pipe connector"`

	Curve        float64 `json:"curve"`
	SourceAnchor Anchor  `json:"sourceAnchor,omitempty" validate:"omitempty,oneof=auto top bottom left right"`
	TargetAnchor Anchor  `json:"targetAnchor,omitempty" validate:"omitempty,oneof=auto top bottom left right"`

	LineStyle   LineStyle `json:"lineStyle,omitempty" validate:"omitempty,oneof=solid dashed dotted"`
	StrokeWidth float64   `json:"strokeWidth,omitempty" validate:"omitempty,gt=0"`
	StrokeColor string    `json:"strokeColor,omitempty"`
	HasDelay    bool      `json:"hasDelay,omitempty"`
}

// Loop is user-entered metadata describing a feedback cycle. The polarity
// classification is never derived from the connections; it stays whatever
// the author annotated.
type Loop struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Type        LoopType `json:"type" validate:"omitempty,oneof=reinforcing balancing"`
	NodeIDs     []string `json:"nodeIds,omitempty"`
}

type Annotation struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"fontSize,omitempty"`
}

func NewDiagram() *Diagram {
	now := time.Now().UTC()
	return &Diagram{
		ID:          NewID("diagram"),
		Type:        TypeCLD,
		Elements:    []Node{},
		Connections: []Edge{},
		Loops:       []Loop{},
		Annotations: []Annotation{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (d *Diagram) Node(id string) *Node {
	for i := range d.Elements {
		if d.Elements[i].ID == id {
			return &d.Elements[i]
		}
	}
	return nil
}

func (d *Diagram) Edge(id string) *Edge {
	for i := range d.Connections {
		if d.Connections[i].ID == id {
			return &d.Connections[i]
		}
	}
	return nil
}

// HasNode is the dangling-edge guard: both renderers skip connections whose
// endpoints are missing from Elements.
func (d *Diagram) HasNode(id string) bool {
	return d.Node(id) != nil
}

func (d *Diagram) Clone() *Diagram {
	clone := *d
	clone.Elements = make([]Node, len(d.Elements))
	copy(clone.Elements, d.Elements)
	clone.Connections = make([]Edge, len(d.Connections))
	copy(clone.Connections, d.Connections)
	clone.Loops = make([]Loop, len(d.Loops))
	for i, l := range d.Loops {
		clone.Loops[i] = l
		if l.NodeIDs != nil {
			clone.Loops[i].NodeIDs = append([]string(nil), l.NodeIDs...)
		}
	}
	clone.Annotations = make([]Annotation, len(d.Annotations))
	copy(clone.Annotations, d.Annotations)
	return &clone
}

// Size returns the node's dimensions, falling back to the type default when
// no explicit override is set.
func (n *Node) Size() (width, height float64) {
	width, height = DefaultSize(n.Type)
	if n.Width > 0 {
		width = n.Width
	}
	if n.Height > 0 {
		height = n.Height
	}
	return width, height
}

// DefaultSize is the fixed per-type size used when a node carries no
// explicit width/height.
func DefaultSize(t NodeType) (width, height float64) {
	switch t {
	case NodeStock:
		return 100, 44
	case NodeFlow:
		return 40, 34
	case NodeConverter:
		return 40, 40
	case NodeCloud:
		return 50, 36
	case NodeLoopR, NodeLoopB:
		return 44, 44
	default: // variable
		return 80, 24
	}
}

// EffectiveLineStyle preserves the legacy default: unset style renders
// dashed for negative links and solid for everything else.
func (e *Edge) EffectiveLineStyle() LineStyle {
	if e.LineStyle != LineUnset {
		return e.LineStyle
	}
	if e.Type == EdgeNegative {
		return LineDashed
	}
	return LineSolid
}

func (e *Edge) EffectiveStrokeWidth() float64 {
	if e.StrokeWidth > 0 {
		return e.StrokeWidth
	}
	return DefaultStrokeWidth
}

// PolarityGlyph is the symbol drawn near the head of the connection.
func (e *Edge) PolarityGlyph() string {
	switch e.Type {
	case EdgePositive:
		return "+"
	case EdgeNegative:
		return "−"
	}
	return ""
}
