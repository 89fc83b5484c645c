package diagram

import (
	"encoding/json"
)

// UnmarshalJSON fills in the defaults the wire format may omit: anchors
// default to auto, curve to 80, and absent slices become empty rather than
// nil so downstream code never branches on nil.
func (d *Diagram) UnmarshalJSON(data []byte) error {
	type alias Diagram
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Diagram(raw)
	if d.Type == "" {
		d.Type = TypeCLD
	}
	if d.Elements == nil {
		d.Elements = []Node{}
	}
	if d.Connections == nil {
		d.Connections = []Edge{}
	}
	if d.Loops == nil {
		d.Loops = []Loop{}
	}
	if d.Annotations == nil {
		d.Annotations = []Annotation{}
	}
	return nil
}

func (e *Edge) UnmarshalJSON(data []byte) error {
	type alias Edge
	raw := alias{
		Curve: DefaultCurve,
	}
	// a present "curve" key overrides the prefilled default, including 0
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Edge(raw)
	if e.SourceAnchor == "" {
		e.SourceAnchor = AnchorAuto
	}
	if e.TargetAnchor == "" {
		e.TargetAnchor = AnchorAuto
	}
	return nil
}

// Bytes returns the pretty-printed wire form used for .json exports and the
// on-disk store.
func (d *Diagram) Bytes() ([]byte, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
