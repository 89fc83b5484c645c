package storage

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"oss.terrastruct.com/util-go/xdefer"

	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/color"
)

var validate = validator.New()

// Import parses an uploaded diagram file. Missing optional style fields
// take their defaults; a fresh id is assigned so the import never collides
// with a stored diagram. On any failure the caller's current diagram is
// untouched because nothing is mutated here.
func Import(data []byte) (*diagram.Diagram, error) {
	d, err := Decode(data)
	if err != nil {
		return nil, err
	}
	d.ID = uuid.NewString()
	return d, nil
}

// Decode parses and validates a diagram file without reassigning its id.
// The CLI uses it where the file is the document of record and the id
// must survive a round trip.
//
// Dangling connections are allowed through: both renderers skip them, and
// rejecting the whole file for one bad reference would lose user data.
func Decode(data []byte) (_ *diagram.Diagram, err error) {
	defer xdefer.Errorf(&err, "import failed")

	var d diagram.Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("not valid diagram JSON: %v", err)
	}
	if d.ID == "" {
		return nil, fmt.Errorf("missing diagram id")
	}

	// files written by other tools sometimes omit element ids; mint them
	// rather than rejecting the whole document
	for i := range d.Elements {
		if d.Elements[i].ID == "" {
			d.Elements[i].ID = diagram.NewID("node")
		}
	}
	for i := range d.Connections {
		if d.Connections[i].ID == "" {
			d.Connections[i].ID = diagram.NewID("conn")
		}
	}

	if err := validate.Struct(&d); err != nil {
		return nil, fmt.Errorf("structurally invalid diagram: %v", err)
	}

	// catch unparseable colors here rather than at png export time
	for i := range d.Elements {
		n := &d.Elements[i]
		for _, c := range []string{n.FillColor, n.StrokeColor, n.TextColor} {
			if err := color.Validate(c); err != nil {
				return nil, fmt.Errorf("element %q: %v", n.ID, err)
			}
		}
	}
	for i := range d.Connections {
		if err := color.Validate(d.Connections[i].StrokeColor); err != nil {
			return nil, fmt.Errorf("connection %q: %v", d.Connections[i].ID, err)
		}
	}
	return &d, nil
}
