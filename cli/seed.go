package cli

import (
	"github.com/loopcanvas/loopcanvas/diagram"
)

// seedDiagram is the classic population example: a reinforcing births loop
// and a balancing deaths loop. serve writes it out when asked to preview a
// file that does not exist yet, so a new session never starts on a blank
// page.
func seedDiagram() *diagram.Diagram {
	d := diagram.NewDiagram()
	d.Name = "Getting started"
	d.Description = "Population growth with a reinforcing births loop and a balancing deaths loop."
	d.Elements = []diagram.Node{
		{ID: "population", Type: diagram.NodeVariable, Label: "Population", X: 320, Y: 120},
		{ID: "births", Type: diagram.NodeVariable, Label: "Births", X: 160, Y: 280},
		{ID: "deaths", Type: diagram.NodeVariable, Label: "Deaths", X: 480, Y: 280},
		{ID: "loop-r", Type: diagram.NodeLoopR, X: 240, Y: 200},
		{ID: "loop-b", Type: diagram.NodeLoopB, X: 400, Y: 200},
	}
	d.Connections = []diagram.Edge{
		{ID: "births-to-population", Type: diagram.EdgePositive, Source: "births", Target: "population",
			Curve: diagram.DefaultCurve, SourceAnchor: diagram.AnchorAuto, TargetAnchor: diagram.AnchorAuto},
		{ID: "population-to-births", Type: diagram.EdgePositive, Source: "population", Target: "births",
			Curve: diagram.DefaultCurve, SourceAnchor: diagram.AnchorAuto, TargetAnchor: diagram.AnchorAuto},
		{ID: "population-to-deaths", Type: diagram.EdgePositive, Source: "population", Target: "deaths",
			Curve: diagram.DefaultCurve, SourceAnchor: diagram.AnchorAuto, TargetAnchor: diagram.AnchorAuto},
		{ID: "deaths-to-population", Type: diagram.EdgeNegative, Source: "deaths", Target: "population",
			Curve: diagram.DefaultCurve, SourceAnchor: diagram.AnchorAuto, TargetAnchor: diagram.AnchorAuto},
	}
	d.Loops = []diagram.Loop{
		{ID: "growth", Name: "Growth", Type: diagram.LoopReinforcing, NodeIDs: []string{"population", "births"}},
		{ID: "decline", Name: "Decline", Type: diagram.LoopBalancing, NodeIDs: []string{"population", "deaths"}},
	}
	return d
}
