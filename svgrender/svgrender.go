// Package svgrender serializes render scenes to SVG markup. The export
// frame is a standalone document at absolute coordinates; the interactive
// frame wraps the same markup in the pan/zoom transform group the editor
// session displays.
package svgrender

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/color"
	"github.com/loopcanvas/loopcanvas/lib/geo"
	"github.com/loopcanvas/loopcanvas/lib/svg"
	"github.com/loopcanvas/loopcanvas/lib/version"
	"github.com/loopcanvas/loopcanvas/render"
)

const (
	// ExportMargin expands each node's box before the content bounding box
	// is taken; ExportPadding is the outer border of the document.
	ExportMargin  = 20.0
	ExportPadding = 50.0

	// DefaultFontFamily is used when a node carries no override.
	DefaultFontFamily = "Helvetica, Arial, sans-serif"
)

// Background selections offered on export.
const (
	BackgroundWhite       = "white"
	BackgroundGray        = "gray"
	BackgroundTransparent = "transparent"
)

func backgroundFill(background string) string {
	switch background {
	case BackgroundWhite:
		return color.White
	case BackgroundGray:
		return color.Gray
	}
	return ""
}

// Frame is the resolved export geometry: document size and the translation
// applied to every canvas coordinate.
type Frame struct {
	Width     float64
	Height    float64
	Translate *geo.Point
}

// ExportFrame computes the document frame for a diagram: the node bounding
// box (each box expanded by ExportMargin) plus ExportPadding on every side.
// An empty diagram gets a square of bare padding.
func ExportFrame(d *diagram.Diagram) Frame {
	box := d.BoundingBox(ExportMargin)
	if box == nil {
		return Frame{
			Width:     2 * ExportPadding,
			Height:    2 * ExportPadding,
			Translate: geo.NewPoint(ExportPadding, ExportPadding),
		}
	}
	return Frame{
		Width:     box.Width + 2*ExportPadding,
		Height:    box.Height + 2*ExportPadding,
		Translate: geo.NewPoint(-box.TopLeft.X+ExportPadding, -box.TopLeft.Y+ExportPadding),
	}
}

// Export produces the standalone SVG document for a diagram.
func Export(d *diagram.Diagram, background string) []byte {
	frame := ExportFrame(d)

	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, `<?xml version="1.0" encoding="utf-8"?>`+"\n")
	fmt.Fprintf(buf, `<!-- Generated by loopcanvas %s -->`+"\n", version.Version)
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %[1]s %[2]s">`,
		fmtAttr(frame.Width), fmtAttr(frame.Height))

	if fill := backgroundFill(background); fill != "" {
		fmt.Fprintf(buf, `<rect width="100%%" height="100%%" fill="%s"/>`, fill)
	}

	fmt.Fprintf(buf, `<g transform="translate(%s %s)">`,
		fmtAttr(frame.Translate.X), fmtAttr(frame.Translate.Y))
	writeScene(buf, render.DiagramScene(d))
	buf.WriteString(`</g></svg>`)
	return buf.Bytes()
}

// Interactive renders the editing view: the scene under the session's
// pan/zoom transform, plus any overlay primitives (selection affordances,
// transient connection lines) the canvas wants on top.
func Interactive(d *diagram.Diagram, pan *geo.Point, zoom, width, height float64, overlays []render.Primitive) []byte {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s">`,
		fmtAttr(width), fmtAttr(height))
	fmt.Fprintf(buf, `<g transform="translate(%s %s) scale(%s)">`,
		fmtAttr(pan.X), fmtAttr(pan.Y), fmtAttr(zoom))

	writeScene(buf, render.DiagramScene(d))
	for _, p := range overlays {
		writePrimitive(buf, p)
	}

	buf.WriteString(`</g></svg>`)
	return buf.Bytes()
}

func writeScene(buf *bytes.Buffer, s *render.Scene) {
	for _, p := range s.Prims {
		writePrimitive(buf, p)
	}
}

func writePrimitive(buf *bytes.Buffer, p render.Primitive) {
	switch prim := p.(type) {
	case *render.Path:
		writePath(buf, prim)
	case *render.Text:
		writeText(buf, prim)
	}
}

func writePath(buf *bytes.Buffer, p *render.Path) {
	fmt.Fprintf(buf, `<path d="%s" fill="%s" stroke="%s"`, p.Data, orNone(p.Fill), orNone(p.Stroke))
	if p.Stroke != "" && p.Stroke != color.None {
		fmt.Fprintf(buf, ` stroke-width="%s"`, fmtAttr(p.StrokeWidth))
		if p.Dash != "" {
			fmt.Fprintf(buf, ` stroke-dasharray="%s"`, p.Dash)
		}
	}
	buf.WriteString(`/>`)
}

func writeText(buf *bytes.Buffer, t *render.Text) {
	family := t.Family
	if family == "" {
		family = DefaultFontFamily
	}
	fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" fill="%s" font-size="%s" font-family="%s"`,
		fmtAttr(t.Pos.X), fmtAttr(t.Pos.Y), t.Color, fmtAttr(t.Size), svg.EscapeText(family))
	if t.Weight != "" {
		fmt.Fprintf(buf, ` font-weight="%s"`, t.Weight)
	}
	if t.Style != "" {
		fmt.Fprintf(buf, ` font-style="%s"`, t.Style)
	}
	fmt.Fprintf(buf, `>%s</text>`, svg.EscapeText(t.Content))
}

func orNone(c string) string {
	if c == "" {
		return color.None
	}
	return c
}

func fmtAttr(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
