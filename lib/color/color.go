// Package color normalizes and reasons about the user-supplied CSS color
// strings carried on node and edge style fields.
package color

import (
	"fmt"
	stdcolor "image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

const (
	None        = "none"
	Transparent = "transparent"

	// canvas palette defaults
	Stroke     = "#1f2937"
	Text       = "#111827"
	White      = "#ffffff"
	Gray       = "#f3f4f6"
	Selection  = "#2563eb"
	DragTarget = "#16a34a"
)

// Validate rejects anything csscolorparser cannot understand. Empty and
// "transparent" are allowed; they mean "no paint".
func Validate(colorString string) error {
	if colorString == "" || colorString == Transparent || colorString == None {
		return nil
	}
	if _, err := csscolorparser.Parse(colorString); err != nil {
		return fmt.Errorf("invalid color %q: %w", colorString, err)
	}
	return nil
}

// Normalize parses and re-emits the color as a hex string so the two render
// paths and the wire format agree on one spelling.
func Normalize(colorString string) (string, error) {
	if colorString == "" || colorString == Transparent || colorString == None {
		return colorString, nil
	}
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", colorString, err)
	}
	return c.HexString(), nil
}

// RGBA resolves a paintable color string to 8-bit RGBA for the rasterizer.
// ok is false for "", "none" and "transparent", which mean "no paint".
func RGBA(colorString string) (c stdcolor.RGBA, ok bool, err error) {
	if colorString == "" || colorString == Transparent || colorString == None {
		return stdcolor.RGBA{}, false, nil
	}
	parsed, err := csscolorparser.Parse(colorString)
	if err != nil {
		return stdcolor.RGBA{}, false, fmt.Errorf("invalid color %q: %w", colorString, err)
	}
	r, g, b, a := parsed.RGBA255()
	return stdcolor.RGBA{R: r, G: g, B: b, A: a}, true, nil
}

// ContrastingText picks a readable label color for the given fill.
// Unpaintable fills keep the default text color.
func ContrastingText(fill string) string {
	if fill == "" || fill == Transparent || fill == None {
		return Text
	}
	c, err := csscolorparser.Parse(fill)
	if err != nil {
		return Text
	}
	_, _, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	if l < 0.45 {
		return White
	}
	return Text
}
