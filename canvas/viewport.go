package canvas

import (
	"github.com/loopcanvas/loopcanvas/lib/geo"
)

const (
	MinZoom = 0.05
	MaxZoom = 5.0

	// multiplicative step per wheel tick or zoom button press
	ZoomInFactor  = 1.1
	ZoomOutFactor = 0.9

	// FitMaxZoom caps fitToContent so small diagrams don't blow up.
	FitMaxZoom = 2.0
	fitPadding = 40.0
)

// Viewport is the view transform: screen = canvas*Zoom + Pan. Every
// conversion goes through the same two functions so hit-testing, placement
// and drags are exact round-trips of what the renderer draws.
type Viewport struct {
	Pan  *geo.Point
	Zoom float64

	// visible size in screen units
	Width  float64
	Height float64
}

func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		Pan:    geo.NewPoint(0, 0),
		Zoom:   1,
		Width:  width,
		Height: height,
	}
}

func (v *Viewport) ScreenToCanvas(p *geo.Point) *geo.Point {
	return geo.NewPoint((p.X-v.Pan.X)/v.Zoom, (p.Y-v.Pan.Y)/v.Zoom)
}

func (v *Viewport) CanvasToScreen(p *geo.Point) *geo.Point {
	return geo.NewPoint(p.X*v.Zoom+v.Pan.X, p.Y*v.Zoom+v.Pan.Y)
}

// ZoomAt multiplies the zoom by factor while keeping the canvas point under
// the given screen point visually fixed: the pan is recomputed so the
// anchor maps to the same screen position before and after.
func (v *Viewport) ZoomAt(screen *geo.Point, factor float64) {
	anchor := v.ScreenToCanvas(screen)
	v.Zoom = geo.Clamp(v.Zoom*factor, MinZoom, MaxZoom)
	v.Pan = geo.NewPoint(screen.X-anchor.X*v.Zoom, screen.Y-anchor.Y*v.Zoom)
}

// Wheel applies a wheel gesture: with the zoom modifier held the deltas
// zoom at the pointer, otherwise they pan trackpad-style.
func (v *Viewport) Wheel(screen *geo.Point, deltaX, deltaY float64, zoomModifier bool) {
	if zoomModifier {
		factor := ZoomInFactor
		if deltaY > 0 {
			factor = ZoomOutFactor
		}
		v.ZoomAt(screen, factor)
		return
	}
	v.Pan = geo.NewPoint(v.Pan.X-deltaX, v.Pan.Y-deltaY)
}

func (v *Viewport) center() *geo.Point {
	return geo.NewPoint(v.Width/2, v.Height/2)
}

func (v *Viewport) ZoomIn() { v.ZoomAt(v.center(), ZoomInFactor) }
func (v *Viewport) ZoomOut() { v.ZoomAt(v.center(), ZoomOutFactor) }

func (v *Viewport) Reset() {
	v.Pan = geo.NewPoint(0, 0)
	v.Zoom = 1
}

// FitToContent picks the zoom and pan that center the content box in the
// viewport with padding on every side. Empty content resets the view.
func (v *Viewport) FitToContent(content *geo.Box) {
	if content == nil || content.Width <= 0 || content.Height <= 0 {
		v.Reset()
		return
	}
	zx := (v.Width - 2*fitPadding) / content.Width
	zy := (v.Height - 2*fitPadding) / content.Height
	zoom := zx
	if zy < zoom {
		zoom = zy
	}
	v.Zoom = geo.Clamp(zoom, MinZoom, FitMaxZoom)

	c := content.Center()
	v.Pan = geo.NewPoint(v.Width/2-c.X*v.Zoom, v.Height/2-c.Y*v.Zoom)
}
