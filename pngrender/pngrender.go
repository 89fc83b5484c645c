// Package pngrender rasterizes render scenes to PNG without a browser:
// path fill and stroke via golang.org/x/image/vector at 2x supersampling,
// text via the embedded Go fonts, then a CatmullRom downsample for
// anti-aliasing.
package pngrender

import (
	"bytes"
	"image"
	stdcolor "image/color"
	stddraw "image/draw"
	"image/png"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
	"oss.terrastruct.com/util-go/xdefer"

	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/color"
	"github.com/loopcanvas/loopcanvas/lib/geo"
	"github.com/loopcanvas/loopcanvas/render"
	"github.com/loopcanvas/loopcanvas/svgrender"
)

// Supersample is the raster oversize factor before the final downsample.
const Supersample = 2.0

// joinSegments is the polygon resolution of round caps and joins.
const joinSegments = 12

// Export rasterizes the diagram at the same frame geometry as the SVG
// export. A transparent background keeps the alpha channel; white and gray
// fill the whole canvas first.
func Export(d *diagram.Diagram, background string) (_ []byte, err error) {
	defer xdefer.Errorf(&err, "png export")

	frame := svgrender.ExportFrame(d)
	w := int(math.Ceil(frame.Width * Supersample))
	h := int(math.Ceil(frame.Height * Supersample))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg, ok, err := color.RGBA(backgroundColor(background)); err != nil {
		return nil, err
	} else if ok {
		stddraw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, stddraw.Src)
	}

	r := &raster{
		img:       img,
		scale:     Supersample,
		translate: frame.Translate,
	}
	for _, prim := range render.DiagramScene(d).Prims {
		if err := r.draw(prim); err != nil {
			return nil, err
		}
	}

	final := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(frame.Width)), int(math.Ceil(frame.Height))))
	draw.CatmullRom.Scale(final, final.Bounds(), img, img.Bounds(), draw.Src, nil)

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, final); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func backgroundColor(background string) string {
	switch background {
	case svgrender.BackgroundWhite:
		return color.White
	case svgrender.BackgroundGray:
		return color.Gray
	}
	return ""
}

type raster struct {
	img       *image.RGBA
	scale     float64
	translate *geo.Point
}

// device maps a canvas point into supersampled pixel space.
func (r *raster) device(p *geo.Point) (float32, float32) {
	return float32((p.X + r.translate.X) * r.scale),
		float32((p.Y + r.translate.Y) * r.scale)
}

func (r *raster) draw(prim render.Primitive) error {
	switch p := prim.(type) {
	case *render.Path:
		return r.drawPath(p)
	case *render.Text:
		return r.drawText(p)
	}
	return nil
}

func (r *raster) drawPath(p *render.Path) error {
	if fill, ok, err := color.RGBA(p.Fill); err != nil {
		return err
	} else if ok {
		r.fillSubpaths(p.Subpaths, fill)
	}

	stroke, ok, err := color.RGBA(p.Stroke)
	if err != nil || !ok {
		return err
	}
	width := p.StrokeWidth * r.scale
	for _, sub := range p.Subpaths {
		for _, run := range dashRuns(sub, parseDash(p.Dash)) {
			r.strokePolyline(run, width, stroke)
		}
	}
	return nil
}

func (r *raster) fillSubpaths(subpaths [][]*geo.Point, c stdcolor.RGBA) {
	bounds := r.img.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	for _, sub := range subpaths {
		if len(sub) < 3 {
			continue
		}
		x, y := r.device(sub[0])
		z.MoveTo(x, y)
		for _, p := range sub[1:] {
			x, y = r.device(p)
			z.LineTo(x, y)
		}
		z.ClosePath()
	}
	z.Draw(r.img, bounds, image.NewUniform(c), image.Point{})
}

// strokePolyline paints each segment as a quad plus a disc at every vertex,
// giving round caps and joins. Coordinates are already canvas-space; only
// the width is pre-scaled.
func (r *raster) strokePolyline(points []*geo.Point, width float64, c stdcolor.RGBA) {
	if len(points) == 0 {
		return
	}
	half := float32(width / 2)

	bounds := r.img.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())

	for i := 0; i+1 < len(points); i++ {
		x0, y0 := r.device(points[i])
		x1, y1 := r.device(points[i+1])
		dx, dy := x1-x0, y1-y0
		length := float32(math.Hypot(float64(dx), float64(dy)))
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half
		z.MoveTo(x0+nx, y0+ny)
		z.LineTo(x1+nx, y1+ny)
		z.LineTo(x1-nx, y1-ny)
		z.LineTo(x0-nx, y0-ny)
		z.ClosePath()
	}

	for _, p := range points {
		cx, cy := r.device(p)
		for i := 0; i <= joinSegments; i++ {
			angle := 2 * math.Pi * float64(i) / joinSegments
			x := cx + half*float32(math.Cos(angle))
			y := cy + half*float32(math.Sin(angle))
			if i == 0 {
				z.MoveTo(x, y)
			} else {
				z.LineTo(x, y)
			}
		}
		z.ClosePath()
	}

	z.Draw(r.img, bounds, image.NewUniform(c), image.Point{})
}

// parseDash turns a stroke-dasharray pattern like "6,4" into lengths.
// Empty or malformed patterns mean solid.
func parseDash(dash string) []float64 {
	if dash == "" {
		return nil
	}
	parts := strings.Split(dash, ",")
	pattern := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v <= 0 {
			return nil
		}
		pattern = append(pattern, v)
	}
	return pattern
}

// dashRuns splits a polyline into the "on" runs of the dash pattern,
// matching stroke-dasharray semantics in canvas units. A nil pattern
// returns the polyline unchanged.
func dashRuns(points []*geo.Point, pattern []float64) [][]*geo.Point {
	if len(pattern) == 0 || len(points) < 2 {
		return [][]*geo.Point{points}
	}

	var runs [][]*geo.Point
	var current []*geo.Point
	on := true
	idx := 0
	remaining := pattern[0]

	flush := func() {
		if on && len(current) >= 2 {
			runs = append(runs, current)
		}
		current = nil
	}

	pos := points[0].Copy()
	if on {
		current = []*geo.Point{pos.Copy()}
	}
	for i := 1; i < len(points); i++ {
		target := points[i]
		for {
			segLen := pos.DistanceTo(target)
			if segLen == 0 {
				break
			}
			if segLen <= remaining {
				remaining -= segLen
				pos = target.Copy()
				if on {
					current = append(current, pos.Copy())
				}
				break
			}
			// pattern boundary inside this segment
			t := remaining / segLen
			pos = pos.Interpolate(target, t)
			if on {
				current = append(current, pos.Copy())
			}
			flush()
			on = !on
			idx = (idx + 1) % len(pattern)
			remaining = pattern[idx]
			if on {
				current = []*geo.Point{pos.Copy()}
			}
		}
	}
	flush()
	return runs
}
