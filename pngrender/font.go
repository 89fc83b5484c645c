package pngrender

import (
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/loopcanvas/loopcanvas/lib/color"
	"github.com/loopcanvas/loopcanvas/render"
)

// The raster path ignores FontFamily overrides: the embedded Go fonts are
// the only faces available without a browser, so weight and style pick the
// variant and the family stays fixed.
var fontVariants = map[fontKey][]byte{
	{false, false}: goregular.TTF,
	{true, false}:  gobold.TTF,
	{false, true}:  goitalic.TTF,
	{true, true}:   gobolditalic.TTF,
}

type fontKey struct {
	bold   bool
	italic bool
}

var (
	fontOnce   sync.Once
	fontErr    error
	parsedFont map[fontKey]*opentype.Font
)

func loadFonts() error {
	fontOnce.Do(func() {
		parsedFont = make(map[fontKey]*opentype.Font, len(fontVariants))
		for key, ttf := range fontVariants {
			f, err := opentype.Parse(ttf)
			if err != nil {
				fontErr = err
				return
			}
			parsedFont[key] = f
		}
	})
	return fontErr
}

func (r *raster) face(t *render.Text) (font.Face, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	key := fontKey{bold: t.Weight == "bold", italic: t.Style == "italic"}
	return opentype.NewFace(parsedFont[key], &opentype.FaceOptions{
		Size:    t.Size * r.scale,
		DPI:     72,
		Hinting: font.HintingNone, // supersampling smooths instead
	})
}

func (r *raster) drawText(t *render.Text) error {
	c, ok, err := color.RGBA(t.Color)
	if err != nil || !ok {
		return err
	}

	face, err := r.face(t)
	if err != nil {
		return err
	}
	defer face.Close()

	x, y := r.device(t.Pos)
	width := font.MeasureString(face, t.Content)
	metrics := face.Metrics()
	// center the cap box on the anchor, like dominant-baseline central
	baseline := fixed.Int26_6(y*64) + (metrics.Ascent-metrics.Descent)/2

	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x*64) - width/2,
			Y: baseline,
		},
	}
	d.DrawString(t.Content)
	return nil
}
