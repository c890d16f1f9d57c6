package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/fsm-logic/pkg/fsm"
	"github.com/ha1tch/fsm-logic/pkg/geom"
)

// supersample is the factor the image is drawn at before downsampling.
const supersample = 4

var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorBlack     = color.RGBA{51, 51, 51, 255}   // #333
	colorGray      = color.RGBA{102, 102, 102, 255} // #666
	colorHighlight = color.RGBA{230, 81, 0, 255}    // #e65100
)

// PNG is an fsm.Graphic rasterising into an RGBA image at supersample
// resolution.
type PNG struct {
	img       *image.RGBA
	view      viewport
	lineWidth float64
	face      font.Face
	width     int
	height    int
}

// NewPNG creates a canvas sized to fit f.
func NewPNG(f *fsm.FSM, opts Options) (*PNG, error) {
	opts = opts.withDefaults()

	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(opts.FontSize * supersample),
		DPI:     72,
		Hinting: font.HintingNone, // supersampling smooths glyphs instead
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}

	title := 0.0
	if opts.Title != "" {
		title = float64(opts.FontSize) * 2
	}
	view := newViewport(f, opts, title)
	p := &PNG{
		view:      view,
		lineWidth: 2 * supersample,
		face:      face,
		width:     view.width,
		height:    view.height,
	}

	// Draw in supersampled coordinates
	p.view.scale *= supersample
	p.view.pad *= supersample
	p.img = image.NewRGBA(image.Rect(0, 0, view.width*supersample, view.height*supersample))
	draw.Draw(p.img, p.img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	if opts.Title != "" {
		p.drawTextCentered(float64(p.img.Bounds().Dx())/2, float64(opts.Padding*supersample)/2+title, opts.Title, colorBlack)
	}
	return p, nil
}

func (p *PNG) color(style fsm.Style) color.Color {
	switch style {
	case fsm.StyleState, fsm.StyleText:
		return colorBlack
	case fsm.StyleHighlight:
		return colorHighlight
	default:
		return colorGray
	}
}

// DrawCircle implements fsm.Graphic.
func (p *PNG) DrawCircle(center geom.Vector, r float64, style fsm.Style) {
	c := p.view.point(center)
	rr := p.view.length(r)
	stroke := p.color(style)

	for angle := 0.0; angle < 2*math.Pi; angle += 0.005 {
		nx, ny := math.Cos(angle), math.Sin(angle)
		for t := -p.lineWidth / 2; t <= p.lineWidth/2; t += 0.5 {
			p.img.Set(int(c.X+nx*(rr+t)), int(c.Y+ny*(rr+t)), stroke)
		}
	}
}

// DrawPolyline implements fsm.Graphic.
func (p *PNG) DrawPolyline(pts []geom.Vector, style fsm.Style) {
	c := p.color(style)
	for i := 1; i < len(pts); i++ {
		p.drawLine(p.view.point(pts[i-1]), p.view.point(pts[i]), c)
	}
}

// DrawText implements fsm.Graphic.
func (p *PNG) DrawText(pos geom.Vector, text string, style fsm.Style) {
	c := p.view.point(pos)
	p.drawTextCentered(c.X, c.Y, text, p.color(style))
}

// drawLine draws a thick line between two canvas points.
func (p *PNG) drawLine(a, b geom.Vector, c color.Color) {
	d := b.Sub(a)
	half := p.lineWidth / 2

	dist := d.Len()
	if dist < 1 {
		for ty := -half; ty <= half; ty++ {
			for tx := -half; tx <= half; tx++ {
				p.img.Set(int(a.X+tx), int(a.Y+ty), c)
			}
		}
		return
	}

	steps := math.Max(math.Abs(d.X), math.Abs(d.Y))
	perp := d.Div(dist).Orthogonal()
	for i := 0.0; i <= steps; i++ {
		q := a.Add(d.Mul(i / steps))
		for offset := -half; offset <= half; offset += 0.5 {
			p.img.Set(int(q.X+perp.X*offset), int(q.Y+perp.Y*offset), c)
		}
	}
}

// drawTextCentered draws text horizontally centred on x with its caps
// roughly centred on y.
func (p *PNG) drawTextCentered(x, y float64, text string, c color.Color) {
	width := font.MeasureString(p.face, text).Ceil()
	ascent := p.face.Metrics().Ascent.Ceil()

	d := &font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(c),
		Face: p.face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(x) - width/2),
			Y: fixed.I(int(y) + int(float64(ascent)*0.35)),
		},
	}
	d.DrawString(text)
}

// Image downsamples the canvas to its final size.
func (p *PNG) Image() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	draw.CatmullRom.Scale(out, out.Bounds(), p.img, p.img.Bounds(), draw.Over, nil)
	return out
}

// RenderPNG writes f as a PNG image.
func RenderPNG(f *fsm.FSM, w io.Writer, opts Options, highlight fsm.Movable) error {
	p, err := NewPNG(f, opts)
	if err != nil {
		return err
	}
	f.DrawTo(p, highlight)
	return png.Encode(w, p.Image())
}
