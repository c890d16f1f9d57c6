// Package render draws a laid-out state machine to SVG or PNG. Both
// renderers implement fsm.Graphic and map layout coordinates onto the
// canvas with a fixed scale and padding.
package render

import (
	"math"

	"github.com/ha1tch/fsm-logic/pkg/fsm"
	"github.com/ha1tch/fsm-logic/pkg/geom"
)

// Options controls both renderers.
type Options struct {
	Scale    float64 // pixels per layout unit
	Padding  int     // pixels around the drawing
	FontSize int     // label size in points
	Title    string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Scale:    1,
		Padding:  40,
		FontSize: 12,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	if o.Padding < 0 {
		o.Padding = d.Padding
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	return o
}

// viewport maps layout coordinates to canvas pixels.
type viewport struct {
	origin geom.Vector // layout point drawn at the top-left padding corner
	scale  float64
	pad    float64
	width  int
	height int
}

func newViewport(f *fsm.FSM, opts Options, titleHeight float64) viewport {
	min, max := f.Bounds()
	size := max.Sub(min).Mul(opts.Scale)
	pad := float64(opts.Padding)
	return viewport{
		origin: min.Sub(geom.Vec(0, titleHeight/opts.Scale)),
		scale:  opts.Scale,
		pad:    pad,
		width:  int(math.Ceil(size.X + 2*pad)),
		height: int(math.Ceil(size.Y + 2*pad + titleHeight)),
	}
}

func (v viewport) point(p geom.Vector) geom.Vector {
	return p.Sub(v.origin).Mul(v.scale).Add(geom.Vec(v.pad, v.pad))
}

func (v viewport) length(l float64) float64 { return l * v.scale }
