package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/ha1tch/fsm-logic/pkg/fsm"
	"github.com/ha1tch/fsm-logic/pkg/geom"
)

// SVG is an fsm.Graphic producing an SVG document.
type SVG struct {
	sb   strings.Builder
	view viewport
	opts Options
}

// NewSVG creates an SVG canvas sized to fit f.
func NewSVG(f *fsm.FSM, opts Options) *SVG {
	opts = opts.withDefaults()
	title := 0.0
	if opts.Title != "" {
		title = float64(opts.FontSize) * 2
	}
	s := &SVG{view: newViewport(f, opts, title), opts: opts}

	fmt.Fprintf(&s.sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, s.view.width, s.view.height, s.view.width, s.view.height)
	fmt.Fprintf(&s.sb, `<style>
  .state { fill: #fff; stroke: #333; stroke-width: 2; }
  .transition { fill: none; stroke: #666; stroke-width: 1.5; }
  .highlight { fill: none; stroke: #e65100; stroke-width: 3; }
  text { font-family: sans-serif; font-size: %dpx; fill: #333; }
</style>
<rect width="100%%" height="100%%" fill="#fff"/>
`, opts.FontSize)
	if opts.Title != "" {
		fmt.Fprintf(&s.sb, `<text x="%d" y="%d" text-anchor="middle" font-weight="bold">%s</text>
`, s.view.width/2, opts.Padding/2+opts.FontSize, html.EscapeString(opts.Title))
	}
	return s
}

func (s *SVG) class(style fsm.Style) string {
	switch style {
	case fsm.StyleState:
		return "state"
	case fsm.StyleHighlight:
		return "highlight"
	default:
		return "transition"
	}
}

// DrawCircle implements fsm.Graphic.
func (s *SVG) DrawCircle(center geom.Vector, r float64, style fsm.Style) {
	c := s.view.point(center)
	fmt.Fprintf(&s.sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" class="%s"/>
`, c.X, c.Y, s.view.length(r), s.class(style))
}

// DrawPolyline implements fsm.Graphic.
func (s *SVG) DrawPolyline(pts []geom.Vector, style fsm.Style) {
	if len(pts) < 2 {
		return
	}
	coords := make([]string, len(pts))
	for i, p := range pts {
		c := s.view.point(p)
		coords[i] = fmt.Sprintf("%.1f,%.1f", c.X, c.Y)
	}
	fmt.Fprintf(&s.sb, `<polyline points="%s" class="%s"/>
`, strings.Join(coords, " "), s.class(style))
}

// DrawText implements fsm.Graphic. Text is centred on pos.
func (s *SVG) DrawText(pos geom.Vector, text string, _ fsm.Style) {
	c := s.view.point(pos)
	fmt.Fprintf(&s.sb, `<text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>
`, c.X, c.Y, html.EscapeString(text))
}

// String closes the document and returns it. Drawing after String is not
// supported.
func (s *SVG) String() string {
	return s.sb.String() + "</svg>\n"
}

// RenderSVG writes f as an SVG document.
func RenderSVG(f *fsm.FSM, w io.Writer, opts Options, highlight fsm.Movable) error {
	s := NewSVG(f, opts)
	f.DrawTo(s, highlight)
	_, err := io.WriteString(w, s.String())
	return err
}
