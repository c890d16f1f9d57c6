package fsm

import "github.com/ha1tch/fsm-logic/pkg/geom"

// Style selects how a Graphic renders a primitive.
type Style int

const (
	StyleState Style = iota
	StyleTransition
	StyleText
	StyleHighlight
)

// Graphic is a drawing surface in layout coordinates.
type Graphic interface {
	DrawCircle(center geom.Vector, r float64, style Style)
	DrawPolyline(pts []geom.Vector, style Style)
	DrawText(pos geom.Vector, text string, style Style)
}

// DrawTo renders the machine: states first, then transitions. The
// highlighted element, if any, is drawn with StyleHighlight.
func (f *FSM) DrawTo(gr Graphic, highlight Movable) {
	for _, s := range f.states {
		style := StyleState
		if highlight == Movable(s) {
			style = StyleHighlight
		}
		gr.DrawCircle(s.pos, s.Radius(), style)
		gr.DrawText(s.pos, s.name, StyleText)
		if len(s.outputs) > 0 {
			gr.DrawText(s.pos.Add(geom.Vec(0, s.Radius()/2)), s.ValuesString(), StyleText)
		}
	}
	for _, t := range f.transitions {
		style := StyleTransition
		if highlight == Movable(t) {
			style = StyleHighlight
		}
		curve := t.Curve()
		gr.DrawPolyline(curve, style)
		if arrow := t.Arrow(curve); arrow != nil {
			gr.DrawPolyline(arrow, style)
		}
		if label := t.Label(); label != "" {
			gr.DrawText(t.pos, label, StyleText)
		}
	}
}

// Bounds returns the bounding box of everything DrawTo would draw, except
// text. An empty machine has zero bounds.
func (f *FSM) Bounds() (min, max geom.Vector) {
	var pts []geom.Vector
	for _, s := range f.states {
		r := geom.Vec(s.Radius(), s.Radius())
		pts = append(pts, s.pos.Sub(r), s.pos.Add(r))
	}
	for _, t := range f.transitions {
		pts = append(pts, t.Curve()...)
	}
	return geom.Bounds(pts)
}
