package fsm

import (
	"github.com/ha1tch/fsm-logic/pkg/expr"
	"github.com/ha1tch/fsm-logic/pkg/geom"
)

// Self-loop and curve rendering constants.
const (
	LoopRadius   = 20.0 // radius of the circle drawn for a self-loop
	curveSamples = 32
	arrowLen     = 10.0
	arrowWidth   = 5.0
)

// Transition is a guarded edge between two states. Its position is the
// point the rendered curve passes through halfway, where the label sits.
type Transition struct {
	from, to  *State
	condition expr.Expression
	pos       geom.Vector
	force     geom.Vector
}

// NewTransition creates a transition positioned halfway between its states.
// A nil condition is treated as always true.
func NewTransition(from, to *State, condition expr.Expression) *Transition {
	t := &Transition{from: from, to: to, condition: condition}
	t.InitPos()
	return t
}

// From returns the source state.
func (t *Transition) From() *State { return t.from }

// To returns the target state.
func (t *Transition) To() *State { return t.to }

// Condition returns the guard expression; never nil.
func (t *Transition) Condition() expr.Expression {
	if t.condition == nil {
		return expr.True
	}
	return t.condition
}

// SetCondition replaces the guard expression.
func (t *Transition) SetCondition(c expr.Expression) { t.condition = c }

// IsLoop reports whether the transition starts and ends in the same state.
func (t *Transition) IsLoop() bool { return t.from == t.to }

// Label is the text rendered next to the transition; empty for
// unconditional transitions.
func (t *Transition) Label() string {
	if c, ok := t.Condition().(expr.Const); ok && bool(c) {
		return ""
	}
	return t.Condition().String()
}

// InitPos resets the position to its default: halfway between the states,
// or the fixed loop offset for self-loops.
func (t *Transition) InitPos() {
	if t.IsLoop() {
		t.pos = loopPosition(t.from)
		return
	}
	t.pos = t.from.pos.Mid(t.to.pos)
}

func loopPosition(s *State) geom.Vector {
	return s.pos.Sub(geom.Vec(0, s.Radius()+LoopRadius/2))
}

// Position implements Movable.
func (t *Transition) Position() geom.Vector { return t.pos }

// SetPosition implements Movable.
func (t *Transition) SetPosition(p geom.Vector) { t.pos = p }

// AddForce implements Movable.
func (t *Transition) AddForce(f geom.Vector) { t.force = t.force.Add(f) }

// Force implements Movable.
func (t *Transition) Force() geom.Vector { return t.force }

// Move implements Movable. Self-loops ignore forces and follow their state.
func (t *Transition) Move(dt float64) {
	if t.IsLoop() {
		t.pos = loopPosition(t.from)
	} else {
		t.pos = t.pos.Add(t.force.Mul(dt))
	}
	t.force = geom.Zero
}

func (t *Transition) clearForce() { t.force = geom.Zero }

// Curve returns the rendered path. For ordinary transitions it is the
// quadratic Bézier through the transition position, clipped at both state
// circles; for self-loops it is the loop circle.
func (t *Transition) Curve() []geom.Vector {
	if t.IsLoop() {
		return geom.SampleCircle(t.pos, LoopRadius, curveSamples)
	}

	p0, p2 := t.from.pos, t.to.pos
	c := geom.ControlThrough(p0, t.pos, p2)
	pts := geom.SampleQuad(p0, c, p2, curveSamples)

	start, end := 0, len(pts)
	for start < end && pts[start].Dist(p0) < t.from.Radius() {
		start++
	}
	for end > start && pts[end-1].Dist(p2) < t.to.Radius() {
		end--
	}
	if end-start < 2 {
		// States overlap, nothing sensible to clip to
		return pts
	}
	return pts[start:end]
}

// Arrow returns the three points of the arrow head at the end of curve.
func (t *Transition) Arrow(curve []geom.Vector) []geom.Vector {
	if len(curve) < 2 {
		return nil
	}
	tip := curve[len(curve)-1]
	dir := tip.Sub(curve[len(curve)-2]).Norm()
	if t.IsLoop() {
		// Arrow where the loop re-enters the state
		tip = t.from.pos.Add(t.pos.Sub(t.from.pos).Norm().Mul(t.from.Radius()))
		dir = t.from.pos.Sub(t.pos).Norm().Orthogonal().Add(t.from.pos.Sub(t.pos).Norm()).Norm()
	}
	back := tip.Sub(dir.Mul(arrowLen))
	side := dir.Orthogonal().Mul(arrowWidth)
	return []geom.Vector{back.Add(side), tip, back.Sub(side)}
}

// matches reports whether p lies within tol of the rendered curve.
func (t *Transition) matches(p geom.Vector, tol float64) bool {
	return geom.PolylineDistance(p, t.Curve()) <= tol
}
