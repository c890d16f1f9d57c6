package fsm

import (
	"math"

	"github.com/ha1tch/fsm-logic/pkg/geom"
)

// Layout holds the force-layout constants.
type Layout struct {
	// StateRepulsion scales the inverse-square repulsion between states,
	// and between transition labels and anything else.
	StateRepulsion float64
	// TransitionAttraction pulls a transition towards the midpoint of its
	// endpoint states, proportional to the distance.
	TransitionAttraction float64
	// TransitionRadius is the effective radius of a transition label.
	TransitionRadius float64
	// MinDistance bounds the distance used in the inverse-square law.
	MinDistance float64
	// GridSize is the raster used by ToRaster.
	GridSize float64
	// HitTolerance is the half width of the band around a transition curve
	// that counts as a hit.
	HitTolerance float64
	// MaxStep caps how far one entity moves in a single Relax call.
	// Zero or less disables the cap.
	MaxStep float64
}

// DefaultLayout returns the constants used by New.
func DefaultLayout() Layout {
	return Layout{
		StateRepulsion:       20,
		TransitionAttraction: 0.1,
		TransitionRadius:     15,
		MinDistance:          1,
		GridSize:             20,
		HitTolerance:         6,
		MaxStep:              40,
	}
}

// Repulsion returns the force acting on an entity at a with radius ra
// caused by an entity at b with radius rb. The force acting on b is the
// negation. Coincident positions repel along the positive x axis.
func (l Layout) Repulsion(a geom.Vector, ra float64, b geom.Vector, rb float64) geom.Vector {
	d := a.Sub(b)
	dist := d.Len()

	var dir geom.Vector
	if dist == 0 || math.IsNaN(dist) {
		dir = geom.Vec(1, 0)
		dist = l.MinDistance
	} else {
		dir = d.Div(dist)
	}
	if dist < l.MinDistance {
		dist = l.MinDistance
	}
	if dist <= 0 {
		dist = 1
	}

	return dir.Mul(l.StateRepulsion * ra * rb / (dist * dist))
}

// limitStep scales f down so that f·dt is at most MaxStep long.
func (l Layout) limitStep(f geom.Vector, dt float64) geom.Vector {
	if l.MaxStep <= 0 {
		return f
	}
	if step := f.Len() * math.Abs(dt); step > l.MaxStep {
		return f.Mul(l.MaxStep / step)
	}
	return f
}

// Attraction returns the spring force pulling p towards target.
func (l Layout) Attraction(p, target geom.Vector) geom.Vector {
	return target.Sub(p).Mul(l.TransitionAttraction)
}

// calcExpansionForce adds the pairwise state repulsion.
func (l Layout) calcExpansionForce(states []*State) {
	for i := 0; i < len(states); i++ {
		a := states[i]
		for j := i + 1; j < len(states); j++ {
			b := states[j]
			f := l.Repulsion(a.pos, a.Radius(), b.pos, b.Radius())
			a.AddForce(f)
			b.AddForce(f.Mul(-1))
		}
	}
}

// calcTransitionForce adds the forces acting on the label position of t.
func (l Layout) calcTransitionForce(t *Transition, states []*State, transitions []*Transition) {
	if t.IsLoop() {
		return
	}

	t.AddForce(l.Attraction(t.pos, t.from.pos.Mid(t.to.pos)))

	for _, s := range states {
		t.AddForce(l.Repulsion(t.pos, l.TransitionRadius, s.pos, s.Radius()))
	}
	for _, o := range transitions {
		if o == t {
			continue
		}
		t.AddForce(l.Repulsion(t.pos, l.TransitionRadius, o.pos, l.TransitionRadius))
	}
}

// CalculateForces clears and recomputes the forces on every state and
// transition without moving anything.
func (f *FSM) CalculateForces() {
	for _, s := range f.states {
		s.clearForce()
	}
	for _, t := range f.transitions {
		t.clearForce()
	}

	f.layout.calcExpansionForce(f.states)
	for _, t := range f.transitions {
		f.layout.calcTransitionForce(t, f.states, f.transitions)
	}
}

// Relax performs one layout tick: forces are recomputed from scratch and
// integrated over dt. States only move if moveStates is set; fixed, if not
// nil, stays where it is. Relax returns the total displacement of the tick.
func (f *FSM) Relax(dt float64, moveStates bool, fixed Movable) float64 {
	f.CalculateForces()

	total := 0.0
	if moveStates {
		for _, s := range f.states {
			if fixed != nil && Movable(s) == fixed {
				s.clearForce()
				continue
			}
			before := s.pos
			s.force = f.layout.limitStep(s.force, dt)
			s.Move(dt)
			total += s.pos.Dist(before)
		}
	}
	for _, t := range f.transitions {
		if fixed != nil && Movable(t) == fixed {
			t.clearForce()
			continue
		}
		before := t.pos
		t.force = f.layout.limitStep(t.force, dt)
		t.Move(dt)
		if !t.IsLoop() {
			total += t.pos.Dist(before)
		}
	}
	return total
}

// Circle places the states evenly on a circle whose radius is four times
// the largest state radius, starting at the top and going clockwise.
// Transitions are reset to their default positions.
func (f *FSM) Circle() {
	if len(f.states) == 0 {
		return
	}

	delta := 2 * math.Pi / float64(len(f.states))
	rad := 0.0
	for _, s := range f.states {
		if r := s.Radius(); r > rad {
			rad = r
		}
	}
	rad *= 4

	phi := 0.0
	for _, s := range f.states {
		s.pos = geom.Vec(math.Sin(phi)*rad, -math.Cos(phi)*rad)
		phi += delta
	}

	for _, t := range f.transitions {
		t.InitPos()
	}
}

// ToRaster snaps every state to the layout grid.
func (f *FSM) ToRaster() {
	for _, s := range f.states {
		s.pos = s.pos.Round(f.layout.GridSize)
	}
}
