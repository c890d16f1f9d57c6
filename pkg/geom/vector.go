// Package geom provides the 2D vector math shared by the layout engine,
// hit-testing and the renderers.
package geom

import "math"

// Vector is a 2D point or displacement.
type Vector struct {
	X, Y float64
}

// Zero is the null vector.
var Zero = Vector{}

// Vec is shorthand for Vector{x, y}.
func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y}
}

// Mul scales v by f.
func (v Vector) Mul(f float64) Vector {
	return Vector{v.X * f, v.Y * f}
}

// Div divides v by f.
func (v Vector) Div(f float64) Vector {
	return Vector{v.X / f, v.Y / f}
}

// Len returns the euclidean length of v.
func (v Vector) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the distance between v and o.
func (v Vector) Dist(o Vector) float64 {
	return v.Sub(o).Len()
}

// Norm returns the unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vector) Norm() Vector {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Div(l)
}

// Orthogonal returns v rotated by 90 degrees.
func (v Vector) Orthogonal() Vector {
	return Vector{-v.Y, v.X}
}

// Mid returns the point halfway between v and o.
func (v Vector) Mid(o Vector) Vector {
	return Vector{(v.X + o.X) / 2, (v.Y + o.Y) / 2}
}

// Round snaps v to the nearest multiple of grid on both axes.
func (v Vector) Round(grid float64) Vector {
	if grid <= 0 {
		return v
	}
	return Vector{
		X: math.Round(v.X/grid) * grid,
		Y: math.Round(v.Y/grid) * grid,
	}
}

// IsFinite reports whether both components are finite numbers.
func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
