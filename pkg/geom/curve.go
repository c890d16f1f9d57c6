// Curve helpers for transition rendering and hit-testing.

package geom

import "math"

// QuadBezier evaluates the quadratic Bézier p0, c, p2 at t in [0, 1].
func QuadBezier(p0, c, p2 Vector, t float64) Vector {
	u := 1 - t
	return Vector{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p2.Y,
	}
}

// ControlThrough returns the control point of the quadratic Bézier from p0 to
// p2 that passes through mid at t = 0.5.
func ControlThrough(p0, mid, p2 Vector) Vector {
	return mid.Mul(2).Sub(p0.Mid(p2))
}

// SampleQuad samples the quadratic Bézier at n+1 evenly spaced parameters.
func SampleQuad(p0, c, p2 Vector, n int) []Vector {
	if n < 1 {
		n = 1
	}
	pts := make([]Vector, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, QuadBezier(p0, c, p2, float64(i)/float64(n)))
	}
	return pts
}

// SampleCircle returns n+1 points on the circle, the last equal to the first.
func SampleCircle(center Vector, r float64, n int) []Vector {
	if n < 3 {
		n = 3
	}
	pts := make([]Vector, 0, n+1)
	for i := 0; i <= n; i++ {
		phi := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, Vector{center.X + r*math.Cos(phi), center.Y + r*math.Sin(phi)})
	}
	return pts
}

// SegmentDistance returns the distance from p to the segment a-b.
func SegmentDistance(p, a, b Vector) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(a.Add(ab.Mul(t)))
}

// PolylineDistance returns the smallest distance from p to any segment of pts.
func PolylineDistance(p Vector, pts []Vector) float64 {
	switch len(pts) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Dist(pts[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		if d := SegmentDistance(p, pts[i-1], pts[i]); d < best {
			best = d
		}
	}
	return best
}

// Bounds returns the axis-aligned bounding box of pts.
func Bounds(pts []Vector) (min, max Vector) {
	if len(pts) == 0 {
		return Zero, Zero
	}
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}
