package geom

import (
	"math"
	"testing"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vec(3, 4)
	b := Vec(1, -2)

	if got := a.Add(b); got != Vec(4, 2) {
		t.Errorf("Add = %v, want (4, 2)", got)
	}
	if got := a.Sub(b); got != Vec(2, 6) {
		t.Errorf("Sub = %v, want (2, 6)", got)
	}
	if got := a.Mul(2); got != Vec(6, 8) {
		t.Errorf("Mul = %v, want (6, 8)", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len = %.2f, want 5", got)
	}
	if got := a.Dist(Vec(0, 0)); got != 5 {
		t.Errorf("Dist = %.2f, want 5", got)
	}
	if got := a.Mid(Vec(5, 6)); got != Vec(4, 5) {
		t.Errorf("Mid = %v, want (4, 5)", got)
	}
}

func TestVectorNorm(t *testing.T) {
	n := Vec(10, 0).Norm()
	if n != Vec(1, 0) {
		t.Errorf("Norm = %v, want (1, 0)", n)
	}

	// The zero vector must not produce NaN
	z := Zero.Norm()
	if !z.IsFinite() || z != Zero {
		t.Errorf("Norm of zero vector = %v, want zero", z)
	}
}

func TestVectorRound(t *testing.T) {
	tests := []struct {
		in, want Vector
	}{
		{Vec(9, 11), Vec(0, 20)},
		{Vec(31, -29), Vec(40, -20)},
		{Vec(40, 40), Vec(40, 40)},
	}

	for _, tt := range tests {
		got := tt.in.Round(20)
		if got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if again := got.Round(20); again != got {
			t.Errorf("Round is not idempotent: %v -> %v", got, again)
		}
	}
}

func TestControlThrough(t *testing.T) {
	p0 := Vec(0, 0)
	p2 := Vec(100, 0)
	mid := Vec(50, 30)

	c := ControlThrough(p0, mid, p2)
	at := QuadBezier(p0, c, p2, 0.5)
	if math.Abs(at.X-mid.X) > 1e-9 || math.Abs(at.Y-mid.Y) > 1e-9 {
		t.Errorf("curve at t=0.5 = %v, want %v", at, mid)
	}
}

func TestSampleQuadEndpoints(t *testing.T) {
	pts := SampleQuad(Vec(0, 0), Vec(50, 50), Vec(100, 0), 10)
	if len(pts) != 11 {
		t.Fatalf("Expected 11 samples, got %d", len(pts))
	}
	if pts[0] != Vec(0, 0) || pts[10] != Vec(100, 0) {
		t.Errorf("endpoints = %v, %v", pts[0], pts[10])
	}
}

func TestSegmentDistance(t *testing.T) {
	a, b := Vec(0, 0), Vec(10, 0)

	tests := []struct {
		name string
		p    Vector
		want float64
	}{
		{"above middle", Vec(5, 3), 3},
		{"beyond end", Vec(13, 4), 5},
		{"on segment", Vec(2, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentDistance(tt.p, a, b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SegmentDistance = %.3f, want %.3f", got, tt.want)
			}
		})
	}

	if got := SegmentDistance(Vec(3, 4), a, a); got != 5 {
		t.Errorf("degenerate segment distance = %.3f, want 5", got)
	}
}

func TestPolylineDistance(t *testing.T) {
	pts := []Vector{Vec(0, 0), Vec(10, 0), Vec(10, 10)}
	if got := PolylineDistance(Vec(12, 5), pts); math.Abs(got-2) > 1e-9 {
		t.Errorf("PolylineDistance = %.3f, want 2", got)
	}
	if got := PolylineDistance(Vec(0, 0), nil); !math.IsInf(got, 1) {
		t.Errorf("empty polyline distance = %v, want +Inf", got)
	}
}

func TestBounds(t *testing.T) {
	min, max := Bounds([]Vector{Vec(3, -1), Vec(-2, 4), Vec(0, 0)})
	if min != Vec(-2, -1) || max != Vec(3, 4) {
		t.Errorf("Bounds = %v %v", min, max)
	}
}
