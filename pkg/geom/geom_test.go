package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"in range", math.Pi, math.Pi},
		{"full turn", TwoPi, 0},
		{"negative", -math.Pi / 2, 3 * math.Pi / 2},
		{"multiple turns", 5 * math.Pi, math.Pi},
		{"large negative", -5 * math.Pi, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAngle(tt.in)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got < 0 || got >= TwoPi {
				t.Errorf("NormalizeAngle(%v) = %v, outside [0, 2π)", tt.in, got)
			}
		})
	}
}

func TestAngleDiffCCW(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"same angle", 1.0, 1.0, 0},
		{"quarter turn", 0, math.Pi / 2, math.Pi / 2},
		{"wraparound", 3 * math.Pi / 2, math.Pi / 2, math.Pi},
		{"just under full turn", 0.1, 0, TwoPi - 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngleDiffCCW(tt.a, tt.b)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("AngleDiffCCW(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPolar(t *testing.T) {
	v := Polar(2, 0)
	if math.Abs(v.X-2) > eps || math.Abs(v.Y) > eps {
		t.Errorf("Polar(2, 0) = %+v, want (2, 0)", v)
	}

	v = Polar(1, math.Pi/2)
	if math.Abs(v.X) > eps || math.Abs(v.Y-1) > eps {
		t.Errorf("Polar(1, π/2) = %+v, want (0, 1)", v)
	}
}

func TestRectCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 4, Height: 6}
	c := r.Center()
	if c.X != 12 || c.Y != 23 {
		t.Errorf("Center() = %+v, want (12, 23)", c)
	}

	r.SetCenter(Point{X: 0, Y: 0})
	if r.X != -2 || r.Y != -3 {
		t.Errorf("SetCenter(origin): rect = %+v, want X=-2 Y=-3", r)
	}
	if r.Center() != (Point{}) {
		t.Errorf("Center after SetCenter = %+v, want origin", r.Center())
	}
}

func TestRectMaxDim(t *testing.T) {
	r := Rect{Width: 3, Height: 7}
	if got := r.MaxDim(); got != 7 {
		t.Errorf("MaxDim() = %v, want 7", got)
	}
}

func TestVectorOps(t *testing.T) {
	v := Vector{X: 3, Y: 4}
	if got := v.Len(); math.Abs(got-5) > eps {
		t.Errorf("Len() = %v, want 5", got)
	}

	s := v.Scale(2)
	if s.X != 6 || s.Y != 8 {
		t.Errorf("Scale(2) = %+v, want (6, 8)", s)
	}

	sum := v.Add(Vector{X: -3, Y: -4})
	if sum.X != 0 || sum.Y != 0 {
		t.Errorf("Add inverse = %+v, want zero", sum)
	}
}

func TestPointDist(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}
	if got := a.Dist(b); math.Abs(got-5) > eps {
		t.Errorf("Dist = %v, want 5", got)
	}
}
