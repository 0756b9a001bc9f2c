// Package geom provides the small set of geometry primitives used by the
// layout engine: points, vectors, axis-aligned rectangles, and angle
// arithmetic on the unit circle.
//
// Angles are measured in radians, increasing counter-clockwise, and are kept
// normalized to the half-open interval [0, 2π) by [NormalizeAngle].
package geom

import "math"

// TwoPi is a full revolution in radians.
const TwoPi = 2 * math.Pi

// Point is a location in the layout plane.
type Point struct {
	X float64
	Y float64
}

// Add returns the point translated by the vector v.
func (p Point) Add(v Vector) Point { return Point{p.X + v.X, p.Y + v.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector { return Vector{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }

// Vector is a displacement in the layout plane.
type Vector struct {
	X float64
	Y float64
}

// Add returns the component-wise sum of v and w.
func (v Vector) Add(w Vector) Vector { return Vector{v.X + w.X, v.Y + w.Y} }

// Scale returns v multiplied by s.
func (v Vector) Scale(s float64) Vector { return Vector{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vector) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dot returns the dot product of v and w.
func (v Vector) Dot(w Vector) float64 { return v.X*w.X + v.Y*w.Y }

// Angle returns the direction of v in [0, 2π).
func (v Vector) Angle() float64 { return NormalizeAngle(math.Atan2(v.Y, v.X)) }

// Polar returns the vector of the given length pointing at the given angle.
func Polar(length, angle float64) Vector {
	return Vector{length * math.Cos(angle), length * math.Sin(angle)}
}

// Rect is an axis-aligned rectangle identified by its top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{r.X + r.Width/2, r.Y + r.Height/2} }

// SetCenter moves the rectangle so its midpoint is at p, preserving size.
func (r *Rect) SetCenter(p Point) {
	r.X = p.X - r.Width/2
	r.Y = p.Y - r.Height/2
}

// MaxDim returns the larger of the rectangle's width and height.
func (r Rect) MaxDim() float64 { return math.Max(r.Width, r.Height) }

// NormalizeAngle maps any angle to the equivalent value in [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	return a
}

// AngleDiffCCW returns the counter-clockwise sweep from angle a to angle b,
// in [0, 2π).
func AngleDiffCCW(a, b float64) float64 {
	return NormalizeAngle(b - a)
}
