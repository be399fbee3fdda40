// Package geom implements the grid primitives the rest of the slicer is
// built on: integer and floating pixel coordinates, Bresenham rasterisation,
// disk/ring offset tables and the swept-quadrilateral and half-disk
// rasterisers used by the filling engine to mark coverage.
package geom

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Coord is an integer pixel coordinate.
type Coord struct {
	X, Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord { return Coord{X: x, Y: y} }

// Add returns the elementwise sum of two coordinates.
func (c Coord) Add(o Coord) Coord { return Coord{c.X + o.X, c.Y + o.Y} }

// Sub returns the elementwise difference of two coordinates.
func (c Coord) Sub(o Coord) Coord { return Coord{c.X - o.X, c.Y - o.Y} }

// Mul returns the coordinate scaled by an integer.
func (c Coord) Mul(s int) Coord { return Coord{c.X * s, c.Y * s} }

// Neg returns the negated coordinate.
func (c Coord) Neg() Coord { return Coord{-c.X, -c.Y} }

// Dot returns the integer dot product of two coordinates.
func (c Coord) Dot(o Coord) int { return c.X*o.X + c.Y*o.Y }

// Cross returns the 2D (scalar) cross product.
func (c Coord) Cross(o Coord) int { return c.X*o.Y - c.Y*o.X }

// NormSq returns the squared Euclidean norm.
func (c Coord) NormSq() int { return c.X*c.X + c.Y*c.Y }

// Norm returns the Euclidean (L2) norm.
func (c Coord) Norm() float64 { return math.Sqrt(float64(c.NormSq())) }

// ToFCoord converts an integer coordinate to its floating counterpart.
func (c Coord) ToFCoord() FCoord { return FCoord{float64(c.X), float64(c.Y)} }

// Equal reports whether two coordinates are identical.
func (c Coord) Equal(o Coord) bool { return c.X == o.X && c.Y == o.Y }

// Invalid is the sentinel coordinate signalling exhaustion of a pipeline
// (e.g. no more seed points available). See spec.md §4.G / §7.
var Invalid = Coord{X: -1, Y: -1}

// IsInvalid reports whether c is the sentinel coordinate.
func (c Coord) IsInvalid() bool { return c == Invalid }

// FCoord is a floating-point pixel position, mirroring Coord for subpixel
// geometry (seed positions, path nodes, offset edges).
type FCoord struct {
	X, Y float64
}

// F is a convenience constructor for FCoord.
func F(x, y float64) FCoord { return FCoord{X: x, Y: y} }

// Add returns the elementwise sum of two positions.
func (f FCoord) Add(o FCoord) FCoord { return FCoord{f.X + o.X, f.Y + o.Y} }

// Sub returns the elementwise difference of two positions.
func (f FCoord) Sub(o FCoord) FCoord { return FCoord{f.X - o.X, f.Y - o.Y} }

// Mul returns the position scaled by a scalar.
func (f FCoord) Mul(s float64) FCoord { return FCoord{f.X * s, f.Y * s} }

// Neg returns the negated position.
func (f FCoord) Neg() FCoord { return FCoord{-f.X, -f.Y} }

// Dot returns the dot product of two positions treated as vectors.
func (f FCoord) Dot(o FCoord) float64 { return f.X*o.X + f.Y*o.Y }

// Cross returns the 2D (scalar) cross product.
func (f FCoord) Cross(o FCoord) float64 { return f.X*o.Y - f.Y*o.X }

// NormSq returns the squared Euclidean norm.
func (f FCoord) NormSq() float64 { return f.X*f.X + f.Y*f.Y }

// Norm returns the Euclidean (L2) norm.
func (f FCoord) Norm() float64 { return math.Sqrt(f.NormSq()) }

// Normalize returns a unit vector in the same direction, or the zero vector
// if f has zero length.
func (f FCoord) Normalize() FCoord {
	n := f.Norm()
	if n == 0 {
		return FCoord{}
	}
	return FCoord{f.X / n, f.Y / n}
}

// Perp returns f rotated by +90 degrees (counter-clockwise).
func (f FCoord) Perp() FCoord { return FCoord{-f.Y, f.X} }

// Lerp linearly interpolates between f and o; t=0 returns f, t=1 returns o.
func (f FCoord) Lerp(o FCoord, t float64) FCoord {
	return FCoord{f.X + (o.X-f.X)*t, f.Y + (o.Y-f.Y)*t}
}

// Trunc casts the position to an integer coordinate by truncation, not
// rounding. The cast is explicit: callers that want nearest-pixel rounding
// must call Round instead.
func (f FCoord) Trunc() Coord { return Coord{int(f.X), int(f.Y)} }

// Round casts the position to the nearest integer coordinate.
func (f FCoord) Round() Coord {
	return Coord{int(math.Round(f.X)), int(math.Round(f.Y))}
}

// ToCoord is an alias for Trunc, kept for readability at call sites that
// intentionally truncate (e.g. bucketing a subpixel position into its
// containing cell).
func (f FCoord) ToCoord() Coord { return f.Trunc() }

// ToVec2 converts to golang.org/x/image/math/f64's double-precision pair
// type, the form the subpixel resampling helpers in director.Field
// exchange positions through before the bilinear lerp.
func (f FCoord) ToVec2() f64.Vec2 { return f64.Vec2{f.X, f.Y} }

// FromVec2 builds an FCoord from an f64.Vec2.
func FromVec2(v f64.Vec2) FCoord { return FCoord{X: v[0], Y: v[1]} }
