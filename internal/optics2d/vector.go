package optics2d

import "math"

// Vector2 represents a direction (not a position) in the plane.
type Vector2 struct {
	X, Y Real
}

// Vector functions
func (a Vector2) Add(b Vector2) Vector2 { return Vector2{a.X + b.X, a.Y + b.Y} }
func (a Vector2) Sub(b Vector2) Vector2 { return Vector2{a.X - b.X, a.Y - b.Y} }
func (v Vector2) Mul(s Real) Vector2    { return Vector2{v.X * s, v.Y * s} }
func (v Vector2) Invert() Vector2       { return Vector2{-v.X, -v.Y} }

// Dot returns the dot product between two vectors.
func (a Vector2) Dot(b Vector2) Real {
	return a.X*b.X + a.Y*b.Y
}

// Cross returns the z component of the 3D cross product.
func (a Vector2) Cross(b Vector2) Real {
	return a.X*b.Y - a.Y*b.X
}

// Len returns the Euclidean length of the vector.
func (v Vector2) Len() Real { return math.Sqrt(v.Dot(v)) }

// Norm returns a unit-length version of the vector.
func (v Vector2) Norm() Vector2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vector2{v.X / l, v.Y / l}
}

// Perp returns the vector rotated by +90° (y axis points down, so this is clockwise on screen).
func (v Vector2) Perp() Vector2 { return Vector2{-v.Y, v.X} }

// Angle returns the polar angle of the vector in [0, 2π).
func (v Vector2) Angle() Real { return NormalizeAngle(math.Atan2(v.Y, v.X)) }

// FromAngle returns the unit vector at angle a.
func FromAngle(a Real) Vector2 { return Vector2{math.Cos(a), math.Sin(a)} }
