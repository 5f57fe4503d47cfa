package optics2d

import "math"

// Point2 represents a position in world coordinates (y grows downward).
type Point2 struct {
	X Real `json:"x"`
	Y Real `json:"y"`
}

// Add returns the point displaced by v.
func (p Point2) Add(v Vector2) Point2 { return Point2{p.X + v.X, p.Y + v.Y} }

// Sub returns the vector from q to p.
func (p Point2) Sub(q Point2) Vector2 { return Vector2{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between two points.
func (p Point2) Dist(q Point2) Real { return math.Hypot(p.X-q.X, p.Y-q.Y) }

func (p Point2) finite() bool { return isFinite(p.X) && isFinite(p.Y) }
