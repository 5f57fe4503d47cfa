package optics2d

import "fmt"

// CurveKind tags the two curve variants.
type CurveKind uint8

const (
	LineCurve CurveKind = iota
	ArcCurve
)

func (k CurveKind) String() string {
	switch k {
	case LineCurve:
		return "line"
	case ArcCurve:
		return "arc"
	default:
		return fmt.Sprintf("curve(%d)", uint8(k))
	}
}

// Curve is one piece of an element boundary.
type Curve interface {
	Kind() CurveKind
	// Intersect returns the nearest point where the segment from->to crosses
	// the curve, ignoring points closer than eps to from.
	Intersect(from, to Point2, eps Real) (Point2, bool)
	// Normal is the geometric unit normal at p: the segment perpendicular for
	// lines, the outward radial direction for arcs.
	Normal(p Point2) Vector2
	Endpoints() (Point2, Point2)
}
