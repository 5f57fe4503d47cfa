package optics2d

import (
	"fmt"
	"math"
)

// Arc is a circular arc built from an anchor point, radius, rotation and
// angular extent. The anchor lies halfway between the chord and the apex;
// the apex points along (-sin(rotation), cos(rotation)).
type Arc struct {
	Anchor   Point2
	R        Real
	Rotation Real
	Extent   Real

	// derived
	Center     Point2
	Start, End Real // angular span, End = Start + Extent (mod 2π)
	P1, P2     Point2
	Sagitta    Real
}

// NewArc validates r > 0 and extent in (0, 2π] and derives center and endpoints.
func NewArc(anchor Point2, r, rotation, extent Real) (*Arc, error) {
	if !(r > 0) || !isFinite(r) {
		return nil, fmt.Errorf("%w: radius %g", ErrInvalidArc, r)
	}
	if !(extent > 0) || extent > 2*math.Pi+degenerate {
		return nil, fmt.Errorf("%w: extent %g outside (0, 2π]", ErrInvalidArc, extent)
	}
	a := &Arc{Anchor: anchor, R: r, Rotation: rotation, Extent: rmin(extent, 2*math.Pi)}
	a.generate()
	return a, nil
}

func (a *Arc) generate() {
	half := a.Extent / 2
	a.Sagitta = a.R - a.R*math.Cos(half)
	d := a.R - a.Sagitta/2
	a.Center = a.Anchor.Add(Vector2{math.Sin(a.Rotation), -math.Cos(a.Rotation)}.Mul(d))
	a.Start = NormalizeAngle(a.Rotation + (math.Pi-a.Extent)/2)
	a.End = NormalizeAngle(a.Start + a.Extent)
	a.P1 = a.Center.Add(FromAngle(a.Start).Mul(a.R))
	a.P2 = a.Center.Add(FromAngle(a.Start + a.Extent).Mul(a.R))
}

func (a *Arc) Kind() CurveKind             { return ArcCurve }
func (a *Arc) Endpoints() (Point2, Point2) { return a.P1, a.P2 }

// Apex is the point of the arc farthest from its chord.
func (a *Arc) Apex() Point2 {
	return a.Center.Add(FromAngle(a.Start + a.Extent/2).Mul(a.R))
}

func (a *Arc) Normal(p Point2) Vector2 {
	return p.Sub(a.Center).Norm()
}

// Covers reports whether the direction from the center to p lies on the arc span.
func (a *Arc) Covers(p Point2) bool {
	if a.Extent >= 2*math.Pi {
		return true
	}
	return isInRange(a.Start, a.End, angleFromSegment(a.Center, p))
}

func (a *Arc) Intersect(from, to Point2, eps Real) (Point2, bool) {
	for _, p := range lineCircleIntersection(from, to, a.Center, a.R) {
		if p.Dist(from) < eps || !onLineSegment(from, to, p, eps) || !a.Covers(p) {
			continue
		}
		return p, true
	}
	return Point2{}, false
}

// Sample returns n+1 points along the arc from P1 to P2.
func (a *Arc) Sample(n int) []Point2 {
	out := make([]Point2, 0, n+1)
	for i := 0; i <= n; i++ {
		t := a.Start + a.Extent*Real(i)/Real(n)
		out = append(out, a.Center.Add(FromAngle(t).Mul(a.R)))
	}
	return out
}

// Bounds is the exact axis-aligned box of the arc, including any axis
// extreme between the endpoints.
func (a *Arc) Bounds() (Point2, Point2) {
	minP, maxP := outlineBounds([]Point2{a.P1, a.P2})
	for k := 0; k < 4; k++ {
		t := Real(k) * math.Pi / 2
		if a.Extent < 2*math.Pi && !isInRange(a.Start, a.End, t) {
			continue
		}
		p := a.Center.Add(FromAngle(t).Mul(a.R))
		minP, maxP = aabbUnion(minP, maxP, p, p)
	}
	return minP, maxP
}
