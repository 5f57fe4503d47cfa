package optics2d

import (
	"math"
	"sort"
)

// lineLineIntersection intersects segment p1-p2 with segment p3-p4.
// Parallel or degenerate segments never intersect. The point is evaluated
// along the second segment, which is the curve side in every caller.
func lineLineIntersection(p1, p2, p3, p4 Point2) (Point2, bool) {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	den := d1.Cross(d2)
	if math.Abs(den) < degenerate || !isFinite(den) {
		return Point2{}, false
	}
	w := p3.Sub(p1)
	a := w.Cross(d2) / den
	b := w.Cross(d1) / den
	if a < 0 || a > 1 || b < 0 || b > 1 {
		return Point2{}, false
	}
	p := p3.Add(d2.Mul(b))
	if !p.finite() {
		return Point2{}, false
	}
	return p, true
}

// lineCircleIntersection returns the points where the infinite line through
// from and to meets the circle, nearest to from first.
func lineCircleIntersection(from, to, center Point2, r Real) []Point2 {
	d := to.Sub(from)
	f := from.Sub(center)
	a := d.Dot(d)
	if a < degenerate || r <= 0 {
		return nil
	}
	b := 2 * f.Dot(d)
	c := f.Dot(f) - r*r
	disc := b*b - 4*a*c
	if disc < 0 || !isFinite(disc) {
		return nil
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	out := []Point2{from.Add(d.Mul(t1))}
	if disc > 0 {
		out = append(out, from.Add(d.Mul(t2)))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Dist(from) < out[j].Dist(from) })
	return out
}

// angleFromSegment returns the direction of the segment a->b in [0, 2π).
func angleFromSegment(a, b Point2) Real {
	return NormalizeAngle(math.Atan2(b.Y-a.Y, b.X-a.X))
}

// isInRange tests whether angle lies in the angular span [from, to]. Spans
// that wrap past 2π have from > to.
func isInRange(from, to, angle Real) bool {
	from, to, angle = NormalizeAngle(from), NormalizeAngle(to), NormalizeAngle(angle)
	if from > to {
		return angle >= from || angle <= to
	}
	return angle >= from && angle <= to
}

// onLineSegment reports whether p lies on the segment a-b, within eps.
func onLineSegment(a, b, p Point2, eps Real) bool {
	return math.Abs(a.Dist(p)+p.Dist(b)-a.Dist(b)) < eps
}

// reflect2 mirrors I about the surface with unit normal N (either orientation).
func reflect2(I, N Vector2) Vector2 {
	return I.Sub(N.Mul(2 * I.Dot(N)))
}

// refract2 applies the vector form of Snell's law.
// eta must be n1/n2 for the current interface; I and N must be unit, N may face either side.
// Returns false on total internal reflection or when the arithmetic degenerates.
func refract2(I, N Vector2, eta Real) (Vector2, bool) {
	n := N
	cosi := -I.Dot(N)
	if cosi < 0 {
		n = N.Invert()
		cosi = -cosi
	}
	if cosi > 1 {
		cosi = 1
	}
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 || !isFinite(k) {
		return Vector2{}, false
	}
	T := I.Mul(eta).Add(n.Mul(eta*cosi - math.Sqrt(k)))
	if !isFinite(T.X) || !isFinite(T.Y) {
		return Vector2{}, false
	}
	return T.Norm(), true
}
