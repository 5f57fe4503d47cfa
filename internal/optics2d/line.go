package optics2d

// Line is a bounded segment A-B. Its normal is (A.Y-B.Y, B.X-A.X) normalized,
// so element outlines are wound such that this normal faces outward.
type Line struct {
	A, B Point2
}

func NewLine(a, b Point2) *Line { return &Line{A: a, B: b} }

func (l *Line) Kind() CurveKind             { return LineCurve }
func (l *Line) Endpoints() (Point2, Point2) { return l.A, l.B }
func (l *Line) Len() Real                   { return l.A.Dist(l.B) }

func (l *Line) Normal(Point2) Vector2 {
	return Vector2{l.A.Y - l.B.Y, l.B.X - l.A.X}.Norm()
}

func (l *Line) Intersect(from, to Point2, eps Real) (Point2, bool) {
	p, ok := lineLineIntersection(from, to, l.A, l.B)
	if !ok || p.Dist(from) < eps {
		return Point2{}, false
	}
	return p, true
}

// orientOutward swaps the endpoints when the normal points toward inside.
func (l *Line) orientOutward(inside Point2) {
	mid := Point2{(l.A.X + l.B.X) / 2, (l.A.Y + l.B.Y) / 2}
	if l.Normal(mid).Dot(mid.Sub(inside)) < 0 {
		l.A, l.B = l.B, l.A
	}
}

// Boundaries returns the four segments closing the playfield [0,w]x[0,h]:
// top, left, right, bottom.
func Boundaries(w, h Real) []*Line {
	return []*Line{
		NewLine(Point2{0, 0}, Point2{w, 0}),
		NewLine(Point2{0, 0}, Point2{0, h}),
		NewLine(Point2{w, 0}, Point2{w, h}),
		NewLine(Point2{0, h}, Point2{w, h}),
	}
}
