package optics2d

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Kind tags every concrete element variant.
type Kind uint8

const (
	KindBox Kind = iota
	KindMirror
	KindGlassBox
	KindWall
	KindWinWall
	KindLoseWall
	KindPlanoConvex
	KindPlanoConcave
	KindCircPlanoConvex
	KindCircPlanoConcave
	KindConvex
	KindConcave
)

var kindNames = map[Kind]string{
	KindBox:              "box",
	KindMirror:           "mirror",
	KindGlassBox:         "glass",
	KindWall:             "wall",
	KindWinWall:          "winwall",
	KindLoseWall:         "losewall",
	KindPlanoConvex:      "planoconvex",
	KindPlanoConcave:     "planoconcave",
	KindCircPlanoConvex:  "circplanoconvex",
	KindCircPlanoConcave: "circplanoconcave",
	KindConvex:           "convex",
	KindConcave:          "concave",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a config type name back to a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: type %q", ErrUnknownElement, s)
}

// Element is a placed optical object. Every setter regenerates the derived
// curves before returning.
type Element interface {
	ID() string
	Kind() Kind
	Position() Point2
	SetPosition(p Point2)
	Rotation() Real
	SetRotation(a Real)
	N() Real
	Wall() WallKind
	Curves() []Curve
	Intersect(r *Ray) (Intersection, bool)
	NormalAt(c Curve, p Point2) Vector2
	Contains(p Point2) bool
	Outline() []Point2
	Bounds() (min, max Point2)
	Attributes() []string
	Attribute(key string) (Real, error)
	UpdateAttribute(key string, v Real) error
	Clone() Element
}

// Intersection is the nearest intersection of a ray with an element.
type Intersection struct {
	Point   Point2
	Dist    Real
	Curve   Curve
	Element Element
}

// pose holds the state common to all elements.
type pose struct {
	id  string
	pos Point2
	rot Real
	n   Real
}

func newPose(x, y, rot, n Real) (pose, error) {
	if _, err := RoleOf(n); err != nil {
		return pose{}, err
	}
	if !isFinite(x) || !isFinite(y) || !isFinite(rot) {
		return pose{}, fmt.Errorf("%w: non-finite pose (%g, %g, %g)", ErrInvalidGeometry, x, y, rot)
	}
	return pose{id: uuid.NewString(), pos: Point2{x, y}, rot: NormalizeAngle(rot), n: n}, nil
}

func (p *pose) ID() string       { return p.id }
func (p *pose) Position() Point2 { return p.pos }
func (p *pose) Rotation() Real   { return p.rot }
func (p *pose) N() Real          { return p.n }

// axes returns the local frame: u along the rotation, v perpendicular to it.
func (p *pose) axes() (Vector2, Vector2) {
	s, c := math.Sincos(p.rot)
	return Vector2{c, s}, Vector2{-s, c}
}

func (p *pose) toWorld(u, v Real) Point2 {
	U, V := p.axes()
	return p.pos.Add(U.Mul(u)).Add(V.Mul(v))
}

// nearestOnCurves returns the closest hit among curves for the segment from->to.
func nearestOnCurves(curves []Curve, from, to Point2, eps Real) (Point2, Curve, Real, bool) {
	var (
		best  Point2
		bestC Curve
		bestD = math.Inf(1)
	)
	for _, c := range curves {
		p, ok := c.Intersect(from, to, eps)
		if !ok {
			continue
		}
		if d := p.Dist(from); d < bestD {
			best, bestC, bestD = p, c, d
		}
	}
	return best, bestC, bestD, bestC != nil
}

func outlineBounds(pts []Point2) (Point2, Point2) {
	if len(pts) == 0 {
		return Point2{}, Point2{}
	}
	minP, maxP := pts[0], pts[0]
	for _, p := range pts[1:] {
		minP = Point2{rmin(minP.X, p.X), rmin(minP.Y, p.Y)}
		maxP = Point2{rmax(maxP.X, p.X), rmax(maxP.Y, p.Y)}
	}
	return minP, maxP
}

// pointInPolygon is the even-odd crossing test.
func pointInPolygon(poly []Point2, p Point2) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

func linesToCurves(lines []*Line) []Curve {
	out := make([]Curve, 0, len(lines))
	for _, l := range lines {
		out = append(out, l)
	}
	return out
}
