package optics2d

import (
	"fmt"
	"math"
)

type lensProfile uint8

const (
	profilePlanoConvex lensProfile = iota
	profilePlanoConcave
	profileBiconvex
	profileBiconcave
)

func (p lensProfile) concave() bool {
	return p == profilePlanoConcave || p == profileBiconcave
}

// lensBody is the geometry shared by every lens. Locally u runs along the
// rotation and v across it; the optical axis is v. For convex profiles T is
// the edge thickness, for concave ones it is the thickness at the centre.
type lensBody struct {
	pose
	kind     Kind
	profile  lensProfile
	R, SD, T Real
	tracksR  bool // semi-diameter follows the radius (hemispherical variants)

	lines   []*Line
	arcs    []*Arc
	outline []Point2
}

type (
	// PlanoConvexLens is a hemispherical plano-convex lens: semi-diameter equals radius.
	PlanoConvexLens struct{ lensBody }
	// PlanoConcaveLens is a hemispherical plano-concave lens.
	PlanoConcaveLens struct{ lensBody }
	// CircPlanoConvexLens is a plano-convex lens whose arc is cut at semi-diameter SD.
	CircPlanoConvexLens struct{ lensBody }
	// CircPlanoConcaveLens is a plano-concave lens whose hollow is cut at semi-diameter SD.
	CircPlanoConcaveLens struct{ lensBody }
	// ConvexLens is a symmetric biconvex lens.
	ConvexLens struct{ lensBody }
	// ConcaveLens is a symmetric biconcave lens.
	ConcaveLens struct{ lensBody }
)

func NewPlanoConvexLens(x, y, rotation, n, r, w Real) (*PlanoConvexLens, error) {
	b, err := newLensBody(KindPlanoConvex, profilePlanoConvex, x, y, rotation, n, r, r, w, true)
	if err != nil {
		return nil, err
	}
	return &PlanoConvexLens{*b}, nil
}

func NewPlanoConcaveLens(x, y, rotation, n, r, d Real) (*PlanoConcaveLens, error) {
	b, err := newLensBody(KindPlanoConcave, profilePlanoConcave, x, y, rotation, n, r, r, d, true)
	if err != nil {
		return nil, err
	}
	return &PlanoConcaveLens{*b}, nil
}

func NewCircPlanoConvexLens(x, y, rotation, n, r, sd, w Real) (*CircPlanoConvexLens, error) {
	b, err := newLensBody(KindCircPlanoConvex, profilePlanoConvex, x, y, rotation, n, r, sd, w, false)
	if err != nil {
		return nil, err
	}
	return &CircPlanoConvexLens{*b}, nil
}

func NewCircPlanoConcaveLens(x, y, rotation, n, r, sd, d Real) (*CircPlanoConcaveLens, error) {
	b, err := newLensBody(KindCircPlanoConcave, profilePlanoConcave, x, y, rotation, n, r, sd, d, false)
	if err != nil {
		return nil, err
	}
	return &CircPlanoConcaveLens{*b}, nil
}

func NewConvexLens(x, y, rotation, n, r, sd, w Real) (*ConvexLens, error) {
	b, err := newLensBody(KindConvex, profileBiconvex, x, y, rotation, n, r, sd, w, false)
	if err != nil {
		return nil, err
	}
	return &ConvexLens{*b}, nil
}

func NewConcaveLens(x, y, rotation, n, r, sd, d Real) (*ConcaveLens, error) {
	b, err := newLensBody(KindConcave, profileBiconcave, x, y, rotation, n, r, sd, d, false)
	if err != nil {
		return nil, err
	}
	return &ConcaveLens{*b}, nil
}

func newLensBody(kind Kind, profile lensProfile, x, y, rotation, n, r, sd, t Real, tracksR bool) (*lensBody, error) {
	p, err := newPose(x, y, rotation, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	l := &lensBody{pose: p, kind: kind, profile: profile, R: r, SD: sd, T: t, tracksR: tracksR}
	if err := l.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	if err := l.generate(); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	DebugLog("new %s %s at (%g, %g) rot=%g n=%g r=%g sd=%g t=%g", kind, l.id, x, y, l.rot, n, r, sd, t)
	return l, nil
}

func (l *lensBody) check() error {
	if !(l.R > 0) || !isFinite(l.R) {
		return fmt.Errorf("%w: radius %g", ErrInvalidGeometry, l.R)
	}
	if !(l.SD > 0) || l.SD > l.R {
		return fmt.Errorf("%w: semi-diameter %g must be in (0, r=%g]", ErrInvalidGeometry, l.SD, l.R)
	}
	if l.profile.concave() {
		if !(l.T > 0) {
			return fmt.Errorf("%w: centre thickness %g must be > 0", ErrInvalidGeometry, l.T)
		}
	} else if l.T < 0 || !isFinite(l.T) {
		return fmt.Errorf("%w: edge thickness %g must be >= 0", ErrInvalidGeometry, l.T)
	}
	return nil
}

// sagitta is the depth of the cap cut at the semi-diameter.
func (l *lensBody) sagitta() Real {
	return l.R - math.Sqrt(rmax(0, l.R*l.R-l.SD*l.SD))
}

func (l *lensBody) extent() Real {
	return 2 * math.Asin(rmin(1, l.SD/l.R))
}

// generate rebuilds lines, arcs and the sampled outline from the pose.
func (l *lensBody) generate() error {
	s, ext, sd, t, r := l.sagitta(), l.extent(), l.SD, l.T, l.R
	var (
		local  []Point2 // (u, v) pairs of the flat/rim polyline pieces
		arcs   []*Arc
		inside Point2
		lines  []*Line
		err    error
	)
	seg := func(u1, v1, u2, v2 Real) {
		if math.Hypot(u2-u1, v2-v1) <= degenerate {
			return
		}
		lines = append(lines, NewLine(l.toWorld(u1, v1), l.toWorld(u2, v2)))
	}
	// arcAt builds the arc whose chord sits at v=chord and whose apex faces +v (up) or -v.
	arcAt := func(chord Real, up bool) *Arc {
		if err != nil {
			return nil
		}
		var a *Arc
		if up {
			a, err = NewArc(l.toWorld(0, chord+s/2), r, l.rot, ext)
		} else {
			a, err = NewArc(l.toWorld(0, chord-s/2), r, l.rot+math.Pi, ext)
		}
		return a
	}
	// sample walks a circle of centre (0, cy) from u0 to u1, on the +v side when up.
	sample := func(cy Real, up bool, u0, u1 Real) {
		for i := 0; i <= outlineArcSamples; i++ {
			u := u0 + (u1-u0)*Real(i)/outlineArcSamples
			dv := math.Sqrt(rmax(0, r*r-u*u))
			if !up {
				dv = -dv
			}
			local = append(local, Point2{u, cy + dv})
		}
	}

	switch l.profile {
	case profilePlanoConvex:
		half := (t + s) / 2
		chord := -half + t
		arcs = append(arcs, arcAt(chord, true))
		seg(-sd, -half, sd, -half)
		seg(sd, -half, sd, chord)
		seg(-sd, chord, -sd, -half)
		local = append(local, Point2{-sd, -half}, Point2{sd, -half})
		sample(half-r, true, sd, -sd)
	case profilePlanoConcave:
		half := (t + s) / 2
		arcs = append(arcs, arcAt(half, false))
		seg(-sd, -half, sd, -half)
		seg(sd, -half, sd, half)
		seg(-sd, half, -sd, -half)
		local = append(local, Point2{-sd, -half}, Point2{sd, -half})
		sample(half-s+r, false, sd, -sd)
		inside = Point2{0, -half + t/2}
	case profileBiconvex:
		half := t / 2
		arcs = append(arcs, arcAt(half, true), arcAt(-half, false))
		seg(sd, -half, sd, half)
		seg(-sd, half, -sd, -half)
		sample(-(half+s)+r, false, -sd, sd)
		sample(half+s-r, true, sd, -sd)
	case profileBiconcave:
		edge := t/2 + s
		arcs = append(arcs, arcAt(edge, false), arcAt(-edge, true))
		seg(sd, -edge, sd, edge)
		seg(-sd, edge, -sd, -edge)
		local = append(local, Point2{-sd, -edge})
		sample(-t/2-r, true, -sd, sd)
		local = append(local, Point2{sd, edge})
		sample(t/2+r, false, sd, -sd)
	}
	if err != nil {
		return err
	}
	in := l.toWorld(inside.X, inside.Y)
	for _, ln := range lines {
		ln.orientOutward(in)
	}
	l.lines, l.arcs = lines, arcs
	l.outline = make([]Point2, 0, len(local))
	for _, p := range local {
		l.outline = append(l.outline, l.toWorld(p.X, p.Y))
	}
	return nil
}

func (l *lensBody) Kind() Kind     { return l.kind }
func (l *lensBody) Wall() WallKind { return WallNone }
func (l *lensBody) Lines() []*Line { return l.lines }
func (l *lensBody) Arcs() []*Arc   { return l.arcs }

func (l *lensBody) Curves() []Curve {
	out := linesToCurves(l.lines)
	for _, a := range l.arcs {
		out = append(out, a)
	}
	return out
}

func (l *lensBody) SetPosition(p Point2) {
	l.pos = p
	l.mustGenerate()
}

func (l *lensBody) SetRotation(a Real) {
	l.rot = NormalizeAngle(a)
	l.mustGenerate()
}

// mustGenerate regenerates geometry whose parameters were already validated.
func (l *lensBody) mustGenerate() {
	if err := l.generate(); err != nil {
		Logger().Error("lens regeneration failed", "id", l.id, "kind", l.kind.String(), "err", err)
	}
}

// intersect tests the flat/rim profile and the curved profile independently
// and keeps whichever hit is strictly closer.
func (l *lensBody) intersect(r *Ray, owner Element) (Intersection, bool) {
	lp, lc, ld, lok := nearestOnCurves(linesToCurves(l.lines), r.pos, r.far, r.Epsilon)
	arcCurves := make([]Curve, 0, len(l.arcs))
	for _, a := range l.arcs {
		arcCurves = append(arcCurves, a)
	}
	ap, ac, ad, aok := nearestOnCurves(arcCurves, r.pos, r.far, r.Epsilon)
	switch {
	case lok && (!aok || ld < ad):
		return Intersection{Point: lp, Dist: ld, Curve: lc, Element: owner}, true
	case aok:
		return Intersection{Point: ap, Dist: ad, Curve: ac, Element: owner}, true
	}
	return Intersection{}, false
}

// NormalAt returns the outward normal. Hollow (concave) arcs point toward their centre.
func (l *lensBody) NormalAt(c Curve, p Point2) Vector2 {
	n := c.Normal(p)
	if c.Kind() == ArcCurve && l.profile.concave() {
		return n.Invert()
	}
	return n
}

func (l *lensBody) Outline() []Point2      { return l.outline }
func (l *lensBody) Contains(p Point2) bool { return pointInPolygon(l.outline, p) }

// Bounds covers the true arcs, not just the sampled outline.
func (l *lensBody) Bounds() (Point2, Point2) {
	minP, maxP := outlineBounds(l.outline)
	for _, a := range l.arcs {
		amin, amax := a.Bounds()
		minP, maxP = aabbUnion(minP, maxP, amin, amax)
	}
	return minP, maxP
}

func (l *lensBody) thicknessKey() string {
	if l.profile.concave() {
		return "d"
	}
	return "w"
}

func (l *lensBody) Attributes() []string {
	if l.tracksR {
		return []string{"r", l.thicknessKey(), "n"}
	}
	return []string{"r", "sd", l.thicknessKey(), "n"}
}

func (l *lensBody) Attribute(key string) (Real, error) {
	switch {
	case key == "r":
		return l.R, nil
	case key == "sd" && !l.tracksR:
		return l.SD, nil
	case key == l.thicknessKey():
		return l.T, nil
	case key == "n":
		return l.n, nil
	}
	return 0, fmt.Errorf("%w: %s has no %q", ErrUnknownAttribute, l.kind, key)
}

func (l *lensBody) UpdateAttribute(key string, v Real) error {
	next := *l
	switch {
	case key == "r":
		next.R = v
		if l.tracksR {
			next.SD = v
		}
	case key == "sd" && !l.tracksR:
		next.SD = v
	case key == l.thicknessKey():
		next.T = v
	case key == "n":
		if err := checkIndexEdit(v); err != nil {
			return err
		}
		next.n = v
	default:
		return fmt.Errorf("%w: %s has no %q", ErrUnknownAttribute, l.kind, key)
	}
	if err := next.check(); err != nil {
		return err
	}
	if err := next.generate(); err != nil {
		return err
	}
	*l = next
	return nil
}

func (l *lensBody) clone() lensBody {
	c := *l
	c.mustGenerate()
	return c
}

func (l *PlanoConvexLens) Clone() Element      { return &PlanoConvexLens{l.clone()} }
func (l *PlanoConcaveLens) Clone() Element     { return &PlanoConcaveLens{l.clone()} }
func (l *CircPlanoConvexLens) Clone() Element  { return &CircPlanoConvexLens{l.clone()} }
func (l *CircPlanoConcaveLens) Clone() Element { return &CircPlanoConcaveLens{l.clone()} }
func (l *ConvexLens) Clone() Element           { return &ConvexLens{l.clone()} }
func (l *ConcaveLens) Clone() Element          { return &ConcaveLens{l.clone()} }

func (l *PlanoConvexLens) Intersect(r *Ray) (Intersection, bool)      { return l.intersect(r, l) }
func (l *PlanoConcaveLens) Intersect(r *Ray) (Intersection, bool)     { return l.intersect(r, l) }
func (l *CircPlanoConvexLens) Intersect(r *Ray) (Intersection, bool)  { return l.intersect(r, l) }
func (l *CircPlanoConcaveLens) Intersect(r *Ray) (Intersection, bool) { return l.intersect(r, l) }
func (l *ConvexLens) Intersect(r *Ray) (Intersection, bool)           { return l.intersect(r, l) }
func (l *ConcaveLens) Intersect(r *Ray) (Intersection, bool)          { return l.intersect(r, l) }
