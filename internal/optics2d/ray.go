package optics2d

import (
	"fmt"
	"math"
)

// TraceState is the trace state machine:
// Tracing -> (HitWall | HitBoundary | ExhaustedBudget) -> Done.
type TraceState uint8

const (
	Tracing TraceState = iota
	HitWall
	HitBoundary
	ExhaustedBudget
	Done
)

func (s TraceState) String() string {
	switch s {
	case Tracing:
		return "tracing"
	case HitWall:
		return "hit_wall"
	case HitBoundary:
		return "hit_boundary"
	case ExhaustedBudget:
		return "exhausted_budget"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Ray is a single traced ray. Path, the win/lose flags, Cause and State are
// rebuilt on every Trace call.
type Ray struct {
	Name              string
	Origin            Point2
	OriginalAngle     Real
	IntersectionLimit int
	Epsilon           Real

	Path            []Point2
	HittingWinWall  bool
	HittingLoseWall bool
	Cause           TraceState // HitWall, HitBoundary or ExhaustedBudget once traced
	State           TraceState

	pos        Point2
	dir        Vector2
	n          Real
	far        Point2
	bmin, bmax Point2
}

// NewRay creates a ray at (x, y) travelling at angle (radians, y axis down).
func NewRay(x, y, angle Real) *Ray {
	r := &Ray{
		Name:              "ray",
		Origin:            Point2{x, y},
		OriginalAngle:     NormalizeAngle(angle),
		IntersectionLimit: IntersectionLimit,
		Epsilon:           Epsilon,
	}
	r.reset()
	return r
}

func (r *Ray) Position() Point2   { return r.pos }
func (r *Ray) Direction() Vector2 { return r.dir }
func (r *Ray) Angle() Real        { return r.dir.Angle() }
func (r *Ray) N() Real            { return r.n }
func (r *Ray) FarEnd() Point2     { return r.far }

func (r *Ray) String() string {
	return fmt.Sprintf("%s(%g, %g)@%.4f", r.Name, r.Origin.X, r.Origin.Y, r.OriginalAngle)
}

func (r *Ray) reset() {
	r.pos = r.Origin
	r.dir = FromAngle(r.OriginalAngle)
	r.n = 1
	r.Path = append(r.Path[:0], r.Origin)
	r.HittingWinWall = false
	r.HittingLoseWall = false
	r.Cause = Tracing
	r.State = Tracing
	if r.Epsilon <= 0 {
		r.Epsilon = DefaultEpsilon
	}
}

// Trace resets the ray and follows it through elements until it strikes a
// wall, leaves through the boundary or exhausts its intersection budget.
// The only error is a path that cannot be closed at the boundary.
func (r *Ray) Trace(elements []Element, boundaries []*Line) error {
	return r.trace(newNearestHit(elements), boundaries)
}

func (r *Ray) trace(nearest nearestHitFunc, boundaries []*Line) error {
	r.reset()
	r.setBounds(boundaries)
	limit := imax(r.IntersectionLimit, 0)
	cause := ExhaustedBudget
	for i := 0; i < limit; i++ {
		r.extend()
		h, ok := nearest(r)
		if !ok {
			cause = HitBoundary
			break
		}
		r.Path = append(r.Path, h.Point)
		if Debug {
			logRay(r.Name, Hit, r.pos, r.dir, h.Point, i, h.Dist)
		}
		if role, _ := RoleOf(h.Element.N()); role == RoleWall {
			switch h.Element.Wall() {
			case WallWin:
				r.HittingWinWall = true
			case WallLose:
				r.HittingLoseWall = true
			}
			r.pos = h.Point
			r.Cause, r.State = HitWall, Done
			if Debug {
				logRay(r.Name, Absorb, r.pos, r.dir, h.Point, i, h.Dist)
			}
			DebugLog("%s: wall %s (%s) at %+v after %d events", r.Name, h.Element.ID(), h.Element.Wall(), h.Point, i+1)
			return nil
		}
		r.interact(h, i)
		r.pos = h.Point
	}
	r.Cause = cause
	if cause == ExhaustedBudget && Debug {
		logRay(r.Name, RecurrenceLimit, r.pos, r.dir, r.pos, limit, 0)
	}

	r.extend()
	p, ok := r.boundaryHit(boundaries)
	r.State = Done
	if !ok {
		Logger().Error("ray path not closed at boundary", "ray", r.Name, "pos", r.pos, "angle", r.Angle(), "points", len(r.Path))
		return fmt.Errorf("%s at %+v: %w", r.Name, r.pos, ErrEmptyPath)
	}
	if Debug {
		logRay(r.Name, Miss, r.pos, r.dir, p, len(r.Path)-1, p.Dist(r.pos))
	}
	r.Path = append(r.Path, p)
	r.pos = p
	return nil
}

// interact bends the ray at a mirror or dielectric surface.
func (r *Ray) interact(h Intersection, bounce int) {
	N := h.Element.NormalAt(h.Curve, h.Point)
	n := h.Element.N()
	if n == 0 {
		r.dir = reflect2(r.dir, N).Norm()
		if Debug {
			logRay(r.Name, Reflect, r.pos, r.dir, h.Point, bounce, h.Dist)
		}
		return
	}
	entering := r.dir.Dot(N) < 0
	n2 := Real(1)
	if entering {
		n2 = n
	}
	t, ok := refract2(r.dir, N, r.n/n2)
	if !ok {
		r.dir = reflect2(r.dir, N).Norm()
		if Debug {
			logRay(r.Name, TIR, r.pos, r.dir, h.Point, bounce, h.Dist)
		}
		return
	}
	r.dir = t
	r.n = n2
	if Debug {
		logRay(r.Name, Refract, r.pos, r.dir, h.Point, bounce, h.Dist)
	}
}

func (r *Ray) setBounds(boundaries []*Line) {
	first := true
	for _, b := range boundaries {
		for _, p := range []Point2{b.A, b.B} {
			if first {
				r.bmin, r.bmax, first = p, p, false
				continue
			}
			r.bmin = Point2{rmin(r.bmin.X, p.X), rmin(r.bmin.Y, p.Y)}
			r.bmax = Point2{rmax(r.bmax.X, p.X), rmax(r.bmax.Y, p.Y)}
		}
	}
}

// extend moves the far endpoint to just beyond the boundary rectangle along
// the current direction. It only bounds the next intersection search.
func (r *Ray) extend() {
	t := math.Inf(1)
	if r.dir.X > parEps {
		t = rmin(t, (r.bmax.X-r.pos.X)/r.dir.X)
	} else if r.dir.X < -parEps {
		t = rmin(t, (r.bmin.X-r.pos.X)/r.dir.X)
	}
	if r.dir.Y > parEps {
		t = rmin(t, (r.bmax.Y-r.pos.Y)/r.dir.Y)
	} else if r.dir.Y < -parEps {
		t = rmin(t, (r.bmin.Y-r.pos.Y)/r.dir.Y)
	}
	if !(t > 0) || !isFinite(t) {
		t = r.bmax.Sub(r.bmin).Len() + r.pos.Dist(r.bmin)
	}
	r.far = r.pos.Add(r.dir.Mul(t + 1))
}

func (r *Ray) boundaryHit(boundaries []*Line) (Point2, bool) {
	curves := make([]Curve, 0, len(boundaries))
	for _, b := range boundaries {
		curves = append(curves, b)
	}
	p, _, _, ok := nearestOnCurves(curves, r.pos, r.far, r.Epsilon)
	return p, ok
}
