package optics2d

import (
	"math"
	"testing"
)

func mustScene(t *testing.T, w, h Real) *Scene {
	t.Helper()
	s, err := NewScene(w, h)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func must[T any](t *testing.T) func(T, error) T {
	return func(v T, err error) T {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		return v
	}
}

func trace(t *testing.T, s *Scene, r *Ray) {
	t.Helper()
	if err := r.Trace(s.Elements(), s.Boundaries()); err != nil {
		t.Fatalf("trace: %v", err)
	}
	if r.State != Done {
		t.Fatalf("state %s after trace", r.State)
	}
}

func TestTraceEmptyScene(t *testing.T) {
	s := mustScene(t, 800, 600)
	r := NewRay(0, 50, 0)
	trace(t, s, r)
	if len(r.Path) != 2 {
		t.Fatalf("path %+v", r.Path)
	}
	if !ptNearly(r.Path[0], Point2{0, 50}, 1e-9) || !ptNearly(r.Path[1], Point2{800, 50}, 1e-9) {
		t.Fatalf("path %+v", r.Path)
	}
	if r.Cause != HitBoundary || r.HittingWinWall || r.HittingLoseWall {
		t.Fatalf("cause=%s win=%v lose=%v", r.Cause, r.HittingWinWall, r.HittingLoseWall)
	}
}

func TestTraceEveryDirectionClosesAtBoundary(t *testing.T) {
	s := mustScene(t, 800, 600)
	for i := 0; i < 64; i++ {
		a := 2 * math.Pi * Real(i) / 64
		r := NewRay(400, 300, a)
		trace(t, s, r)
		end := r.Path[len(r.Path)-1]
		onEdge := nearly(end.X, 0, 1e-6) || nearly(end.X, 800, 1e-6) || nearly(end.Y, 0, 1e-6) || nearly(end.Y, 600, 1e-6)
		if len(r.Path) != 2 || !onEdge {
			t.Fatalf("angle %g: path %+v", a, r.Path)
		}
	}
}

func TestTraceMirrorTurnsRay(t *testing.T) {
	s := mustScene(t, 800, 600)
	s.Add(must[*Box](t)(NewMirror(200, 100, 150, 10, math.Pi/4)))
	r := NewRay(0, 100, 0)
	trace(t, s, r)
	if len(r.Path) != 3 {
		t.Fatalf("path %+v", r.Path)
	}
	if !nearly(r.Path[1].Y, 100, 1e-9) || !nearly(r.Path[1].X, 200-5*math.Sqrt2, 1e-9) {
		t.Fatalf("mirror hit at %+v", r.Path[1])
	}
	if !nearly(r.Angle(), math.Pi/2, 1e-9) {
		t.Fatalf("angle after mirror %g, want π/2", r.Angle())
	}
	if !nearly(r.Path[2].Y, 600, 1e-6) {
		t.Fatalf("exit %+v", r.Path[2])
	}
}

func TestTraceLawOfReflection(t *testing.T) {
	for _, deg := range []Real{5, 15, 30, 45, 60, 75, 85} {
		s := mustScene(t, 800, 600)
		s.Add(must[*Box](t)(NewMirror(400, 300, 600, 4, 0)))
		th := degToRad(deg)
		d := Vector2{math.Sin(th), math.Cos(th)}
		hit := Point2{400, 298}
		start := hit.Add(d.Mul(-100))
		r := NewRay(start.X, start.Y, d.Angle())
		trace(t, s, r)
		if !ptNearly(r.Path[1], hit, 1e-6) {
			t.Fatalf("%g°: hit %+v", deg, r.Path[1])
		}
		N := Vector2{0, -1}
		in := math.Acos(-d.Dot(N))
		out := math.Acos(r.Direction().Dot(N))
		if !nearly(in, out, 1e-9) {
			t.Fatalf("%g°: incidence %g != reflection %g", deg, in, out)
		}
		if !nearly(r.Direction().X, d.X, 1e-9) {
			t.Fatalf("%g°: tangential component changed", deg)
		}
	}
}

func TestTraceGlassSlabStraightThrough(t *testing.T) {
	s := mustScene(t, 800, 600)
	s.Add(must[*Box](t)(NewBox(225, 100, 0, 1.5, 50, 100)))
	r := NewRay(0, 100, 0)
	trace(t, s, r)
	want := []Point2{{0, 100}, {200, 100}, {250, 100}, {800, 100}}
	if len(r.Path) != len(want) {
		t.Fatalf("path %+v", r.Path)
	}
	for i := range want {
		if !ptNearly(r.Path[i], want[i], 1e-9) {
			t.Fatalf("point %d: %+v want %+v", i, r.Path[i], want[i])
		}
	}
	if r.N() != 1 {
		t.Fatalf("ray should end in air, n=%g", r.N())
	}
	if !vecNearly(r.Direction(), Vector2{1, 0}, 1e-12) {
		t.Fatalf("direction %+v", r.Direction())
	}
}

func TestTraceSlabRoundTrip(t *testing.T) {
	for _, n := range []Real{1.33, 1.5, 2.0} {
		for _, deg := range []Real{10, 30, 50} {
			s := mustScene(t, 800, 600)
			s.Add(must[*Box](t)(NewBox(400, 300, 0, n, 700, 50)))
			th := degToRad(deg)
			d := Vector2{math.Sin(th), math.Cos(th)}
			r := NewRay(200, 100, d.Angle())
			trace(t, s, r)
			if len(r.Path) != 4 {
				t.Fatalf("n=%g %g°: path %+v", n, deg, r.Path)
			}
			if r.N() != 1 || !vecNearly(r.Direction(), d, 1e-9) {
				t.Fatalf("n=%g %g°: exit dir %+v want %+v (n=%g)", n, deg, r.Direction(), d, r.N())
			}
			// inside the slab the ray bends toward the normal
			in := r.Path[2].Sub(r.Path[1]).Norm()
			if !nearly(math.Sin(th), n*in.X, 1e-9) {
				t.Fatalf("n=%g %g°: Snell violated inside slab", n, deg)
			}
		}
	}
}

// hemisphere returns a plano-convex half disc whose flat face is centred
// on c, with the curved side below it.
func hemisphere(t *testing.T, c Point2, r, n Real) *PlanoConvexLens {
	t.Helper()
	return must[*PlanoConvexLens](t)(NewPlanoConvexLens(c.X, c.Y+r/2, 0, n, r, 0))
}

func TestTraceTotalInternalReflection(t *testing.T) {
	const n = 1.5
	crit := math.Asin(1 / n)
	centre := Point2{400, 250}
	for _, tc := range []struct {
		theta Real
		tir   bool
	}{
		{crit - degToRad(0.5), false},
		{crit + degToRad(0.5), true},
		{degToRad(20), false},
		{degToRad(60), true},
	} {
		s := mustScene(t, 800, 600)
		s.Add(hemisphere(t, centre, 100, n))
		d := Vector2{math.Sin(tc.theta), -math.Cos(tc.theta)}
		start := centre.Add(d.Mul(-150))
		r := NewRay(start.X, start.Y, d.Angle())
		trace(t, s, r)
		if len(r.Path) < 4 {
			t.Fatalf("θ=%g: path %+v", tc.theta, r.Path)
		}
		if !ptNearly(r.Path[2], centre, 1e-6) {
			t.Fatalf("θ=%g: flat face hit at %+v", tc.theta, r.Path[2])
		}
		back := r.Path[3].Y > centre.Y
		if back != tc.tir {
			t.Fatalf("θ=%g: tir=%v, path %+v", tc.theta, back, r.Path)
		}
		if r.N() != 1 {
			t.Fatalf("θ=%g: ray left in glass, n=%g", tc.theta, r.N())
		}
	}
}

func TestTraceTIRIsLogged(t *testing.T) {
	Debug = true
	defer func() { Debug = false }()
	ResetRayLog()
	defer ResetRayLog()

	s := mustScene(t, 800, 600)
	centre := Point2{400, 250}
	s.Add(hemisphere(t, centre, 100, 1.5))
	d := FromAngle(-math.Pi/2 + degToRad(60))
	start := centre.Add(d.Mul(-150))
	r := NewRay(start.X, start.Y, d.Angle())
	r.Name = "tir-probe"
	trace(t, s, r)
	if RayStats()[TIR] != 1 {
		t.Fatalf("expected one TIR event, stats %v", RayStats())
	}
	logs := RayLogs("tir-probe")
	if len(logs) == 0 || logs[len(logs)-1].Category != Miss {
		t.Fatalf("last event should be the boundary miss: %+v", logs)
	}
}

func TestTraceLensesFocusAndSpread(t *testing.T) {
	s := mustScene(t, 800, 600)
	s.Add(must[*PlanoConvexLens](t)(NewPlanoConvexLens(400, 300, -math.Pi/2, 1.5, 100, 10)))
	r := NewRay(0, 270, 0)
	trace(t, s, r)
	if r.Direction().Y <= 0 {
		t.Fatalf("convex lens should bend toward the axis, dir %+v", r.Direction())
	}
	// paraxial focus of a plano-convex lens is near R/(n-1) past the apex
	a, b := r.Path[len(r.Path)-2], r.Path[len(r.Path)-1]
	x := a.X + (300-a.Y)*(b.X-a.X)/(b.Y-a.Y)
	if x < 600 || x > 680 {
		t.Fatalf("axis crossing at x=%g", x)
	}

	s = mustScene(t, 800, 600)
	s.Add(must[*PlanoConcaveLens](t)(NewPlanoConcaveLens(400, 300, -math.Pi/2, 1.5, 100, 20)))
	r = NewRay(0, 270, 0)
	trace(t, s, r)
	if r.Direction().Y >= 0 {
		t.Fatalf("concave lens should spread the beam, dir %+v", r.Direction())
	}
	if !nearly(r.Path[1].X, 340, 1e-9) {
		t.Fatalf("flat face hit at %+v", r.Path[1])
	}
}

// axialLenses puts each finite-aperture lens at (400, 300) with its optical
// axis along +x.
func axialLenses(t *testing.T) []Element {
	t.Helper()
	rot := -math.Pi / 2
	return []Element{
		must[*ConvexLens](t)(NewConvexLens(400, 300, rot, 1.5, 80, 40, 6)),
		must[*ConcaveLens](t)(NewConcaveLens(400, 300, rot, 1.5, 80, 40, 6)),
		must[*CircPlanoConvexLens](t)(NewCircPlanoConvexLens(400, 300, rot, 1.5, 80, 40, 8)),
		must[*CircPlanoConcaveLens](t)(NewCircPlanoConcaveLens(400, 300, rot, 1.5, 80, 40, 8)),
	}
}

func TestTraceLensOnAxisIsUndeviated(t *testing.T) {
	for _, e := range axialLenses(t) {
		s := mustScene(t, 800, 600)
		s.Add(e)
		r := NewRay(0, 300, 0)
		trace(t, s, r)
		if len(r.Path) != 4 {
			t.Fatalf("%s: path %+v", e.Kind(), r.Path)
		}
		for _, p := range r.Path {
			if !nearly(p.Y, 300, 1e-9) {
				t.Fatalf("%s: left the axis at %+v", e.Kind(), p)
			}
		}
		if !vecNearly(r.Direction(), Vector2{1, 0}, 1e-9) || r.N() != 1 || r.Cause != HitBoundary {
			t.Fatalf("%s: dir %+v n=%g cause=%s", e.Kind(), r.Direction(), r.N(), r.Cause)
		}
		if !nearly(r.Path[3].X, 800, 1e-6) {
			t.Fatalf("%s: exit %+v", e.Kind(), r.Path[3])
		}
	}
}

func TestTraceLensOffAxisBends(t *testing.T) {
	for _, e := range axialLenses(t) {
		s := mustScene(t, 800, 600)
		s.Add(e)
		r := NewRay(0, 280, 0)
		trace(t, s, r)
		if len(r.Path) < 4 || r.N() != 1 || r.Cause != HitBoundary {
			t.Fatalf("%s: path %+v n=%g cause=%s", e.Kind(), r.Path, r.N(), r.Cause)
		}
		dy := r.Direction().Y
		switch e.Kind() {
		case KindConvex, KindCircPlanoConvex:
			if dy <= 1e-3 {
				t.Fatalf("%s: should converge toward the axis, dir %+v", e.Kind(), r.Direction())
			}
		default:
			if dy >= -1e-3 {
				t.Fatalf("%s: should diverge from the axis, dir %+v", e.Kind(), r.Direction())
			}
		}
	}
}

func TestTraceLensRimHit(t *testing.T) {
	l := must[*ConvexLens](t)(NewConvexLens(400, 300, -math.Pi/2, 1.5, 80, 40, 6))
	s := mustScene(t, 800, 600)
	s.Add(l)
	// straight down through the rim segments, normal incidence on both
	r := NewRay(400, 0, math.Pi/2)
	trace(t, s, r)
	want := []Point2{{400, 0}, {400, 260}, {400, 340}, {400, 600}}
	if len(r.Path) != len(want) {
		t.Fatalf("path %+v", r.Path)
	}
	for i := range want {
		if !ptNearly(r.Path[i], want[i], 1e-6) {
			t.Fatalf("point %d: %+v want %+v", i, r.Path[i], want[i])
		}
	}

	r = NewRay(400, 0, math.Pi/2)
	r.setBounds(s.Boundaries())
	r.extend()
	h, ok := l.Intersect(r)
	if !ok {
		t.Fatal("no hit")
	}
	if _, isLine := h.Curve.(*Line); !isLine {
		t.Fatalf("rim hit went to %T", h.Curve)
	}
}

func TestTraceLensRimArcJunction(t *testing.T) {
	l := must[*ConvexLens](t)(NewConvexLens(400, 300, -math.Pi/2, 1.5, 80, 40, 6))
	s := mustScene(t, 800, 600)
	s.Add(l)
	j := Point2{397, 260} // rim meets the left arc
	r := NewRay(0, 0, math.Atan2(j.Y, j.X))
	trace(t, s, r)
	if len(r.Path) < 4 || !ptNearly(r.Path[1], j, 1e-6) {
		t.Fatalf("path %+v", r.Path)
	}
	if r.Path[2].Dist(j) < r.Epsilon {
		t.Fatalf("junction hit twice: %+v", r.Path)
	}
	if !l.Contains(Point2{(r.Path[1].X + r.Path[2].X) / 2, (r.Path[1].Y + r.Path[2].Y) / 2}) {
		t.Fatalf("segment after the junction is not inside the lens: %+v", r.Path)
	}

	r = NewRay(0, 0, math.Atan2(j.Y, j.X))
	r.setBounds(s.Boundaries())
	r.extend()
	h, ok := l.Intersect(r)
	if !ok || !ptNearly(h.Point, j, 1e-6) {
		t.Fatalf("junction hit %+v ok=%v", h.Point, ok)
	}
	var touching bool
	for _, c := range l.Curves() {
		if c == h.Curve {
			touching = true
		}
	}
	if !touching {
		t.Fatalf("hit curve %T is not one of the lens curves", h.Curve)
	}
}

func TestTraceWallStopsRay(t *testing.T) {
	s := mustScene(t, 800, 600)
	s.Add(must[*Box](t)(NewWall(400, 100, 20, 100, 0)))
	r := NewRay(0, 100, 0)
	trace(t, s, r)
	if len(r.Path) != 2 || !nearly(r.Path[1].X, 390, 1e-9) {
		t.Fatalf("path %+v", r.Path)
	}
	if r.Cause != HitWall || r.HittingWinWall || r.HittingLoseWall {
		t.Fatalf("cause=%s win=%v lose=%v", r.Cause, r.HittingWinWall, r.HittingLoseWall)
	}
}

func TestTraceBudgetTerminatesBetweenMirrors(t *testing.T) {
	for _, limit := range []int{5, DefaultIntersectionLimit} {
		s := mustScene(t, 800, 600)
		s.Add(must[*Box](t)(NewMirror(300, 300, 10, 500, 0)))
		s.Add(must[*Box](t)(NewMirror(500, 300, 10, 500, 0.0005)))
		r := NewRay(400, 300, 0.001)
		r.IntersectionLimit = limit
		trace(t, s, r)
		if r.Cause != ExhaustedBudget {
			t.Fatalf("limit %d: cause %s", limit, r.Cause)
		}
		if len(r.Path) != limit+2 {
			t.Fatalf("limit %d: %d points", limit, len(r.Path))
		}
	}
}

func TestTraceResetsBetweenRuns(t *testing.T) {
	s := mustScene(t, 800, 600)
	s.Add(must[*Box](t)(NewWinWall(400, 100, 20, 100, 0)))
	r := NewRay(0, 100, 0)
	trace(t, s, r)
	if !r.HittingWinWall {
		t.Fatal("expected win")
	}
	trace(t, mustScene(t, 800, 600), r)
	if r.HittingWinWall || len(r.Path) != 2 || r.N() != 1 {
		t.Fatalf("state leaked between traces: %+v", r.Path)
	}
}

func TestTraceNoBoundariesFails(t *testing.T) {
	r := NewRay(0, 0, 0)
	if err := r.Trace(nil, nil); err == nil {
		t.Fatal("expected ErrEmptyPath without boundaries")
	}
}
