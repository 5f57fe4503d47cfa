package optics2d

import "fmt"

// Box is a rectangle of width W (along the rotation) and height H centred on
// its position. Mirrors, glass blocks and walls are boxes with a fixed index.
type Box struct {
	pose
	kind  Kind
	wall  WallKind
	W, H  Real
	lines []*Line
}

// NewBox builds a generic box; its kind follows from n.
func NewBox(x, y, rotation, n, w, h Real) (*Box, error) {
	kind := KindBox
	switch r, _ := RoleOf(n); {
	case n < 0:
		kind = KindWall
	case r == RoleMirror:
		kind = KindMirror
	}
	return newBox(kind, WallNone, x, y, rotation, n, w, h)
}

func NewMirror(x, y, w, h, rotation Real) (*Box, error) {
	return newBox(KindMirror, WallNone, x, y, rotation, 0, w, h)
}

func NewGlassBox(x, y, w, h, rotation Real) (*Box, error) {
	return newBox(KindGlassBox, WallNone, x, y, rotation, GlassIndex, w, h)
}

func NewWall(x, y, w, h, rotation Real) (*Box, error) {
	return newBox(KindWall, WallNone, x, y, rotation, -1, w, h)
}

func NewWinWall(x, y, w, h, rotation Real) (*Box, error) {
	return newBox(KindWinWall, WallWin, x, y, rotation, -1, w, h)
}

func NewLoseWall(x, y, w, h, rotation Real) (*Box, error) {
	return newBox(KindLoseWall, WallLose, x, y, rotation, -1, w, h)
}

func newBox(kind Kind, wall WallKind, x, y, rotation, n, w, h Real) (*Box, error) {
	p, err := newPose(x, y, rotation, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	if err := checkBoxSize(w, h); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	b := &Box{pose: p, kind: kind, wall: wall, W: w, H: h}
	b.generate()
	DebugLog("new %s %s at (%g, %g) rot=%g n=%g w=%g h=%g", kind, b.id, x, y, b.rot, n, w, h)
	return b, nil
}

// boxKindFor keeps the kind in step with an edited index: n=0 is a mirror and
// a mirror given a refractive index becomes a glass block.
func boxKindFor(k Kind, n Real) Kind {
	switch {
	case n == 0:
		return KindMirror
	case k == KindMirror:
		return KindGlassBox
	}
	return k
}

func checkBoxSize(w, h Real) error {
	if !(w > 0) || !(h > 0) || !isFinite(w) || !isFinite(h) {
		return fmt.Errorf("%w: box size %gx%g", ErrInvalidGeometry, w, h)
	}
	return nil
}

// generate rebuilds the four sides, wound so that every line normal faces out.
func (b *Box) generate() {
	hw, hh := b.W/2, b.H/2
	p1 := b.toWorld(-hw, -hh)
	p2 := b.toWorld(-hw, hh)
	p3 := b.toWorld(hw, hh)
	p4 := b.toWorld(hw, -hh)
	b.lines = []*Line{NewLine(p1, p2), NewLine(p2, p3), NewLine(p3, p4), NewLine(p4, p1)}
}

func (b *Box) Kind() Kind      { return b.kind }
func (b *Box) Wall() WallKind  { return b.wall }
func (b *Box) Curves() []Curve { return linesToCurves(b.lines) }
func (b *Box) Lines() []*Line  { return b.lines }

func (b *Box) SetPosition(p Point2) {
	b.pos = p
	b.generate()
}

func (b *Box) SetRotation(a Real) {
	b.rot = NormalizeAngle(a)
	b.generate()
}

func (b *Box) Intersect(r *Ray) (Intersection, bool) {
	p, c, d, ok := nearestOnCurves(b.Curves(), r.pos, r.far, r.Epsilon)
	if !ok {
		return Intersection{}, false
	}
	return Intersection{Point: p, Dist: d, Curve: c, Element: b}, true
}

func (b *Box) NormalAt(c Curve, p Point2) Vector2 { return c.Normal(p) }

func (b *Box) Outline() []Point2 {
	out := make([]Point2, 0, len(b.lines))
	for _, l := range b.lines {
		out = append(out, l.A)
	}
	return out
}

func (b *Box) Contains(p Point2) bool { return pointInPolygon(b.Outline(), p) }

func (b *Box) Bounds() (Point2, Point2) { return outlineBounds(b.Outline()) }

func (b *Box) Attributes() []string {
	if b.wall != WallNone || b.kind == KindWall {
		return []string{"w", "h"}
	}
	return []string{"w", "h", "n"}
}

func (b *Box) Attribute(key string) (Real, error) {
	switch key {
	case "w":
		return b.W, nil
	case "h":
		return b.H, nil
	case "n":
		return b.n, nil
	}
	return 0, fmt.Errorf("%w: %s has no %q", ErrUnknownAttribute, b.kind, key)
}

func (b *Box) UpdateAttribute(key string, v Real) error {
	switch key {
	case "w":
		if err := checkBoxSize(v, b.H); err != nil {
			return err
		}
		b.W = v
	case "h":
		if err := checkBoxSize(b.W, v); err != nil {
			return err
		}
		b.H = v
	case "n":
		if b.kind == KindWall || b.wall != WallNone {
			return fmt.Errorf("%w: %s index is fixed", ErrUnknownAttribute, b.kind)
		}
		if err := checkIndexEdit(v); err != nil {
			return err
		}
		b.n = v
		b.kind = boxKindFor(b.kind, v)
	default:
		return fmt.Errorf("%w: %s has no %q", ErrUnknownAttribute, b.kind, key)
	}
	b.generate()
	return nil
}

func (b *Box) Clone() Element {
	c := *b
	c.generate()
	return &c
}
