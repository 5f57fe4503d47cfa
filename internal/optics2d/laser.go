package optics2d

import (
	"errors"
	"fmt"
	"math"
)

// Laser emits NumRays parallel rays at Rotation, spread over height H
// perpendicular to the beam.
type Laser struct {
	Pos      Point2
	H        Real
	Rotation Real
	NumRays  int
	Rays     []*Ray
}

// Outcome aggregates a shot. Lose wins over everything; Win needs every ray.
type Outcome struct {
	Win      bool `json:"win"`
	Lose     bool `json:"lose"`
	Rays     int  `json:"rays"`
	WinRays  int  `json:"winRays"`
	LoseRays int  `json:"loseRays"`
}

func (o Outcome) String() string {
	switch {
	case o.Lose:
		return "LOSE"
	case o.Win:
		return "WIN"
	default:
		return "OPEN"
	}
}

func NewLaser(x, y, h, rotation Real, numRays int) (*Laser, error) {
	if numRays < 1 {
		return nil, errors.New("laser needs at least one ray")
	}
	if h < 0 || !isFinite(h) || !isFinite(x) || !isFinite(y) || !isFinite(rotation) {
		return nil, fmt.Errorf("%w: laser at (%g, %g) h=%g rot=%g", ErrInvalidGeometry, x, y, h, rotation)
	}
	l := &Laser{Pos: Point2{x, y}, H: h, Rotation: NormalizeAngle(rotation), NumRays: numRays}
	l.generate()
	return l, nil
}

// generate rebuilds the fan: ray i starts i*H/NumRays from the laser
// position, perpendicular to the beam.
func (l *Laser) generate() {
	sp := l.H / Real(l.NumRays)
	s, c := math.Sincos(l.Rotation)
	l.Rays = make([]*Ray, l.NumRays)
	for i := range l.Rays {
		fi := Real(i)
		r := NewRay(l.Pos.X-fi*sp*s, l.Pos.Y+fi*sp*c, l.Rotation)
		r.Name = fmt.Sprintf("laser#%d", i)
		l.Rays[i] = r
	}
}

func (l *Laser) SetPosition(p Point2) {
	l.Pos = p
	l.generate()
}

func (l *Laser) SetRotation(a Real) {
	l.Rotation = NormalizeAngle(a)
	l.generate()
}

// Configure overrides the trace budget and epsilon of every ray.
func (l *Laser) Configure(limit int, eps Real) {
	for _, r := range l.Rays {
		r.IntersectionLimit = limit
		if eps > 0 {
			r.Epsilon = eps
		}
	}
}

// Shoot traces every ray against the same scene and applies the unanimity rule.
func (l *Laser) Shoot(elements []Element, boundaries []*Line) Outcome {
	nearest := newNearestHit(elements)
	for _, r := range l.Rays {
		if err := r.trace(nearest, boundaries); err != nil {
			Logger().Warn("ray trace incomplete", "ray", r.Name, "err", err)
		}
	}
	out := l.outcome()
	DebugLog("laser %+v: %s (%d/%d win, %d lose)", l.Pos, out, out.WinRays, out.Rays, out.LoseRays)
	return out
}

func (l *Laser) outcome() Outcome {
	out := Outcome{Rays: len(l.Rays)}
	for _, r := range l.Rays {
		if r.HittingLoseWall {
			out.LoseRays++
		}
		if r.HittingWinWall {
			out.WinRays++
		}
	}
	if out.LoseRays > 0 {
		out.Lose = true
		return out
	}
	out.Win = out.Rays > 0 && out.WinRays == out.Rays
	return out
}

// Paths returns a copy of every ray path from the last shot.
func (l *Laser) Paths() [][]Point2 {
	out := make([][]Point2, len(l.Rays))
	for i, r := range l.Rays {
		out[i] = append([]Point2(nil), r.Path...)
	}
	return out
}

func (l *Laser) Clone() *Laser {
	c := *l
	c.generate()
	for i, r := range l.Rays {
		c.Rays[i].IntersectionLimit = r.IntersectionLimit
		c.Rays[i].Epsilon = r.Epsilon
	}
	return &c
}
