package optics2d

import (
	"fmt"
	"math"
)

// Scene is the ordered element list (z-order) plus the playfield boundary.
type Scene struct {
	Width, Height Real
	Laser         *Laser

	elements   []Element
	boundaries []*Line
	pick       *pickIndex // nil ⇒ rebuild on next lookup
}

// NewScene creates an empty scene with boundaries around [0,w]x[0,h].
func NewScene(w, h Real) (*Scene, error) {
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("%w: scene size %gx%g", ErrInvalidGeometry, w, h)
	}
	s := &Scene{Width: w, Height: h, boundaries: Boundaries(w, h)}
	DebugLog("new scene %gx%g", w, h)
	return s, nil
}

// Elements returns the element list in z-order. The slice is a copy; the
// elements are shared.
func (s *Scene) Elements() []Element { return append([]Element(nil), s.elements...) }

// Boundaries returns the four playfield segments: top, left, right, bottom.
func (s *Scene) Boundaries() []*Line { return s.boundaries }

func (s *Scene) Len() int { return len(s.elements) }

func (s *Scene) Add(e Element) {
	s.elements = append(s.elements, e)
	s.Invalidate()
	DebugLog("scene add %s %s", e.Kind(), e.ID())
}

// Remove deletes the element with the given ID.
func (s *Scene) Remove(id string) error {
	for i, e := range s.elements {
		if e.ID() == id {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			s.Invalidate()
			return nil
		}
	}
	return fmt.Errorf("%w: id %s", ErrUnknownElement, id)
}

func (s *Scene) Find(id string) (Element, bool) {
	for _, e := range s.elements {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

// Invalidate must be called after an element is moved, rotated or resized in place.
func (s *Scene) Invalidate() { s.pick = nil }

// ElementAt returns the top-most element containing p.
func (s *Scene) ElementAt(p Point2) (Element, bool) {
	if s.pick == nil {
		s.pick = newPickIndex(s.elements)
	}
	return s.pick.at(p)
}

func (s *Scene) SetLaser(l *Laser) { s.Laser = l }

// Shoot fires the laser through the scene.
func (s *Scene) Shoot() (Outcome, error) {
	if s.Laser == nil {
		return Outcome{}, ErrNoLaser
	}
	return s.Laser.Shoot(s.elements, s.boundaries), nil
}

// Paths returns the ray paths of the last shot.
func (s *Scene) Paths() [][]Point2 {
	if s.Laser == nil {
		return nil
	}
	return s.Laser.Paths()
}

// Clone deep-copies elements and laser. Element IDs are preserved.
func (s *Scene) Clone() *Scene {
	c := &Scene{Width: s.Width, Height: s.Height, boundaries: Boundaries(s.Width, s.Height)}
	c.elements = make([]Element, len(s.elements))
	for i, e := range s.elements {
		c.elements[i] = e.Clone()
	}
	if s.Laser != nil {
		c.Laser = s.Laser.Clone()
	}
	return c
}
