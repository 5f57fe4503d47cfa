package optics2d

import (
	polyclip "github.com/akavel/polyclip-go"
)

// Overlap names two elements whose outlines intersect.
type Overlap struct {
	A, B string
	Area Real
}

func contourOf(e Element) polyclip.Contour {
	pts := e.Outline()
	c := make(polyclip.Contour, len(pts))
	for i, p := range pts {
		c[i] = polyclip.Point{X: p.X, Y: p.Y}
	}
	return c
}

// contourArea is the shoelace area of a closed contour.
func contourArea(c polyclip.Contour) Real {
	var a Real
	for i := range c {
		j := (i + 1) % len(c)
		a += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	if a < 0 {
		a = -a
	}
	return a / 2
}

// Overlaps reports every pair of elements whose outlines share more than minArea.
func (s *Scene) Overlaps(minArea Real) []Overlap {
	polys := make([]polyclip.Polygon, len(s.elements))
	for i, e := range s.elements {
		polys[i] = polyclip.Polygon{contourOf(e)}
	}
	var out []Overlap
	for i := 0; i < len(polys); i++ {
		for j := i + 1; j < len(polys); j++ {
			if !polys[i].BoundingBox().Overlaps(polys[j].BoundingBox()) {
				continue
			}
			var area Real
			for _, c := range polys[i].Construct(polyclip.INTERSECTION, polys[j]) {
				area += contourArea(c)
			}
			if area > minArea {
				out = append(out, Overlap{A: s.elements[i].ID(), B: s.elements[j].ID(), Area: area})
			}
		}
	}
	return out
}
