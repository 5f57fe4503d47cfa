package optics2d

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"
)

// Canvas is the subset of *gg.Context the renderer draws with.
type Canvas interface {
	ClearWithColor(c gg.RGBA)
	SetHexColor(hex string)
	SetLineWidth(w float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	DrawArc(x, y, r, angle1, angle2 float64)
	Fill() error
	Stroke() error
}

const (
	rayColor      = "#ff3300"
	boundaryColor = "#333333"
	laserColor    = "#000000"
)

type palette struct{ fill, stroke string }

func paletteFor(e Element) palette {
	switch {
	case e.N() < 0 && e.Wall() == WallWin:
		return palette{"#33cc33", "#1f7a1f"}
	case e.N() < 0 && e.Wall() == WallLose:
		return palette{"#ff0000", "#990000"}
	case e.N() < 0:
		return palette{"#4d4d4d", "#262626"}
	case e.N() == 0:
		return palette{"#a3c2c2", "#d1e0e0"}
	default:
		return palette{"#ccffcc", "#33cccc"}
	}
}

// Render draws the boundary, every element, the laser and the given ray paths.
func Render(c Canvas, s *Scene, paths [][]Point2) error {
	c.ClearWithColor(gg.White)
	var errs []error

	c.SetHexColor(boundaryColor)
	c.SetLineWidth(2)
	for _, b := range s.Boundaries() {
		c.MoveTo(b.A.X, b.A.Y)
		c.LineTo(b.B.X, b.B.Y)
	}
	errs = append(errs, c.Stroke())

	for _, e := range s.Elements() {
		errs = append(errs, drawElement(c, e))
	}

	if s.Laser != nil {
		l := s.Laser
		first := l.Rays[0].Origin
		last := l.Rays[len(l.Rays)-1].Origin
		c.SetHexColor(laserColor)
		c.SetLineWidth(4)
		c.MoveTo(first.X, first.Y)
		c.LineTo(last.X, last.Y)
		errs = append(errs, c.Stroke())
	}

	c.SetHexColor(rayColor)
	c.SetLineWidth(1)
	for _, p := range paths {
		if len(p) < 2 {
			continue
		}
		c.MoveTo(p[0].X, p[0].Y)
		for _, q := range p[1:] {
			c.LineTo(q.X, q.Y)
		}
		errs = append(errs, c.Stroke())
	}
	return errors.Join(errs...)
}

func drawElement(c Canvas, e Element) error {
	pal := paletteFor(e)
	out := e.Outline()
	if len(out) < 3 {
		return nil
	}
	c.SetHexColor(pal.fill)
	c.MoveTo(out[0].X, out[0].Y)
	for _, p := range out[1:] {
		c.LineTo(p.X, p.Y)
	}
	c.ClosePath()
	if err := c.Fill(); err != nil {
		return fmt.Errorf("fill %s %s: %w", e.Kind(), e.ID(), err)
	}

	c.SetHexColor(pal.stroke)
	c.SetLineWidth(1.5)
	for _, cv := range e.Curves() {
		switch v := cv.(type) {
		case *Line:
			c.MoveTo(v.A.X, v.A.Y)
			c.LineTo(v.B.X, v.B.Y)
		case *Arc:
			c.MoveTo(v.P1.X, v.P1.Y)
			c.DrawArc(v.Center.X, v.Center.Y, v.R, v.Start, v.Start+v.Extent)
		}
	}
	if err := c.Stroke(); err != nil {
		return fmt.Errorf("stroke %s %s: %w", e.Kind(), e.ID(), err)
	}
	return nil
}

// newContext sizes the canvas to the world; drawing is 1:1 in world units.
func newContext(s *Scene) *gg.Context {
	return gg.NewContext(int(math.Ceil(s.Width)), int(math.Ceil(s.Height)))
}

// RenderPNG renders the scene and paths to a PNG file.
func RenderPNG(s *Scene, paths [][]Point2, path string) error {
	dc := newContext(s)
	defer func() { _ = dc.Close() }()
	if err := Render(dc, s, paths); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	DebugLog("saved %s", path)
	return nil
}

// EncodePNG renders the scene and paths as PNG into w.
func EncodePNG(w io.Writer, s *Scene, paths [][]Point2) error {
	dc := newContext(s)
	defer func() { _ = dc.Close() }()
	if err := Render(dc, s, paths); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return dc.EncodePNG(w)
}
