package optics2d

import (
	"github.com/dhconnelly/rtreego"
)

// pickIndex is an R-tree over element bounds for point lookups.
type pickIndex struct {
	tree  *rtreego.Rtree
	order map[string]int // element ID -> z-order
}

type pickEntry struct {
	el   Element
	rect rtreego.Rect
}

func (p *pickEntry) Bounds() rtreego.Rect { return p.rect }

func newPickIndex(elements []Element) *pickIndex {
	idx := &pickIndex{order: make(map[string]int, len(elements))}
	spatials := make([]rtreego.Spatial, 0, len(elements))
	for i, e := range elements {
		minP, maxP := e.Bounds()
		rect, err := rtreego.NewRect(
			rtreego.Point{minP.X, minP.Y},
			[]float64{rmax(maxP.X-minP.X, 0.01), rmax(maxP.Y-minP.Y, 0.01)},
		)
		if err != nil {
			Logger().Warn("element not indexed for picking", "id", e.ID(), "err", err)
			continue
		}
		idx.order[e.ID()] = i
		spatials = append(spatials, &pickEntry{el: e, rect: rect})
	}
	idx.tree = rtreego.NewTree(2, 25, 50, spatials...)
	return idx
}

// at returns the highest z-order element whose outline contains p.
func (p *pickIndex) at(pt Point2) (Element, bool) {
	bb, err := rtreego.NewRect(rtreego.Point{pt.X - 0.005, pt.Y - 0.005}, []float64{0.01, 0.01})
	if err != nil {
		return nil, false
	}
	var (
		best  Element
		bestZ = -1
	)
	for _, sp := range p.tree.SearchIntersect(bb) {
		e := sp.(*pickEntry).el
		if z := p.order[e.ID()]; z > bestZ && e.Contains(pt) {
			best, bestZ = e, z
		}
	}
	return best, best != nil
}
