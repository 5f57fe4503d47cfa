package optics2d

import (
	"math"
	"sort"
)

type bvhLeaf struct {
	min, max Point2
	el       Element
}

type AABBNode struct {
	min, max Point2
	left     *AABBNode
	right    *AABBNode
	leafObjs []bvhLeaf // non-nil ⇒ leaf
}

// boxPad widens every leaf box so hits exactly on an element edge are not culled.
const boxPad = 1e-6

func collectLeaves(elements []Element) []bvhLeaf {
	out := make([]bvhLeaf, 0, len(elements))
	for _, e := range elements {
		if e == nil {
			continue
		}
		minP, maxP := e.Bounds()
		out = append(out, bvhLeaf{
			min: Point2{minP.X - boxPad, minP.Y - boxPad},
			max: Point2{maxP.X + boxPad, maxP.Y + boxPad},
			el:  e,
		})
	}
	return out
}

func buildBVH(elements []Element) *AABBNode {
	return buildBVHRec(collectLeaves(elements), 0)
}

func buildBVHRec(objs []bvhLeaf, depth int) *AABBNode {
	n := len(objs)
	if n == 0 {
		return nil
	}
	minP, maxP := objs[0].min, objs[0].max
	for i := 1; i < n; i++ {
		minP, maxP = aabbUnion(minP, maxP, objs[i].min, objs[i].max)
	}
	if n <= AABBBVHMaxLeafSize {
		return &AABBNode{min: minP, max: maxP, leafObjs: objs}
	}

	// split on the axis with the largest centroid spread, falling back to box extent
	cmin := centroid(objs[0])
	cmax := cmin
	for i := 1; i < n; i++ {
		c := centroid(objs[i])
		cmin = Point2{rmin(cmin.X, c.X), rmin(cmin.Y, c.Y)}
		cmax = Point2{rmax(cmax.X, c.X), rmax(cmax.Y, c.Y)}
	}
	spread := cmax.Sub(cmin)
	if spread.X <= 1e-18 && spread.Y <= 1e-18 {
		spread = maxP.Sub(minP)
	}
	axisY := spread.Y > spread.X

	sort.SliceStable(objs, func(i, j int) bool {
		ci, cj := centroid(objs[i]), centroid(objs[j])
		if axisY {
			return ci.Y < cj.Y
		}
		return ci.X < cj.X
	})
	mid := n / 2
	return &AABBNode{
		min:   minP,
		max:   maxP,
		left:  buildBVHRec(objs[:mid], depth+1),
		right: buildBVHRec(objs[mid:], depth+1),
	}
}

func centroid(o bvhLeaf) Point2 {
	return Point2{(o.min.X + o.max.X) * 0.5, (o.min.Y + o.max.Y) * 0.5}
}

// depth returns the height of the tree, used by debug output and tests.
func (n *AABBNode) depth() int {
	if n == nil {
		return 0
	}
	return 1 + imax(n.left.depth(), n.right.depth())
}

// nearestHitBVH builds the tree once and returns a finder that traverses it.
func nearestHitBVH(elements []Element) nearestHitFunc {
	root := buildBVH(elements)
	DebugLog("BVH over %d elements, depth %d", len(elements), root.depth())
	return func(r *Ray) (Intersection, bool) {
		return traverseNearest(root, r)
	}
}

// traverseNearest is an iterative, stack-based nearest-hit search pruned by the current best distance.
func traverseNearest(root *AABBNode, r *Ray) (Intersection, bool) {
	if root == nil {
		return Intersection{}, false
	}
	O := r.pos
	D := r.far.Sub(r.pos)
	segLen := D.Len()
	if segLen == 0 {
		return Intersection{}, false
	}
	rr := computeRayRecips(D)
	bestT := Real(1) // parameter along D; 1 is the far end
	var best Intersection
	found := false

	type entry struct {
		n    *AABBNode
		tmin Real
	}
	stack := []entry{{n: root}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		ok, tmin := rayAABB(O, e.n.min, e.n.max, rr)
		if !ok || tmin > bestT {
			continue
		}

		if e.n.leafObjs != nil {
			for i := range e.n.leafObjs {
				h, ok := e.n.leafObjs[i].el.Intersect(r)
				if !ok {
					continue
				}
				if t := h.Dist / segLen; !found || t < bestT {
					bestT, best, found = t, h, true
				}
			}
			continue
		}

		// order children near→far (push far first so near is processed next)
		var lOK, rOK bool
		var lT, rT Real
		if e.n.left != nil {
			lOK, lT = rayAABB(O, e.n.left.min, e.n.left.max, rr)
			lOK = lOK && lT <= bestT
		}
		if e.n.right != nil {
			rOK, rT = rayAABB(O, e.n.right.min, e.n.right.max, rr)
			rOK = rOK && rT <= bestT
		}
		switch {
		case lOK && rOK:
			if lT < rT {
				stack = append(stack, entry{e.n.right, rT}, entry{e.n.left, lT})
			} else {
				stack = append(stack, entry{e.n.left, lT}, entry{e.n.right, rT})
			}
		case lOK:
			stack = append(stack, entry{e.n.left, lT})
		case rOK:
			stack = append(stack, entry{e.n.right, rT})
		}
	}
	if found && bestT < Real(math.Inf(1)) {
		return best, true
	}
	return Intersection{}, false
}
