package optics2d

// nearestHitFunc returns the closest element intersection along the ray's
// current segment (position to far end).
type nearestHitFunc func(r *Ray) (Intersection, bool)

// newNearestHit picks the linear scan or the BVH depending on scene size and flags.
func newNearestHit(elements []Element) nearestHitFunc {
	if NeverBVH || (!AlwaysBVH && len(elements) < AABBBVHFromNObjects) {
		return nearestHitLinear(elements)
	}
	return nearestHitBVH(elements)
}

func nearestHitLinear(elements []Element) nearestHitFunc {
	return func(r *Ray) (Intersection, bool) {
		var (
			best  Intersection
			found bool
		)
		for _, e := range elements {
			h, ok := e.Intersect(r)
			if !ok {
				continue
			}
			if !found || h.Dist < best.Dist {
				best, found = h, true
			}
		}
		return best, found
	}
}
