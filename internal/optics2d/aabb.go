package optics2d

type rayRecips struct {
	invX, invY Real
	parX, parY bool // parallel flags (|D| < eps)
}

func computeRayRecips(d Vector2) rayRecips {
	rr := rayRecips{}
	if x := d.X; x > parEps || x < -parEps {
		rr.invX = 1 / x
	} else {
		rr.parX = true
	}
	if y := d.Y; y > parEps || y < -parEps {
		rr.invY = 1 / y
	} else {
		rr.parY = true
	}
	return rr
}

// rayAABB is the slab test. It returns the entry parameter along D, clamped
// to 0 when O is already inside the box.
func rayAABB(O Point2, minP, maxP Point2, rr rayRecips) (bool, Real) {
	tmin, tmax := -1e300, 1e300

	if !rr.parX {
		t1 := (minP.X - O.X) * rr.invX
		t2 := (maxP.X - O.X) * rr.invX
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = rmax(tmin, t1)
		tmax = rmin(tmax, t2)
	} else if O.X < minP.X || O.X > maxP.X {
		return false, 0
	}

	if !rr.parY {
		t1 := (minP.Y - O.Y) * rr.invY
		t2 := (maxP.Y - O.Y) * rr.invY
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = rmax(tmin, t1)
		tmax = rmin(tmax, t2)
	} else if O.Y < minP.Y || O.Y > maxP.Y {
		return false, 0
	}

	if tmax < 0 || tmin > tmax {
		return false, 0
	}
	return true, rmax(tmin, 0)
}

func aabbUnion(aMin, aMax, bMin, bMax Point2) (Point2, Point2) {
	return Point2{rmin(aMin.X, bMin.X), rmin(aMin.Y, bMin.Y)},
		Point2{rmax(aMax.X, bMax.X), rmax(aMax.Y, bMax.Y)}
}
