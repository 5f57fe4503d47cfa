package optics2d

import "math"

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func rmin(a, b Real) Real {
	if a < b {
		return a
	}
	return b
}

func rmax(a, b Real) Real {
	if a > b {
		return a
	}
	return b
}

// approxEq reports whether a and b differ by less than eps.
func approxEq(a, b, eps Real) bool { return math.Abs(a-b) < eps }

// mod is the always non-negative remainder, ((n % m) + m) % m.
func mod(n, m Real) Real {
	return math.Mod(math.Mod(n, m)+m, m)
}

// NormalizeAngle maps any angle into [0, 2π).
func NormalizeAngle(a Real) Real {
	r := mod(a, 2*math.Pi)
	if r >= 2*math.Pi {
		r = 0
	}
	return r
}

func degToRad(d Real) Real { return d * math.Pi / 180 }

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
