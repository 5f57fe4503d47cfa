package optics2d

import "fmt"

// Role is the optical behaviour selected by an element's refractive index.
type Role uint8

const (
	RoleWall       Role = iota // n < 0: opaque terminator
	RoleMirror                 // n == 0: ideal reflector
	RoleDielectric             // n >= 1: refracts, may totally internally reflect
)

func (r Role) String() string {
	switch r {
	case RoleWall:
		return "wall"
	case RoleMirror:
		return "mirror"
	case RoleDielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// RoleOf classifies n; indices strictly between 0 and 1 are rejected.
func RoleOf(n Real) (Role, error) {
	switch {
	case !isFinite(n):
		return 0, fmt.Errorf("%w: %g", ErrInvalidIndex, n)
	case n < 0:
		return RoleWall, nil
	case n == 0:
		return RoleMirror, nil
	case n >= 1:
		return RoleDielectric, nil
	default:
		return 0, fmt.Errorf("%w: %g", ErrInvalidIndex, n)
	}
}

// checkIndexEdit validates an edited index. Walls are their own kinds, so an
// edit never turns a box or lens into one.
func checkIndexEdit(n Real) error {
	if _, err := RoleOf(n); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: use a wall instead of n=%g", ErrInvalidIndex, n)
	}
	return nil
}

// WallKind distinguishes terminal walls.
type WallKind uint8

const (
	WallNone WallKind = iota
	WallWin
	WallLose
)

func (w WallKind) String() string {
	switch w {
	case WallNone:
		return "plain"
	case WallWin:
		return "win"
	case WallLose:
		return "lose"
	default:
		return fmt.Sprintf("wallkind(%d)", uint8(w))
	}
}
