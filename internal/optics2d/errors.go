package optics2d

import "errors"

var (
	ErrInvalidIndex     = errors.New("refractive index must be < 0 (wall), 0 (mirror) or >= 1")
	ErrInvalidArc       = errors.New("invalid arc")
	ErrInvalidGeometry  = errors.New("invalid element geometry")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrUnknownElement   = errors.New("unknown element")
	ErrUnknownLevel     = errors.New("unknown level")
	ErrNoLaser          = errors.New("scene has no laser")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrNothingToRedo    = errors.New("nothing to redo")
	ErrEmptyPath        = errors.New("ray path could not be closed at the boundary")
)
