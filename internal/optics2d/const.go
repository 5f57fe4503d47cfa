package optics2d

// Real is the scalar type used for all geometry.
type Real = float64

const (
	WorldWidth               = 1285
	WorldHeight              = 647
	DefaultIntersectionLimit = 50
	DefaultEpsilon           = 1e-3 // world units; hits closer than this to the ray start are ignored
	GlassIndex               = 1.33
	LensIndex                = 1.5
	AABBBVHMaxLeafSize       = 2
	AABBBVHFromNObjects      = 8 // minimum number of elements to use BVH of AABBs, otherwise iterate all elements
	outlineArcSamples        = 24
	PNGOut                   = "optics2d.png"
	ServerAddr               = ":8080"
	// hot-loop constants
	parEps     = 1e-18
	degenerate = 1e-12
)
