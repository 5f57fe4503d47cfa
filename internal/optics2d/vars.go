package optics2d

import "github.com/gogpu/gg"

var (
	Debug             = false // set to true for verbose debug output and per-ray event logs
	AlwaysBVH         = false // set to true to always use BVH for nearest hit calculations
	NeverBVH          = false // set to true to never use BVH for nearest hit calculations
	IntersectionLimit = DefaultIntersectionLimit
	Epsilon           = Real(DefaultEpsilon)
	// Compile time checks to ensure that all element types implement Element
	_ Element = (*Box)(nil)
	_ Element = (*PlanoConvexLens)(nil)
	_ Element = (*PlanoConcaveLens)(nil)
	_ Element = (*CircPlanoConvexLens)(nil)
	_ Element = (*CircPlanoConcaveLens)(nil)
	_ Element = (*ConvexLens)(nil)
	_ Element = (*ConcaveLens)(nil)
	_ Curve   = (*Line)(nil)
	_ Curve   = (*Arc)(nil)
	_ Canvas  = (*gg.Context)(nil)
)
