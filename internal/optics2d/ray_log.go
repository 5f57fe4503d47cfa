package optics2d

import (
	"sort"
	"sync"
)

type Category uint8

const (
	Hit             Category = iota // ray hit an element
	Miss                            // ray left through the boundary
	Absorb                          // ray stopped at a wall
	Reflect                         // ray reflected off a mirror
	Refract                         // ray refracted into or out of a dielectric
	TIR                             // total internal reflection
	RecurrenceLimit                 // intersection budget exhausted
)

var categoryNames = [...]string{"hit", "miss", "absorb", "reflect", "refract", "tir", "recurrence_limit"}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

type RayLog struct {
	Name      string
	Category  Category
	Origin    Point2
	Direction Vector2
	Point     Point2 // hit point, if any
	Bounce    int    // event number within the trace
	Distance  Real   // distance travelled on this leg
}

type RayLogCache struct {
	mu   sync.Mutex
	rays map[string][]RayLog // map of ray name to logs
}

var cache = &RayLogCache{
	rays: make(map[string][]RayLog),
}

func logRay(name string, category Category, origin Point2, direction Vector2, point Point2, bounce int, distance Real) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.rays[name] = append(cache.rays[name], RayLog{
		Name:      name,
		Category:  category,
		Origin:    origin,
		Direction: direction,
		Point:     point,
		Bounce:    bounce,
		Distance:  distance,
	})
}

// RayLogs returns a copy of the events recorded for one ray.
func RayLogs(name string) []RayLog {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return append([]RayLog(nil), cache.rays[name]...)
}

// ResetRayLog drops every recorded event.
func ResetRayLog() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.rays = make(map[string][]RayLog)
}

// RayStats counts recorded events per category across all rays.
func RayStats() map[Category]int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	out := make(map[Category]int)
	for _, logs := range cache.rays {
		for _, l := range logs {
			out[l.Category]++
		}
	}
	return out
}

// logRayStats writes per-ray event counts to the package logger.
func logRayStats() {
	cache.mu.Lock()
	names := make([]string, 0, len(cache.rays))
	for k := range cache.rays {
		names = append(names, k)
	}
	counts := make(map[string]int, len(names))
	for _, k := range names {
		counts[k] = len(cache.rays[k])
	}
	cache.mu.Unlock()
	sort.Strings(names)
	for _, k := range names {
		Logger().Debug("ray events", "ray", k, "count", counts[k])
	}
}
