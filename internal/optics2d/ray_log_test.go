package optics2d

import (
	"sync"
	"testing"
)

func TestRayLogConcurrent(t *testing.T) {
	ResetRayLog()
	defer ResetRayLog()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				logRay("r", Hit, Point2{}, Vector2{1, 0}, Point2{1, 0}, j, 1)
			}
		}()
	}
	wg.Wait()
	if got := len(RayLogs("r")); got != 800 {
		t.Fatalf("expected 800 events, got %d", got)
	}
	if RayStats()[Hit] != 800 {
		t.Fatalf("stats %v", RayStats())
	}
	logRayStats()
}

func TestRayLogDisabledWithoutDebug(t *testing.T) {
	ResetRayLog()
	defer ResetRayLog()
	Debug = false
	r := NewRay(0, 50, 0)
	r.Name = "quiet"
	if err := r.Trace(nil, Boundaries(100, 100)); err != nil {
		t.Fatal(err)
	}
	if len(RayLogs("quiet")) != 0 {
		t.Fatal("events recorded with Debug off")
	}
}

func TestCategoryString(t *testing.T) {
	if TIR.String() != "tir" || RecurrenceLimit.String() != "recurrence_limit" || Category(99).String() != "unknown" {
		t.Fatal("category names wrong")
	}
}
