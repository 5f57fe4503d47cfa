package optics2d

import (
	"context"
	"os"
	"time"
)

// Result is what a single CLI run produced.
type Result struct {
	Outcome  Outcome
	Paths    [][]Point2
	Overlaps []Overlap
	Elapsed  time.Duration
}

// Run loads the config, builds the scene, fires the laser once and renders a PNG.
func Run(cfgPath string) (*Result, error) {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg.Apply()
	scene, err := cfg.BuildScene()
	if err != nil {
		return nil, err
	}
	if scene.Laser != nil {
		scene.Laser.Configure(cfg.Trace.IntersectionLimit, cfg.Trace.Epsilon)
	}
	overlaps := scene.Overlaps(1)
	for _, o := range overlaps {
		Logger().Warn("elements overlap", "a", o.A, "b", o.B, "area", o.Area)
	}

	start := time.Now()
	out, err := scene.Shoot()
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	DebugLog("shot %d rays in %s: %s", out.Rays, elapsed, out)
	if Debug {
		logRayStats()
	}

	paths := scene.Paths()
	if cfg.Render.Out != "" {
		if err := RenderPNG(scene, paths, cfg.Render.Out); err != nil {
			return nil, err
		}
	}
	return &Result{Outcome: out, Paths: paths, Overlaps: overlaps, Elapsed: elapsed}, nil
}

// Serve loads the config and runs the session server until ctx is done.
func Serve(ctx context.Context, cfgPath string) error {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	cfg.Apply()
	levels, start, err := cfg.Catalog()
	if err != nil {
		return err
	}
	return NewServer(levels, start, os.Stdout).ListenAndServe(ctx, cfg.Server.Addr)
}
