package optics2d

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Real(WorldWidth), cfg.World.Width)
	assert.Equal(t, Real(WorldHeight), cfg.World.Height)
	assert.Equal(t, DefaultEpsilon, cfg.Trace.Epsilon)
	assert.Equal(t, DefaultIntersectionLimit, cfg.Trace.IntersectionLimit)
	assert.Equal(t, PNGOut, cfg.Render.Out)
	assert.Equal(t, ServerAddr, cfg.Server.Addr)
	assert.Nil(t, cfg.Scene)
}

func TestLoadConfigYAMLScene(t *testing.T) {
	p := writeFile(t, "scene.yaml", `
world:
  width: 800
  height: 600
trace:
  intersection_limit: 12
scene:
  elements:
    - type: mirror
      x: 200
      y: 100
      w: 150
      h: 10
      rot_deg: 45
    - type: box
      x: 400
      y: 300
      w: 20
      h: 20
      n: 1.5
    - type: convex
      x: 600
      y: 300
      r: 80
      sd: 40
      w: 4
  laser:
    x: 0
    y: 100
    h: 10
    rays: 1
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Trace.IntersectionLimit)
	require.NotNil(t, cfg.Scene)
	require.Len(t, cfg.Scene.Elements, 3)
	require.NotNil(t, cfg.Scene.Elements[1].N)
	assert.Equal(t, 1.5, *cfg.Scene.Elements[1].N)

	s, err := cfg.BuildScene()
	require.NoError(t, err)
	assert.Equal(t, Real(800), s.Width)
	els := s.Elements()
	assert.Equal(t, KindMirror, els[0].Kind())
	assert.InDelta(t, 0.7853981633974483, els[0].Rotation(), 1e-12)
	assert.Equal(t, KindBox, els[1].Kind())
	assert.Equal(t, KindConvex, els[2].Kind())
	assert.Equal(t, LensIndex, els[2].N())

	out, err := s.Shoot()
	require.NoError(t, err)
	assert.Equal(t, 1, out.Rays)
	assert.InDelta(t, 1.5707963267948966, s.Laser.Rays[0].Angle(), 1e-9)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("OPTICS2D_TRACE_INTERSECTION_LIMIT", "7")
	t.Setenv("OPTICS2D_LEVEL", "2")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Trace.IntersectionLimit)
	assert.Equal(t, 2, cfg.Level)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	p := writeFile(t, "bad.json", `{"world": {"width": -1, "height": 10}}`)
	_, err = LoadConfig(p)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	p = writeFile(t, "bvh.json", `{"trace": {"always_bvh": true, "never_bvh": true}}`)
	_, err = LoadConfig(p)
	assert.Error(t, err)
}

func TestElementCfgBuildErrors(t *testing.T) {
	_, err := ElementCfg{Type: "prism"}.Build()
	assert.ErrorIs(t, err, ErrUnknownElement)

	_, err = ElementCfg{Type: "box", W: 10, H: 10}.Build()
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = ElementCfg{Type: "planoconvex", R: 0}.Build()
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	e, err := ElementCfg{Type: "glass", W: 10, H: 10, N: ptr(1.7)}.Build()
	require.NoError(t, err)
	assert.Equal(t, 1.7, e.N())

	_, err = SceneCfg{Elements: []ElementCfg{{Type: "wall", W: 10, H: 10}, {Type: "mirror"}}}.Build(100, 100)
	assert.ErrorContains(t, err, "element #1")

	_, err = SceneCfg{Laser: &LaserCfg{Rays: 0}}.Build(100, 100)
	assert.ErrorContains(t, err, "laser")
}

func TestConfigApply(t *testing.T) {
	defer func(e Real, l int) { Epsilon, IntersectionLimit = e, l }(Epsilon, IntersectionLimit)
	cfg := &Config{Trace: TraceCfg{Epsilon: 0.01, IntersectionLimit: 9}}
	cfg.Apply()
	r := NewRay(0, 0, 0)
	assert.Equal(t, 0.01, r.Epsilon)
	assert.Equal(t, 9, r.IntersectionLimit)
}

func TestConfigCatalog(t *testing.T) {
	cfg := &Config{World: WorldCfg{Width: 800, Height: 600}, Level: 2}
	levels, start, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, len(Levels()), len(levels))
	assert.Equal(t, 2, start)
	s, err := levels[start].Build()
	require.NoError(t, err)
	assert.Equal(t, Real(WorldWidth), s.Width, "built-in levels keep their canvas")

	cfg.Scene = &SceneCfg{Elements: []ElementCfg{{Type: "mirror", X: 100, Y: 100, W: 20, H: 5}}}
	levels, start, err = cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, "custom", levels[0].Name)
	s, err = levels[0].Build()
	require.NoError(t, err)
	assert.Equal(t, Real(800), s.Width)
	assert.Equal(t, Real(600), s.Height)

	direct, err := cfg.BuildScene()
	require.NoError(t, err)
	assert.Equal(t, s.Width, direct.Width)
	assert.Equal(t, s.Height, direct.Height)

	_, _, err = (&Config{Level: len(Levels())}).Catalog()
	assert.ErrorIs(t, err, ErrUnknownLevel)
}
