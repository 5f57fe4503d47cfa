package optics2d

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRendersPNG(t *testing.T) {
	defer func(e Real, l int) { Epsilon, IntersectionLimit = e, l }(Epsilon, IntersectionLimit)
	out := filepath.Join(t.TempDir(), "run.png")
	p := writeFile(t, "run.yaml", `
trace:
  intersection_limit: 10
render:
  out: `+out+`
scene:
  elements:
    - type: winwall
      x: 600
      y: 100
      w: 15
      h: 300
  laser:
    x: 0
    y: 100
    h: 10
    rays: 1
`)
	res, err := Run(p)
	require.NoError(t, err)
	assert.True(t, res.Outcome.Win)
	assert.Equal(t, 1, res.Outcome.Rays)
	require.Len(t, res.Paths, 1)
	assert.Empty(t, res.Overlaps)
	assert.Equal(t, 10, IntersectionLimit)

	st, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, st.Size())
}

func TestRunErrors(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	p := writeFile(t, "nolaser.yaml", `
scene:
  elements:
    - type: mirror
      x: 200
      y: 100
      w: 50
      h: 10
`)
	_, err = Run(p)
	assert.ErrorIs(t, err, ErrNoLaser)
}
