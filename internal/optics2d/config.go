package optics2d

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type WorldCfg struct {
	Width  Real `mapstructure:"width" json:"width"`
	Height Real `mapstructure:"height" json:"height"`
}

type TraceCfg struct {
	Epsilon           Real `mapstructure:"epsilon" json:"epsilon"`
	IntersectionLimit int  `mapstructure:"intersection_limit" json:"intersectionLimit"`
	AlwaysBVH         bool `mapstructure:"always_bvh" json:"alwaysBVH"`
	NeverBVH          bool `mapstructure:"never_bvh" json:"neverBVH"`
}

type RenderCfg struct {
	Out string `mapstructure:"out" json:"out"`
}

type ServerCfg struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

// ElementCfg describes one element. Rotation may be given in radians (Rot),
// degrees (RotDeg) or both; they add up. N is optional for kinds with a fixed
// or default index.
type ElementCfg struct {
	Type   string `mapstructure:"type" json:"type"`
	X      Real   `mapstructure:"x" json:"x"`
	Y      Real   `mapstructure:"y" json:"y"`
	Rot    Real   `mapstructure:"rot" json:"rot,omitempty"`
	RotDeg Real   `mapstructure:"rot_deg" json:"rotDeg,omitempty"`
	N      *Real  `mapstructure:"n" json:"n,omitempty"`
	W      Real   `mapstructure:"w" json:"w,omitempty"`
	H      Real   `mapstructure:"h" json:"h,omitempty"`
	R      Real   `mapstructure:"r" json:"r,omitempty"`
	SD     Real   `mapstructure:"sd" json:"sd,omitempty"`
	D      Real   `mapstructure:"d" json:"d,omitempty"`
}

type LaserCfg struct {
	X      Real `mapstructure:"x" json:"x"`
	Y      Real `mapstructure:"y" json:"y"`
	H      Real `mapstructure:"h" json:"h"`
	Rot    Real `mapstructure:"rot" json:"rot,omitempty"`
	RotDeg Real `mapstructure:"rot_deg" json:"rotDeg,omitempty"`
	Rays   int  `mapstructure:"rays" json:"rays"`
}

type SceneCfg struct {
	Elements []ElementCfg `mapstructure:"elements" json:"elements"`
	Laser    *LaserCfg    `mapstructure:"laser" json:"laser,omitempty"`
}

type Config struct {
	World  WorldCfg  `mapstructure:"world" json:"world"`
	Trace  TraceCfg  `mapstructure:"trace" json:"trace"`
	Render RenderCfg `mapstructure:"render" json:"render"`
	Server ServerCfg `mapstructure:"server" json:"server"`
	Level  int       `mapstructure:"level" json:"level"`
	Scene  *SceneCfg `mapstructure:"scene" json:"scene,omitempty"`
}

func (c ElementCfg) rotation() Real { return c.Rot + degToRad(c.RotDeg) }

func (c ElementCfg) index(def Real) Real {
	if c.N == nil {
		return def
	}
	return *c.N
}

// Build validates and constructs the runtime element.
func (c ElementCfg) Build() (Element, error) {
	kind, err := ParseKind(c.Type)
	if err != nil {
		return nil, err
	}
	rot := c.rotation()
	var e Element
	switch kind {
	case KindBox:
		if c.N == nil {
			return nil, fmt.Errorf("%w: box needs n", ErrInvalidIndex)
		}
		e, err = nilSafe(NewBox(c.X, c.Y, rot, *c.N, c.W, c.H))
	case KindMirror:
		e, err = nilSafe(NewMirror(c.X, c.Y, c.W, c.H, rot))
	case KindGlassBox:
		var b *Box
		if b, err = NewGlassBox(c.X, c.Y, c.W, c.H, rot); err == nil && c.N != nil {
			err = b.UpdateAttribute("n", *c.N)
		}
		e, err = nilSafe(b, err)
	case KindWall:
		e, err = nilSafe(NewWall(c.X, c.Y, c.W, c.H, rot))
	case KindWinWall:
		e, err = nilSafe(NewWinWall(c.X, c.Y, c.W, c.H, rot))
	case KindLoseWall:
		e, err = nilSafe(NewLoseWall(c.X, c.Y, c.W, c.H, rot))
	case KindPlanoConvex:
		e, err = nilSafe(NewPlanoConvexLens(c.X, c.Y, rot, c.index(LensIndex), c.R, c.W))
	case KindPlanoConcave:
		e, err = nilSafe(NewPlanoConcaveLens(c.X, c.Y, rot, c.index(LensIndex), c.R, c.D))
	case KindCircPlanoConvex:
		e, err = nilSafe(NewCircPlanoConvexLens(c.X, c.Y, rot, c.index(LensIndex), c.R, c.SD, c.W))
	case KindCircPlanoConcave:
		e, err = nilSafe(NewCircPlanoConcaveLens(c.X, c.Y, rot, c.index(LensIndex), c.R, c.SD, c.D))
	case KindConvex:
		e, err = nilSafe(NewConvexLens(c.X, c.Y, rot, c.index(LensIndex), c.R, c.SD, c.W))
	case KindConcave:
		e, err = nilSafe(NewConcaveLens(c.X, c.Y, rot, c.index(LensIndex), c.R, c.SD, c.D))
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// nilSafe keeps a typed nil pointer from turning into a non-nil Element.
func nilSafe[T Element](v T, err error) (Element, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c LaserCfg) Build() (*Laser, error) {
	return NewLaser(c.X, c.Y, c.H, c.Rot+degToRad(c.RotDeg), c.Rays)
}

// Build creates a w x h scene holding the configured elements and laser.
func (c SceneCfg) Build(w, h Real) (*Scene, error) {
	s, err := NewScene(w, h)
	if err != nil {
		return nil, err
	}
	for i, ec := range c.Elements {
		e, err := ec.Build()
		if err != nil {
			return nil, fmt.Errorf("element #%d (%s): %w", i, ec.Type, err)
		}
		s.Add(e)
	}
	if c.Laser != nil {
		l, err := c.Laser.Build()
		if err != nil {
			return nil, fmt.Errorf("laser: %w", err)
		}
		s.SetLaser(l)
	}
	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("world.width", WorldWidth)
	v.SetDefault("world.height", WorldHeight)
	v.SetDefault("trace.epsilon", DefaultEpsilon)
	v.SetDefault("trace.intersection_limit", DefaultIntersectionLimit)
	v.SetDefault("trace.always_bvh", false)
	v.SetDefault("trace.never_bvh", false)
	v.SetDefault("render.out", PNGOut)
	v.SetDefault("server.addr", ServerAddr)
	v.SetDefault("level", 0)
}

// LoadConfig reads path (JSON, YAML or TOML by extension) with OPTICS2D_*
// environment overrides. An empty path yields defaults plus environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("OPTICS2D")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	DebugLog("loaded config from %q: world=%gx%g eps=%g limit=%d level=%d", path, cfg.World.Width, cfg.World.Height, cfg.Trace.Epsilon, cfg.Trace.IntersectionLimit, cfg.Level)
	return &cfg, nil
}

func (c *Config) validate() error {
	if !(c.World.Width > 0) || !(c.World.Height > 0) {
		return fmt.Errorf("%w: world %gx%g", ErrInvalidGeometry, c.World.Width, c.World.Height)
	}
	if !(c.Trace.Epsilon > 0) {
		return fmt.Errorf("trace epsilon must be > 0, got %g", c.Trace.Epsilon)
	}
	if c.Trace.IntersectionLimit < 0 {
		return fmt.Errorf("trace intersection limit must be >= 0, got %d", c.Trace.IntersectionLimit)
	}
	if c.Trace.AlwaysBVH && c.Trace.NeverBVH {
		return fmt.Errorf("trace: always_bvh and never_bvh are exclusive")
	}
	return nil
}

// Apply installs the trace settings as package defaults for new rays.
func (c *Config) Apply() {
	Epsilon = c.Trace.Epsilon
	IntersectionLimit = c.Trace.IntersectionLimit
	if c.Trace.AlwaysBVH {
		AlwaysBVH = true
	}
	if c.Trace.NeverBVH {
		NeverBVH = true
	}
}

// BuildScene returns the inline scene when present, otherwise the configured level.
// Built-in levels keep the default world; only the inline scene uses World.
func (c *Config) BuildScene() (*Scene, error) {
	if c.Scene != nil {
		return c.Scene.Build(c.World.Width, c.World.Height)
	}
	return LoadLevel(c.Level)
}

// Catalog returns the levels a server plays and the index new sessions start
// at. An inline scene is prepended as "custom" on the configured world and
// becomes the start.
func (c *Config) Catalog() ([]Level, int, error) {
	levels := Levels()
	start := c.Level
	if c.Scene != nil {
		world := c.World
		levels = append([]Level{{Name: "custom", Scene: *c.Scene, World: &world}}, levels...)
		start = 0
	}
	if start < 0 || start >= len(levels) {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnknownLevel, start)
	}
	return levels, start, nil
}
