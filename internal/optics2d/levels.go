package optics2d

import "fmt"

// Level is a named, declarative scene. Built-in levels are laid out for the
// default world; World overrides it for custom scenes.
type Level struct {
	Name  string    `json:"name"`
	Scene SceneCfg  `json:"scene"`
	World *WorldCfg `json:"world,omitempty"`
}

func ptr(v Real) *Real { return &v }

func lvlBox(x, y, w, h, rot, n Real) ElementCfg {
	return ElementCfg{Type: "box", X: x, Y: y, W: w, H: h, Rot: rot, N: ptr(n)}
}

func lvlWall(x, y, w, h, rot Real) ElementCfg {
	return ElementCfg{Type: "wall", X: x, Y: y, W: w, H: h, Rot: rot}
}

func lvlWin(x, y, w, h, rot Real) ElementCfg {
	return ElementCfg{Type: "winwall", X: x, Y: y, W: w, H: h, Rot: rot}
}

func lvlPlanoConcave(x, y, r, rot, n, d Real) ElementCfg {
	return ElementCfg{Type: "planoconcave", X: x, Y: y, R: r, Rot: rot, N: ptr(n), D: d}
}

func lvlPlanoConvex(x, y, r, rot, n, w Real) ElementCfg {
	return ElementCfg{Type: "planoconvex", X: x, Y: y, R: r, Rot: rot, N: ptr(n), W: w}
}

var levels = []Level{
	{
		Name: "periscope",
		Scene: SceneCfg{
			Elements: []ElementCfg{
				lvlBox(298, 187, 15, 80, 0.07760492258740825, 0),
				lvlBox(481, 210, 15, 80, 2.654072175223533, 0),
				lvlBox(272, 437, 270, 230, 6.193728413012803, 1.33),
				lvlWall(895, 348, 15, 300, 0),
				lvlWall(587, 81, 15, 300, 0),
				lvlWall(590, 409, 15, 300, 0),
				lvlWall(895, 680, 15, 300, 0),
				lvlWall(998, 113, 15, 300, 0),
				lvlWin(1075, 382, 15, 100, 0),
			},
			Laser: &LaserCfg{X: 0, Y: 200, H: 70, Rot: 5.890486225480862, Rays: 1},
		},
	},
	{
		Name: "corridor",
		Scene: SceneCfg{
			Elements: []ElementCfg{
				lvlBox(796, 526, 15, 150, 4.06609060451356, 0),
				lvlWin(9, 515, 15, 35, 0),
				lvlWall(308, 435, 15, 150, 0),
				lvlWall(308, 595, 15, 150, 0),
				lvlWall(61, 353, 15, 150, 1.5707963267948966),
				lvlWall(241, 353, 15, 150, 1.5707963267948966),
				lvlWall(61, 600, 15, 150, 1.5707963267948966),
				lvlWall(241, 600, 15, 150, 1.5707963267948966),
				lvlBox(453, 301, 15, 150, 2.502010470300501, 0),
				lvlPlanoConcave(1028, 421, 100, 0.1, 1.5, 120),
				lvlPlanoConvex(747, 670, 150, 3.6716097343392304, 1.5, 50),
			},
			Laser: &LaserCfg{X: 0, Y: 120, H: 70, Rot: 0, Rays: 10},
		},
	},
	{
		Name: "comb",
		Scene: SceneCfg{
			Elements: []ElementCfg{
				lvlBox(185, 469, 15, 250, 5.492932526690764, 0),
				lvlWin(1076, 530, 15, 250, 4.709338659392787),
				lvlWall(597, 185, 15, 10, 0),
				lvlWall(596, 132, 15, 10, 0),
				lvlWall(595, 72, 15, 10, 0),
				lvlWall(597, 205, 15, 10, 0),
				lvlWall(596, 167, 15, 10, 0),
				lvlWall(596, 150, 15, 10, 0),
				lvlWall(597, 223, 15, 10, 0),
				lvlWall(596, 114, 15, 10, 0),
				lvlWall(595, 94, 15, 10, 0),
				lvlWall(902, 424, 15, 350, 0),
				lvlWall(1071, 590, 15, 350, 1.5674842972683347),
				lvlPlanoConcave(769, 548, 60, 0.1, 1.5, 120),
				lvlPlanoConvex(1415, 476, 150, 6.285375236212544, 1.5, 50),
			},
			Laser: &LaserCfg{X: 0, Y: 120, H: 70, Rot: 0, Rays: 10},
		},
	},
}

var sandbox = Level{
	Name: "sandbox",
	Scene: SceneCfg{
		Elements: []ElementCfg{
			lvlWall(400, 400, 15, 300, 0),
			lvlPlanoConvex(100, 200, 100, 0, 1.5, 0),
		},
		Laser: &LaserCfg{X: 0, Y: 50, H: 80, Rot: 0, Rays: 15},
	},
}

// Levels returns the built-in level catalog in play order.
func Levels() []Level { return append([]Level(nil), levels...) }

// Sandbox is the free-play scene shown when no level is running.
func Sandbox() Level { return sandbox }

// LoadLevel builds level i of the catalog on the default world.
func LoadLevel(i int) (*Scene, error) {
	if i < 0 || i >= len(levels) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrUnknownLevel, i, len(levels))
	}
	return levels[i].Build()
}

// Build creates the level scene on its world.
func (l Level) Build() (*Scene, error) {
	w, h := Real(WorldWidth), Real(WorldHeight)
	if l.World != nil {
		w, h = l.World.Width, l.World.Height
	}
	s, err := l.Scene.Build(w, h)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}
	return s, nil
}
