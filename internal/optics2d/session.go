package optics2d

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Frame is the result of one retrace.
type Frame struct {
	Seq       uint64        `json:"seq"`
	Level     int           `json:"level"`
	LevelName string        `json:"levelName"`
	Paths     [][]Point2    `json:"paths"`
	Elements  []ElementView `json:"elements"`
	Outcome   Outcome       `json:"outcome"`
	Advanced  bool          `json:"advanced"`  // the shot won and the next level was loaded
	Restarted bool          `json:"restarted"` // the shot lost and the level was reloaded
}

// ElementView is the client-facing description of an element.
type ElementView struct {
	ID       string          `json:"id"`
	Kind     string          `json:"kind"`
	X        Real            `json:"x"`
	Y        Real            `json:"y"`
	Rotation Real            `json:"rotation"`
	Attrs    map[string]Real `json:"attrs"`
}

func viewOf(e Element) ElementView {
	v := ElementView{ID: e.ID(), Kind: e.Kind().String(), X: e.Position().X, Y: e.Position().Y, Rotation: e.Rotation()}
	v.Attrs = make(map[string]Real, len(e.Attributes()))
	for _, k := range e.Attributes() {
		if a, err := e.Attribute(k); err == nil {
			v.Attrs[k] = a
		}
	}
	return v
}

func viewsOf(sc *Scene) []ElementView {
	out := make([]ElementView, 0, sc.Len())
	for _, e := range sc.elements {
		out = append(out, viewOf(e))
	}
	return out
}

// Session is the interactive collaborator around a scene: it records undo
// history, retraces only when an edit made the scene dirty, and moves
// between levels on win or lose. Safe for concurrent use.
type Session struct {
	ID         string
	MaxHistory int

	mu     sync.Mutex
	levels []Level
	level  int
	scene  *Scene
	dirty  bool
	undo   []*Scene
	redo   []*Scene
	last   Frame
	seq    uint64
	subs   map[int]chan Frame
	nextID int
}

// NewSession starts at level start of the given catalog.
func NewSession(levels []Level, start int) (*Session, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrUnknownLevel)
	}
	s := &Session{
		ID:         uuid.NewString(),
		MaxHistory: 100,
		levels:     levels,
		subs:       make(map[int]chan Frame),
	}
	if err := s.load(start); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load(i int) error {
	if i < 0 || i >= len(s.levels) {
		return fmt.Errorf("%w: %d (have %d)", ErrUnknownLevel, i, len(s.levels))
	}
	sc, err := s.levels[i].Build()
	if err != nil {
		return err
	}
	s.level, s.scene, s.dirty = i, sc, true
	s.undo, s.redo = nil, nil
	DebugLog("session %s: level %d (%s)", s.ID, i, s.levels[i].Name)
	return nil
}

func (s *Session) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Scene returns a copy of the current scene.
func (s *Session) Scene() *Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.Clone()
}

// Elements describes the elements of the current scene.
func (s *Session) Elements() []ElementView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return viewsOf(s.scene)
}

// Last returns the most recent frame.
func (s *Session) Last() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// LoadLevel jumps to level i, dropping history.
func (s *Session) LoadLevel(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(i)
}

// edit snapshots the scene, applies fn and records the snapshot for undo.
func (s *Session) edit(fn func(sc *Scene) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.scene.Clone()
	if err := fn(s.scene); err != nil {
		return err
	}
	s.scene.Invalidate()
	s.undo = append(s.undo, snap)
	if s.MaxHistory > 0 && len(s.undo) > s.MaxHistory {
		s.undo = s.undo[len(s.undo)-s.MaxHistory:]
	}
	s.redo = nil
	s.dirty = true
	return nil
}

func find(sc *Scene, id string) (Element, error) {
	e, ok := sc.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrUnknownElement, id)
	}
	return e, nil
}

func (s *Session) Add(e Element) error {
	return s.edit(func(sc *Scene) error {
		sc.Add(e)
		return nil
	})
}

func (s *Session) Remove(id string) error {
	return s.edit(func(sc *Scene) error { return sc.Remove(id) })
}

func (s *Session) Move(id string, p Point2) error {
	return s.edit(func(sc *Scene) error {
		e, err := find(sc, id)
		if err != nil {
			return err
		}
		e.SetPosition(p)
		return nil
	})
}

func (s *Session) Rotate(id string, a Real) error {
	return s.edit(func(sc *Scene) error {
		e, err := find(sc, id)
		if err != nil {
			return err
		}
		e.SetRotation(a)
		return nil
	})
}

func (s *Session) SetAttribute(id, key string, v Real) error {
	return s.edit(func(sc *Scene) error {
		e, err := find(sc, id)
		if err != nil {
			return err
		}
		return e.UpdateAttribute(key, v)
	})
}

func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, s.scene)
	s.scene, s.dirty = prev, true
	return nil
}

func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redo) == 0 {
		return ErrNothingToRedo
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, s.scene)
	s.scene, s.dirty = next, true
	return nil
}

// Tick retraces when the scene is dirty and returns that shot's frame; the
// boolean reports whether a new frame was produced. A win loads the next level
// (wrapping), a lose reloads the current one, and the fresh scene is traced
// straight away so Last and subscribers see it as the following frame. That
// follow-up frame never changes level itself.
func (s *Session) Tick() (Frame, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return s.last, false, nil
	}
	f, err := s.shoot()
	if err != nil {
		return s.last, false, err
	}
	switch {
	case f.Outcome.Lose:
		if err := s.load(s.level); err != nil {
			return f, true, err
		}
		f.Restarted = true
	case f.Outcome.Win:
		if err := s.load((s.level + 1) % len(s.levels)); err != nil {
			return f, true, err
		}
		f.Advanced = true
	}
	s.last = f
	s.publish(f)
	if f.Advanced || f.Restarted {
		next, err := s.shoot()
		if err != nil {
			return f, true, err
		}
		s.last = next
		s.publish(next)
	}
	if Debug {
		logRayStats()
	}
	return f, true, nil
}

// shoot fires the laser on the current scene and numbers the frame.
func (s *Session) shoot() (Frame, error) {
	out, err := s.scene.Shoot()
	if err != nil {
		return Frame{}, err
	}
	s.dirty = false
	s.seq++
	return Frame{
		Seq:       s.seq,
		Level:     s.level,
		LevelName: s.levels[s.level].Name,
		Paths:     s.scene.Paths(),
		Elements:  viewsOf(s.scene),
		Outcome:   out,
	}, nil
}

// Subscribe returns a channel receiving every new frame and a cancel func.
// Slow subscribers miss frames rather than block Tick.
func (s *Session) Subscribe(buf int) (<-chan Frame, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan Frame, imax(buf, 1))
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Session) publish(f Frame) {
	for _, ch := range s.subs {
		select {
		case ch <- f:
		default:
			DebugLogOnce("slow-subscriber-"+s.ID, "session %s: dropping frame %d for slow subscriber", s.ID, f.Seq)
		}
	}
}
