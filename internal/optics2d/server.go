package optics2d

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// Edit is one session mutation posted by a client.
type Edit struct {
	Op       string      `json:"op"` // add, remove, move, rotate, attr, undo, redo, level
	ID       string      `json:"id,omitempty"`
	X        Real        `json:"x,omitempty"`
	Y        Real        `json:"y,omitempty"`
	Rotation Real        `json:"rotation,omitempty"`
	Key      string      `json:"key,omitempty"`
	Value    Real        `json:"value,omitempty"`
	Level    int         `json:"level,omitempty"`
	Element  *ElementCfg `json:"element,omitempty"`
}

// Server exposes sessions over HTTP and pushes frames over websockets.
type Server struct {
	levels    []Level
	start     int
	mu        sync.RWMutex
	sessions  map[string]*Session
	router    *mux.Router
	upgrader  websocket.Upgrader
	accessLog io.Writer
}

// NewServer builds the router. New sessions start at level start unless the
// request names one. accessLog receives combined-format request logs; nil disables them.
func NewServer(levels []Level, start int, accessLog io.Writer) *Server {
	s := &Server{
		levels:   levels,
		start:    start,
		sessions: make(map[string]*Session),
		router:   mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		accessLog: accessLog,
	}
	s.router.HandleFunc("/levels", s.handleLevels).Methods(http.MethodGet)
	s.router.HandleFunc("/sessions", s.handleCreate).Methods(http.MethodPost)
	s.router.HandleFunc("/sessions/{id}", s.handleFrame).Methods(http.MethodGet)
	s.router.HandleFunc("/sessions/{id}/elements", s.handleElements).Methods(http.MethodGet)
	s.router.HandleFunc("/sessions/{id}/scene.png", s.handlePNG).Methods(http.MethodGet)
	s.router.HandleFunc("/sessions/{id}/edits", s.handleEdit).Methods(http.MethodPost)
	s.router.HandleFunc("/sessions/{id}/ws", s.handleWS).Methods(http.MethodGet)
	return s
}

func (s *Server) Handler() http.Handler {
	if s.accessLog == nil {
		return s.router
	}
	return handlers.CombinedLoggingHandler(s.accessLog, s.router)
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	Logger().Info("server listening", "addr", addr)
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) session(r *http.Request) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[mux.Vars(r)["id"]]
	return sess, ok
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger().Warn("write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusBadRequest
	switch {
	case errors.Is(err, ErrUnknownElement), errors.Is(err, ErrUnknownLevel):
		code = http.StatusNotFound
	case errors.Is(err, ErrNothingToUndo), errors.Is(err, ErrNothingToRedo):
		code = http.StatusConflict
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

type levelInfo struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Elements int    `json:"elements"`
}

func (s *Server) handleLevels(w http.ResponseWriter, _ *http.Request) {
	out := make([]levelInfo, len(s.levels))
	for i, l := range s.levels {
		out[i] = levelInfo{Index: i, Name: l.Name, Elements: len(l.Scene.Elements)}
	}
	writeJSON(w, http.StatusOK, out)
}

type createRequest struct {
	Level *int `json:"level,omitempty"`
}

type createResponse struct {
	ID    string `json:"id"`
	Frame Frame  `json:"frame"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Errorf("decode: %w", err))
			return
		}
	}
	level := s.start
	if req.Level != nil {
		level = *req.Level
	}
	sess, err := NewSession(s.levels, level)
	if err != nil {
		writeError(w, err)
		return
	}
	f, _, err := sess.Tick()
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	DebugLog("session %s created at level %d", sess.ID, level)
	writeJSON(w, http.StatusCreated, createResponse{ID: sess.ID, Frame: f})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		writeError(w, fmt.Errorf("%w: session", ErrUnknownElement))
		return
	}
	writeJSON(w, http.StatusOK, sess.Last())
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		writeError(w, fmt.Errorf("%w: session", ErrUnknownElement))
		return
	}
	writeJSON(w, http.StatusOK, sess.Elements())
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		writeError(w, fmt.Errorf("%w: session", ErrUnknownElement))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := EncodePNG(w, sess.Scene(), sess.Last().Paths); err != nil {
		Logger().Error("encode png", "session", sess.ID, "err", err)
	}
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		writeError(w, fmt.Errorf("%w: session", ErrUnknownElement))
		return
	}
	var e Edit
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, fmt.Errorf("decode: %w", err))
		return
	}
	if err := applyEdit(sess, e); err != nil {
		writeError(w, err)
		return
	}
	f, _, err := sess.Tick()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func applyEdit(sess *Session, e Edit) error {
	switch e.Op {
	case "add":
		if e.Element == nil {
			return fmt.Errorf("add: missing element")
		}
		el, err := e.Element.Build()
		if err != nil {
			return err
		}
		return sess.Add(el)
	case "remove":
		return sess.Remove(e.ID)
	case "move":
		return sess.Move(e.ID, Point2{e.X, e.Y})
	case "rotate":
		return sess.Rotate(e.ID, e.Rotation)
	case "attr":
		return sess.SetAttribute(e.ID, e.Key, e.Value)
	case "undo":
		return sess.Undo()
	case "redo":
		return sess.Redo()
	case "level":
		return sess.LoadLevel(e.Level)
	default:
		return fmt.Errorf("unknown op %q", e.Op)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		writeError(w, fmt.Errorf("%w: session", ErrUnknownElement))
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		Logger().Warn("websocket upgrade", "err", err)
		return
	}
	frames, cancel := sess.Subscribe(8)
	defer cancel()
	defer func() { _ = conn.Close() }()

	// reader: keeps pong deadlines fresh and notices client close
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(f Frame) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(f)
	}
	if err := send(sess.Last()); err != nil {
		return
	}
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if err := send(f); err != nil {
				DebugLog("session %s: websocket write: %v", sess.ID, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
