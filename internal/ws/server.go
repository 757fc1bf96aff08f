// Package ws serves the simulated board over HTTP: display and LED frames
// stream out on /ws, key presses come in on /control.
package ws

import (
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/pgb1/internal/board"
	diag "github.com/coreman2200/pgb1/internal/diagnostics"
	"github.com/coreman2200/pgb1/internal/keys"
	"github.com/coreman2200/pgb1/internal/sim"
)

const writeWait = 200 * time.Millisecond

var ErrNoSim = errors.New("ws: board is not simulated")

type Server struct {
	App string

	mu          sync.Mutex
	sim         *board.Sim
	startTime   time.Time
	frames      map[string]uint64
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	up          websocket.Upgrader
}

// Frame is the JSON message sent on /ws. RGB holds Width*Height pixels,
// three bytes each, row by row.
type Frame struct {
	T       int64  `json:"t"`
	Source  string `json:"source"`
	FrameID uint64 `json:"frame_id"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	RGB     []byte `json:"rgb"`
}

// Control is the JSON message accepted on /control.
type Control struct {
	Key        string `json:"key,omitempty"`
	Down       bool   `json:"down"`
	ReleaseAll bool   `json:"release_all,omitempty"`
}

// Held is the reply to every valid Control.
type Held struct {
	Held []string `json:"held"`
}

func New(b *board.Board, app string) (*Server, error) {
	if b.Sim == nil {
		return nil, ErrNoSim
	}
	s := &Server{
		App:         app,
		sim:         b.Sim,
		startTime:   time.Now(),
		frames:      map[string]uint64{},
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		up:          websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
	b.Sim.Display.Subscribe(s.broadcastFrame)
	b.Sim.LEDs.Subscribe(s.broadcastFrame)
	return s, nil
}

// Handler routes every endpoint of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return mux
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	// current picture first, so a fresh client is not blank until the next draw
	for _, d := range []*sim.Drawer{s.sim.Display, s.sim.LEDs} {
		s.write(conn, encodeFrame(d.Snapshot()))
	}
	s.mu.Unlock()
	go s.drain(conn, s.clients)
}

func (s *Server) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()
	go s.drain(conn, s.diagClients)
}

func (s *Server) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Control
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reject(conn, diag.Diagnostic{
				Severity: diag.Warn, Code: "CONTROL.BAD_JSON", Summary: "Control message is not JSON",
				Detail: err.Error(),
			})
			continue
		}
		if err := s.applyControl(msg); err != nil {
			s.reject(conn, diag.Diagnostic{
				Severity: diag.Warn, Code: "CONTROL.UNKNOWN_KEY", Summary: "Unknown key name",
				Evidence: map[string]any{"key": msg.Key},
			})
			continue
		}
		b, _ := json.Marshal(Held{Held: diag.KeyNames(s.sim.Matrix.Held())})
		s.mu.Lock()
		s.write(conn, b)
		s.mu.Unlock()
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	frames := make(map[string]uint64, len(s.frames))
	for k, v := range s.frames {
		frames[k] = v
	}
	resp := map[string]any{
		"app":          s.App,
		"uptime_s":     time.Since(s.startTime).Seconds(),
		"frames":       frames,
		"clients":      len(s.clients),
		"diag_clients": len(s.diagClients),
		"held":         diag.KeyNames(s.sim.Matrix.Held()),
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) applyControl(msg Control) error {
	if msg.ReleaseAll {
		s.sim.Matrix.ReleaseAll()
		return nil
	}
	k, err := keys.Parse(msg.Key)
	if err != nil {
		return err
	}
	s.sim.Matrix.Set(k, msg.Down)
	log.Debug().Stringer("key", k).Bool("down", msg.Down).Msg("ws: control")
	return nil
}

func (s *Server) reject(conn *websocket.Conn, d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(conn, b)
	s.pushDiag(b)
}

// drain reads until the peer goes away, then forgets conn.
func (s *Server) drain(conn *websocket.Conn, set map[*websocket.Conn]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) broadcastFrame(f sim.Frame) {
	b := encodeFrame(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames[f.Source] = f.ID
	for c := range s.clients {
		s.write(c, b)
	}
}

func (s *Server) pushDiag(b []byte) {
	for c := range s.diagClients {
		s.write(c, b)
	}
}

// write sends one text message; callers hold s.mu.
func (s *Server) write(c *websocket.Conn, b []byte) {
	c.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Debug().Err(err).Msg("ws: write")
	}
}

func encodeFrame(f sim.Frame) []byte {
	r := f.Image.Rect
	b, _ := json.Marshal(Frame{
		T:       time.Now().UnixNano(),
		Source:  f.Source,
		FrameID: f.ID,
		Width:   r.Dx(),
		Height:  r.Dy(),
		RGB:     rgb(f.Image),
	})
	return b
}

func rgb(img *image.NRGBA) []byte {
	r := img.Rect
	out := make([]byte, 0, r.Dx()*r.Dy()*3)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			out = append(out, c.R, c.G, c.B)
		}
	}
	return out
}
