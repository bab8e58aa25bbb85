// Package remote serves the debug panel over HTTP and websocket so actions can be triggered
// from a browser or script while the window runs.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"physics-playground/internal/logger"
	"physics-playground/internal/panel"

	"github.com/gorilla/websocket"
)

const (
	shutdownTimeout = 2 * time.Second
	// maxMessageSize bounds one request; action names are short.
	maxMessageSize = 4096
)

// Request is a websocket message asking for one action.
type Request struct {
	Action string `json:"action"`
}

// Reply answers every Request. Accepted actions are queued; they run on the next frame.
type Reply struct {
	OK     bool   `json:"ok"`
	Action string `json:"action,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Server accepts panel actions and pushes them into the frame thread's queue.
// It never calls actions itself.
type Server struct {
	reg   *panel.Registry
	queue *panel.Queue
	log   *logger.Logger

	upgrader websocket.Upgrader
}

// New returns a server for reg that enqueues into queue.
func New(reg *panel.Registry, queue *panel.Queue, log *logger.Logger) *Server {
	return &Server{
		reg:   reg,
		queue: queue,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameOrigin,
		},
	}
}

// sameOrigin accepts clients without an Origin header (scripts) and pages served from the
// host the panel listens on.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// Handler returns the HTTP routes: GET /actions and the /ws websocket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/actions", s.handleActions)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := json.Marshal(map[string][]string{"actions": s.reg.Names()})
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("remote: upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)
	s.log.Info("remote: panel connected from %s", r.RemoteAddr)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				s.log.Warn("remote: dropping %s: message over %d bytes", r.RemoteAddr, maxMessageSize)
			}
			return
		}
		reply := s.handleMessage(payload)
		data, err := json.Marshal(reply)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// handleMessage validates one request and queues it.
func (s *Server) handleMessage(payload []byte) Reply {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return Reply{Error: "malformed message: " + err.Error()}
	}
	if _, ok := s.reg.Lookup(req.Action); !ok {
		return Reply{Action: req.Action, Error: panel.ErrUnknownAction.Error() + ": " + req.Action}
	}
	s.queue.Push(req.Action)
	return Reply{OK: true, Action: req.Action}
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()
	s.log.Info("remote: panel listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
