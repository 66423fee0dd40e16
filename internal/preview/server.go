// Package preview serves the latest rendered file map over HTTP and pushes
// reload notifications to connected browsers.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/livefir/onprty/internal/metrics"
	"github.com/livefir/onprty/internal/schema"
	"github.com/livefir/onprty/internal/site"
)

// DefaultWatchDebounce coalesces bursts of file system events.
const DefaultWatchDebounce = 500 * time.Millisecond

type message struct {
	Type  string   `json:"type"`
	Files []string `json:"files,omitempty"`
}

// Server holds one site's file map.
type Server struct {
	mu    sync.RWMutex
	files site.Files

	clients  *clientSet
	edit     EditFunc
	upgrader websocket.Upgrader
	router   chi.Router
	debounce time.Duration
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithWatchDebounce sets the quiet period Watch waits for before reloading.
func WithWatchDebounce(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// New returns a Server with an empty file map.
func New(opts ...Option) *Server {
	s := &Server{
		files:    site.Files{},
		clients:  newClientSet(),
		debounce: DefaultWatchDebounce,
		logger:   zap.NewNop(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Preview is a local development surface embedded by any host page.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/"+schema.HomeFileName, http.StatusFound)
	})
	r.Get("/ws", s.handleWebSocket)
	if s.edit != nil {
		r.Post("/edit", s.handleEdit)
	}
	r.Get("/{file}", s.handleFile)
	s.router = r
	return s
}

// Handler returns the HTTP handler serving the preview.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Update swaps in a new file map and tells every client to reload.
func (s *Server) Update(files site.Files) {
	next := make(site.Files, len(files))
	for k, v := range files {
		next[k] = v
	}
	s.mu.Lock()
	s.files = next
	s.mu.Unlock()

	s.broadcast(message{Type: "reload", Files: next.Names()})
}

// Files returns a copy of the current file map.
func (s *Server) Files() site.Files {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(site.Files, len(s.files))
	for k, v := range s.files {
		out[k] = v
	}
	return out
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	return s.clients.count()
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")

	s.mu.RLock()
	body, ok := s.files[name]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = http.DetectContentType([]byte(body))
	}
	if path.Ext(name) == ".html" {
		body = inject(body)
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(body))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn}
	n := s.clients.add(c)
	s.metrics.AddPreviewClients(1)
	s.logger.Debug("preview client connected", zap.Int("clients", n))

	defer s.drop(c)

	// Clients never send anything meaningful; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("preview client read failed", zap.Error(err))
			}
			return
		}
	}
}

func (s *Server) drop(c *client) {
	if !s.clients.remove(c) {
		return
	}
	c.conn.Close()
	s.metrics.AddPreviewClients(-1)
}

func (s *Server) broadcast(msg message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to encode preview message", zap.Error(err))
		return
	}
	for _, c := range s.clients.snapshot() {
		if err := c.send(data); err != nil {
			s.logger.Warn("failed to push reload", zap.Error(err))
			s.drop(c)
		}
	}
}

// Close disconnects all websocket clients.
func (s *Server) Close() {
	for _, c := range s.clients.snapshot() {
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.mu.Unlock()
		s.drop(c)
	}
}

// ListenAndServe serves the preview on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
