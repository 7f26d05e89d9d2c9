package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/hive/pkg/store"
)

// Server serves a store to remote components.
type Server struct {
	store  *store.Store
	hub    *Hub
	config Config
	logger *slog.Logger

	upgrader websocket.Upgrader
	router   chi.Router

	mu    sync.Mutex
	conns map[string]*conn

	httpServer *http.Server
}

// New creates a server for st. st must have been created with
// store.WithScheduler(hub.Dispatch). Server.Run starts the hub; callers
// serving Handler themselves must run it with Hub.Run.
func New(st *store.Store, hub *Hub, opts ...Option) *Server {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.applyDefaults()

	s := &Server{
		store:  st,
		hub:    hub,
		config: config,
		logger: config.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		conns: make(map[string]*conn),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/ws", s.handleWebSocket)
	r.Get("/state", s.handleState)
	r.Get("/state/*", s.handleState)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler())
	return r
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub returns the hub the server runs store calls on.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Connections returns the number of open connections.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Run starts the hub and an HTTP server on addr, and blocks until ctx is
// done or the listener fails. On ctx done it shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go func() {
		if err := s.hub.Run(hubCtx); stderrors.Is(err, ErrHubRunning) {
			s.logger.Debug("hub already running")
		}
	}()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes all connections and stops the HTTP server started by
// Run. The hub is stopped by Run once Shutdown returns.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	conns := make([]*conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		c.close(websocket.CloseGoingAway, "server shutting down")
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) register(c *conn) {
	s.mu.Lock()
	s.conns[c.id] = c
	s.mu.Unlock()
	if s.config.Metrics != nil {
		s.config.Metrics.ConnectionOpened()
	}
}

func (s *Server) unregister(c *conn) {
	s.mu.Lock()
	delete(s.conns, c.id)
	s.mu.Unlock()
	if s.config.Metrics != nil {
		s.config.Metrics.ConnectionClosed()
	}
}
