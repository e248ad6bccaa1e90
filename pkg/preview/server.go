package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/lazydom/pkg/scenario"
	"github.com/vango-dev/lazydom/pkg/snapshot"
	"go.opentelemetry.io/otel/trace"
)

// Config configures a preview Server.
type Config struct {
	// Addr is the listen address (e.g., "localhost:7070").
	Addr string

	// FrameInterval is the minimum delay between two played frames.
	FrameInterval time.Duration

	// WriteTimeout bounds a single websocket write.
	WriteTimeout time.Duration

	// ReadHeaderTimeout and ShutdownTimeout configure the HTTP server.
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration

	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// Store persists every played frame and serves /snapshots. Nil
	// disables both.
	Store snapshot.Store

	// Tracer wraps requests in spans. Nil disables tracing.
	Tracer trace.Tracer

	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:              "localhost:7070",
		FrameInterval:     100 * time.Millisecond,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Server serves a live view of scenario runs. Scenarios are played by
// Play on the caller's goroutine, which owns the reconciler; HTTP handlers
// only read published frames.
type Server struct {
	config Config
	hub    *Hub
	router chi.Router
	logger *slog.Logger

	mu     sync.RWMutex
	latest *Message

	httpServer *http.Server
}

// New creates a preview server.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default().With("component", "preview")
	}
	s := &Server{
		config: config,
		hub:    NewHub(config.WriteTimeout, logger),
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if s.config.Tracer != nil {
		r.Use(Tracing(s.config.Tracer))
	}

	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/snapshot", s.handleLatest)
	r.Handle("/ws", s.hub)

	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	if s.config.Store != nil {
		r.Get("/snapshots", s.handleList)
		r.Get("/snapshots/*", s.handleStored)
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the viewer hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Latest returns the most recently published frame message.
func (s *Server) Latest() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Message{}, false
	}
	return *s.latest, true
}

// Publish makes frame i of a scenario run the current view: it is pushed to
// viewers and, when a store is configured, persisted.
func (s *Server) Publish(ctx context.Context, name string, i int, f scenario.Frame) error {
	msg := Message{
		Type:       MessageFrame,
		Scenario:   name,
		Frame:      i,
		HTML:       f.HTML,
		Operations: f.Stats.Operations(),
	}
	s.mu.Lock()
	s.latest = &msg
	s.mu.Unlock()
	s.hub.Broadcast(msg)

	if s.config.Store != nil {
		if err := s.config.Store.Put(ctx, snapshot.FromFrame(name, i, f)); err != nil {
			return err
		}
	}
	return nil
}

// Play runs sc, publishing each frame and pausing FrameInterval between
// frames.
func (s *Server) Play(ctx context.Context, sc *scenario.Scenario, opts ...scenario.Option) (*scenario.Result, error) {
	name := sc.Name
	if name == "" {
		name = "scenario"
	}

	i := 0
	handler := func(ctx context.Context, f scenario.Frame) error {
		if err := s.Publish(ctx, name, i, f); err != nil {
			return err
		}
		i++
		return sleep(ctx, s.config.FrameInterval)
	}
	opts = append(opts, scenario.WithFrameHandler(handler))

	s.logger.Info("playing scenario", "name", name, "steps", len(sc.Steps))
	res, err := scenario.NewRunner(sc, opts...).Run(ctx)
	if err != nil {
		s.hub.Broadcast(Message{Type: MessageError, Scenario: name, Error: err.Error()})
		return res, err
	}
	s.hub.Broadcast(Message{Type: MessageDone, Scenario: name, Frame: len(res.Frames)})
	return res, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	msg, ok := s.Latest()
	if !ok {
		http.Error(w, "no frame published yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(msg.HTML))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	keys, err := s.config.Store.List(r.Context())
	if err != nil {
		s.logger.Error("list snapshots", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(keys)
}

func (s *Server) handleStored(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if err := snapshot.ValidKey(key); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap, err := s.config.Store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			http.Error(w, "snapshot not found", http.StatusNotFound)
			return
		}
		s.logger.Error("read snapshot", "key", key, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(snap.HTML))
}

// Run serves HTTP until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server starting", "address", s.config.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes viewer connections and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}

	s.hub.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	return nil
}
