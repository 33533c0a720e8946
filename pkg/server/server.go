package server

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/proctex/pkg/pipeline"
	"github.com/matzehuels/proctex/pkg/session"
)

// Request body limit for JSON endpoints.
const maxBodyBytes = 1 << 20

const shutdownTimeout = 10 * time.Second

// DefaultMaxPixels bounds the encoded output of one render request, upscaling
// included. Far below errors.MaxDimension squared, which would allocate
// about 1 GiB per request.
const DefaultMaxPixels = 4096 * 4096

// Config wires a Server to its collaborators.
type Config struct {
	// Runner renders presets and sessions. A runner without cache is used
	// when nil.
	Runner *pipeline.Runner

	// Sessions stores session generators. An in-memory store with
	// session.DefaultTTL is used when nil.
	Sessions session.Store

	// Workers is passed to every generator built for a session.
	Workers int

	// Timeout bounds a single render.
	Timeout time.Duration

	// MaxPixels caps width x height x scale² per render request.
	// DefaultMaxPixels is used when zero.
	MaxPixels int64

	// JanitorInterval is how often expired sessions are reclaimed.
	JanitorInterval time.Duration

	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner    *pipeline.Runner
	sessions  session.Store
	workers   int
	timeout   time.Duration
	maxPixels int64
	janitor   time.Duration
	logger    *log.Logger
	router    chi.Router
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewMemoryStore(session.DefaultTTL)
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = DefaultMaxPixels
	}
	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = time.Minute
	}

	s := &Server{
		runner:    cfg.Runner,
		sessions:  cfg.Sessions,
		workers:   cfg.Workers,
		timeout:   cfg.Timeout,
		maxPixels: cfg.MaxPixels,
		janitor:   cfg.JanitorInterval,
		logger:    cfg.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/presets", s.handlePresets)
	r.Get("/render/{preset}", s.handleRenderPreset)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{session}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/graph", s.handleGraph)
			r.Get("/render", s.handleRenderSession)
			r.Post("/nodes", s.handleAddNode)
			r.Put("/nodes/{node}", s.handleSetNode)
			r.Post("/nodes/{node}/move", s.handleMoveNode)
			r.Post("/links", s.handleAddLink)
			r.Delete("/links/{link}", s.handleRemoveLink)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	if j, ok := s.sessions.(interface {
		Janitor(context.Context, time.Duration)
	}); ok {
		go j.Janitor(ctx, s.janitor)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
