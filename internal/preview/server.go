// Package preview serves generated models over HTTP without writing them.
// Every request performs its own dry run against a fresh schema source, so
// the response always reflects the current database.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/koustreak/modelgen/internal/emit"
	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/generator"
	"github.com/koustreak/modelgen/internal/logger"
	"github.com/koustreak/modelgen/internal/schema"
)

// SourceFactory returns a new, unconnected source for one request.
type SourceFactory func() (schema.Source, error)

// Option configures a Server.
type Option func(*Server)

// WithClock replaces time.Now for the generated header timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// Server renders models on demand.
type Server struct {
	cfg    generator.Config
	open   SourceFactory
	log    *logger.Logger
	now    func() time.Time
	router chi.Router
}

// New builds the router. cfg.DryRun is forced on.
func New(cfg generator.Config, open SourceFactory, log *logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.Nop()
	}
	cfg.DryRun = true

	s := &Server{cfg: cfg, open: open, log: log}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/models", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{class}", s.handleModel)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Preview server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.With("request_id", middleware.GetReqID(r.Context())).
			Request(r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// generate runs one dry run. Generation progress goes to the debug level.
func (s *Server) generate(ctx context.Context) (*generator.Result, error) {
	src, err := s.open()
	if err != nil {
		return nil, err
	}

	opts := []generator.Option{generator.WithLog(func(m string) { s.log.Debug(m) })}
	if s.now != nil {
		opts = append(opts, generator.WithClock(s.now))
	}

	gen, err := generator.New(s.cfg, src, nil, opts...)
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx)
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type modelSummary struct {
	Class string `json:"class"`
	Table string `json:"table"`
	Path  string `json:"path"`
	Size  int    `json:"size"`
}

type listResponse struct {
	RunID       string                     `json:"run_id"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Models      []modelSummary             `json:"models"`
	Unmapped    []generator.UnmappedColumn `json:"unmapped,omitempty"`
	Collisions  []generator.Collision      `json:"collisions,omitempty"`
	Duplicates  []propertyCollision        `json:"duplicate_properties,omitempty"`
}

type propertyCollision struct {
	Class    string   `json:"class"`
	Table    string   `json:"table"`
	Property string   `json:"property"`
	Columns  []string `json:"columns"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	res, err := s.generate(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	models := make([]modelSummary, 0, len(res.Files))
	for _, f := range res.Files {
		models = append(models, modelSummary{Class: f.ClassName, Table: f.Table, Path: f.Path, Size: len(f.Content)})
	}
	var dups []propertyCollision
	for _, d := range res.PropertyCollisions {
		dups = append(dups, propertyCollision(d))
	}
	writeJSON(w, http.StatusOK, listResponse{
		RunID:       res.RunID,
		GeneratedAt: res.StartedAt,
		Models:      models,
		Unmapped:    res.Unmapped,
		Collisions:  res.Collisions,
		Duplicates:  dups,
	})
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	class := chi.URLParam(r, "class")

	res, err := s.generate(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	file, ok := lastFile(res.Files, class)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "model " + class + " not found", Kind: errs.ErrKindNotFound.String()})
		return
	}

	w.Header().Set("Content-Type", emit.ContentType+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(file.Content)
}

// lastFile returns the file for class. With colliding tables the last one
// is returned, matching what a real run leaves on disk.
func lastFile(files []emit.File, class string) (emit.File, bool) {
	for i := len(files) - 1; i >= 0; i-- {
		if files[i].ClassName == class {
			return files[i], true
		}
	}
	return emit.File{}, false
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		s.log.ErrorWith("preview generation failed", err, map[string]any{"kind": kind.String()})
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind.String()})
}

func statusFor(kind errs.ErrKind) int {
	switch kind {
	case errs.ErrKindInvalidConfig, errs.ErrKindInvalidInput:
		return http.StatusBadRequest
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindUnmappedType:
		return http.StatusUnprocessableEntity
	case errs.ErrKindConnectionFailed, errs.ErrKindPermissionDenied:
		return http.StatusBadGateway
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
