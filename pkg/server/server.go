// Package server exposes the bisection pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz          liveness probe
//	POST /v1/bisect        solve one instance (JSON body, see [pipeline.Options])
//	GET  /v1/runs?limit=n  recent runs, newest first
//	GET  /v1/runs/{id}     one recorded run
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code: malformed input is 400, an instance
// whose treewidth exceeds the DP's capacity is 422, unknown runs are 404.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	twerrors "github.com/matzehuels/twbisect/pkg/errors"
	"github.com/matzehuels/twbisect/pkg/observability"
	"github.com/matzehuels/twbisect/pkg/pipeline"
	"github.com/matzehuels/twbisect/pkg/store"
)

// maxBodyBytes bounds a /v1/bisect request: two payloads plus JSON overhead.
const maxBodyBytes = 2*twerrors.MaxPayloadBytes + 64<<10

// Server serves the HTTP API.
type Server struct {
	Runner  *pipeline.Runner
	Store   store.Store // optional; run routes answer 501 without it
	Logger  *log.Logger
	Workers int // default worker count for requests that do not set one
}

// New creates a server around runner. The runner's store backs the run routes.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Store: runner.Store, Logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/bisect", s.bisect)
		r.Get("/runs", s.listRuns)
		r.Get("/runs/{id}", s.getRun)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// observe reports requests to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.Logger.Debug("http", "method", r.Method, "route", route, "status", ww.Status(),
			"duration", time.Since(start), "request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) bisect(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, twerrors.Wrap(twerrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if opts.Workers == 0 {
		opts.Workers = s.Workers
	}

	res, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		s.writeError(w, twerrors.New(twerrors.ErrCodeUnsupported, "run history is disabled"))
		return
	}
	limit := store.DefaultLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 1000 {
			s.writeError(w, twerrors.New(twerrors.ErrCodeInvalidInput, "limit must be in [1,1000], got %q", q))
			return
		}
		limit = n
	}
	runs, err := s.Store.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		s.writeError(w, twerrors.New(twerrors.ErrCodeUnsupported, "run history is disabled"))
		return
	}
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		s.writeError(w, err)
		return
	}
	run, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    twerrors.Code `json:"code"`
	Message string        `json:"message"`
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case twerrors.IsInputError(err):
		return http.StatusBadRequest
	case twerrors.Is(err, twerrors.ErrCodeCapacityExceeded):
		return http.StatusUnprocessableEntity
	case twerrors.Is(err, twerrors.ErrCodeNotFound):
		return http.StatusNotFound
	case twerrors.Is(err, twerrors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	code := twerrors.GetCode(err)
	if code == "" {
		code = twerrors.ErrCodeInternal
	}
	msg := twerrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
