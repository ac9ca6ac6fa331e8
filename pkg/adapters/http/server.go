package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tinysplit"
	"github.com/aretw0/tinysplit/internal/logging"
	"github.com/aretw0/tinysplit/pkg/domain"
	"github.com/aretw0/tinysplit/pkg/observability"
	"github.com/aretw0/tinysplit/pkg/runner"
	"github.com/aretw0/tinysplit/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Server exposes stateless splitting and persisted sessions over HTTP.
type Server struct {
	Manager *session.Manager
	Metrics *observability.Metrics
	Streams *StreamManager
	Logger  *slog.Logger

	sessionOpts []tinysplit.Option
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics records every processed line and serves GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithSessionOptions configures the sessions used by POST /split.
// Persisted sessions take theirs from the Manager.
func WithSessionOptions(opts ...tinysplit.Option) Option {
	return func(s *Server) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

// SplitResponse is the body returned by POST /split.
type SplitResponse struct {
	Records []domain.LineRecord `json:"records"`
	Final   *domain.LineRecord  `json:"final"`
}

// NewServer creates a Server backed by manager.
func NewServer(manager *session.Manager, opts ...Option) *Server {
	s := &Server{
		Manager: manager,
		Logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.Logger)
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/split", s.Split)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/lines", s.FeedLines)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}
	return enableCORS(r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "tinysplit-http",
		"version": strings.TrimSpace(tinysplit.Version),
	})
}

// Split handles POST /split: the body is split in a fresh session that is not stored.
func (s *Server) Split(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	opts := s.sessionOpts
	if s.Metrics != nil {
		opts = append(opts[:len(opts):len(opts)], tinysplit.WithHooks(s.Metrics.Hooks()))
	}
	records, final, err := runner.CollectString(r.Context(), text,
		runner.WithSessionOptions(opts...),
		runner.WithLogger(s.Logger),
	)
	if err != nil {
		s.writeError(w, "Split failed", err)
		return
	}
	s.observe(records)

	s.writeJSON(w, http.StatusOK, SplitResponse{Records: records, Final: final})
}

// FeedLines handles POST /sessions/{id}/lines: the body is appended to the session.
func (s *Server) FeedLines(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	text, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	res, err := s.Manager.Feed(r.Context(), id, runner.SplitLines(text))
	if err != nil {
		s.writeError(w, "Feed failed", err, "session_id", id)
		return
	}
	s.observe(res.Records)

	if res.Diff != nil && s.Streams.Subscribers(id) > 0 {
		if payload, err := json.Marshal(res.Diff); err == nil {
			s.Streams.Broadcast(id, string(payload))
		}
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.Manager.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, "Load failed", err, "session_id", id)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Manager.Delete(r.Context(), id); err != nil {
		s.writeError(w, "Delete failed", err, "session_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Manager.List(r.Context())
	if err != nil {
		s.writeError(w, "List failed", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// SubscribeEvents handles GET /sessions/{id}/events: every change to the
// session's stack is sent as a JSON SnapshotDiff in an SSE data frame.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()
	s.Logger.Info("SSE: Subscribing to session updates", "session_id", id)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: Client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// ListenAndServe serves the handler on port until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("HTTP server listening", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) observe(records []domain.LineRecord) {
	if s.Metrics == nil {
		return
	}
	for _, rec := range records {
		s.Metrics.ObserveRecord(rec)
	}
}

// readDocument reads and sanitizes the request body. On failure it has
// already written the response.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, int64(runner.MaxInputSize())+1))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		s.Logger.Warn("Invalid request body", "err", err)
		return "", false
	}

	text, err := runner.SanitizeInput(string(body))
	if err != nil {
		s.writeError(w, "Input rejected", err, "size", len(body))
		return "", false
	}
	return text, true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, runner.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, runner.ErrInvalidUTF8), errors.Is(err, runner.ErrLineTooLong):
		return http.StatusBadRequest
	case tinysplit.IsFatal(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, msg string, err error, attrs ...any) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(msg, append(attrs, "err", err)...)
	} else {
		s.Logger.Warn(msg, append(attrs, "err", err)...)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}
