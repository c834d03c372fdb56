// Package control exposes the recording triggers and pipeline status over
// HTTP so the assistant can be driven without a keyboard.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"voice-assistant/internal/application"
	"voice-assistant/internal/domain"
)

const maxTextBytes = 4096

type Pipeline interface {
	HandleTrigger(ctx context.Context, t application.Trigger) error
	SendText(ctx context.Context, text string) error
	Status() application.StatusSnapshot
}

type Server struct {
	addr        string
	server      *http.Server
	pipeline    Pipeline
	logger      *slog.Logger
	mu          sync.Mutex
	running     bool
	mux         *http.ServeMux
	rateLimiter *RateLimiter
	authToken   string
}

// NewServer wires the routes. metrics may be nil to leave /metrics unmounted.
func NewServer(addr, authToken string, pipeline Pipeline, metrics http.Handler, logger *slog.Logger) *Server {
	s := &Server{
		addr:        addr,
		pipeline:    pipeline,
		logger:      logger,
		mux:         http.NewServeMux(),
		rateLimiter: NewRateLimiter(30, time.Minute),
		authToken:   authToken,
	}

	s.mux.HandleFunc("POST /record/start", s.rateLimiter.Middleware(s.authorize(s.handleStart)))
	s.mux.HandleFunc("POST /record/stop", s.rateLimiter.Middleware(s.authorize(s.handleStop)))
	s.mux.HandleFunc("POST /text", s.rateLimiter.Middleware(s.authorize(s.handleText)))
	s.mux.HandleFunc("GET /status", s.handleStatus)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	if metrics != nil {
		s.mux.Handle("GET /metrics", metrics)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("control server starting", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("control server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
		if err := s.server.Close(); err != nil {
			return fmt.Errorf("closing server: %w", err)
		}
	}

	s.running = false
	return nil
}

// authorize accepts the token from X-Auth-Token or the token query
// parameter. An empty configured token disables the check.
func (s *Server) authorize(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken != "" {
			token := r.Header.Get("X-Auth-Token")
			if token == "" {
				token = r.URL.Query().Get("token")
			}
			if token != s.authToken {
				s.logger.Warn("unauthorized control request", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	err := s.pipeline.HandleTrigger(r.Context(), application.TriggerStart)
	switch {
	case errors.Is(err, domain.ErrCaptureUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusAccepted, s.pipeline.Status())
	}
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if err := s.pipeline.HandleTrigger(r.Context(), application.TriggerStop); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, s.pipeline.Status())
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxTextBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	err = s.pipeline.SendText(r.Context(), string(data))
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "empty text")
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Info("received text via control server", "chars", len(data))
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.pipeline.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	status := s.pipeline.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"running":    running,
		"queue_size": status.Pending,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
