// Package server exposes the resolver over a small JSON HTTP API.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ppiankov/raychel/internal/model"
)

const (
	maxRequestBody  = 64 << 10
	shutdownTimeout = 10 * time.Second
)

// Resolver answers one question
type Resolver interface {
	Resolve(ctx context.Context, question string) model.Resolution
}

// AskRequest is the body of POST /api/ask
type AskRequest struct {
	Question string `json:"question"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the HTTP API
type Server struct {
	resolver Resolver
	apiKey   string
	logger   *zap.Logger
	handler  http.Handler
}

// New builds a server. An empty cfg.APIKey disables authentication.
func New(resolver Resolver, cfg model.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		resolver: resolver,
		apiKey:   cfg.APIKey,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/ask", s.requireKey(http.HandlerFunc(s.handleAsk)))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handler = otelhttp.NewHandler(mux, "raychel")
	return s
}

// Handler returns the instrumented route tree
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}

	res := s.resolver.Resolve(r.Context(), question)
	s.logger.Info("answered",
		zap.String("id", res.ID),
		zap.String("tool", string(res.Tool)),
		zap.Duration("elapsed", res.Elapsed),
	)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireKey accepts the key from "Authorization: Bearer <key>" or X-API-Key
func (s *Server) requireKey(next http.Handler) http.Handler {
	if s.apiKey == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get("X-API-Key")
		if auth := r.Header.Get("Authorization"); auth != "" {
			scheme, token, found := strings.Cut(auth, " ")
			if found && strings.EqualFold(scheme, "bearer") {
				provided = strings.TrimSpace(token)
			}
		}

		if provided == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "API key required (Authorization: Bearer <key> or X-API-Key)"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(s.apiKey)) != 1 {
			s.logger.Warn("invalid API key", zap.String("path", r.URL.Path), zap.String("remote", r.RemoteAddr))
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
