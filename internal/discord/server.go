package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/GuildStatsBot_Go/internal/metrics"
	"github.com/osse101/GuildStatsBot_Go/internal/server"
)

// HTTPServer serves health and metrics endpoints next to the bot
type HTTPServer struct {
	server  *http.Server
	bot     *Bot
	limiter *server.RateLimiter
}

// NewHTTPServer creates a new HTTP server. A nil limiter leaves the endpoints unthrottled.
func NewHTTPServer(port int, bot *Bot, limiter *server.RateLimiter) *HTTPServer {
	srv := &HTTPServer{bot: bot, limiter: limiter}
	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

// Routes builds the router
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(server.SecurityHeaders)
	if s.limiter != nil {
		r.Use(s.limiter.Middleware)
	}
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start starts the HTTP server
func (s *HTTPServer) Start() {
	go func() {
		slog.Info("Starting health server", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Health server failed", "error", err)
		}
	}()
}

// Stop stops the HTTP server
func (s *HTTPServer) Stop(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("Health server shutdown failed", "error", err)
	}
}
