package api

import (
	"GuildVerify/internal/shared/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Server runs the public HTTP API.
type Server struct {
	cfg     *config.HTTPConfig
	handler http.Handler
	log     zerolog.Logger
}

// NewServer builds the router, CORS layer and request logging.
func NewServer(cfg *config.HTTPConfig, ctrl *Controller, baseLogger *zerolog.Logger) *Server {
	log := baseLogger.With().Str("component", "http_server").Logger()

	router := mux.NewRouter()
	router.Use(requestLogger(log))
	router.HandleFunc(RouteHealth, ctrl.Health).Methods(http.MethodGet)
	router.HandleFunc(RouteGuilds, ctrl.ListGuilds).Methods(http.MethodGet)
	router.HandleFunc(RouteCheckUsername, ctrl.CheckUsername).Methods(http.MethodPost)
	router.HandleFunc(RouteRequestVerification, ctrl.RequestVerification).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return &Server{
		cfg:     cfg,
		handler: c.Handler(router),
		log:     log,
	}
}

// Handler exposes the full handler chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("Starting HTTP API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			s.log.Error().Err(err).Msg("HTTP API server failed")
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error().Err(err).Msg("HTTP API server shutdown error")
		return err
	}
	s.log.Info().Msg("HTTP API server stopped gracefully")
	return nil
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger attaches a per-request logger to the context and logs the outcome.
func requestLogger(base zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := base.With().
				Str("request_id", uuid.NewString()).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(log.WithContext(r.Context())))

			log.Info().
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}
