package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rpupo63/portfolio-api/auth"
	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// Dependencies are the collaborators the HTTP layer is built on.
type Dependencies struct {
	Database database.Database
	Tokens   *auth.TokenService
	Storage  objectStore
}

func NewServer(cfg *config.Config, deps Dependencies) (Server, error) {
	if deps.Tokens == nil || deps.Storage == nil {
		return Server{}, errors.New("token service and storage are required")
	}

	address := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	startupTime := time.Now()

	router := newRouter(deps,
		withConfig(cfg),
		withStartupTime(startupTime),
		withLogger(log.Logger),
	)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	production     bool
	corsOrigins    []string
	bodyLimitBytes int64
	startupTime    time.Time
	logger         zerolog.Logger
}

func withConfig(c *config.Config) func(*router) {
	return func(r *router) {
		r.production = c.IsProduction()
		r.corsOrigins = c.CORSOrigins
		r.bodyLimitBytes = c.BodyLimitBytes
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withLogger(logger zerolog.Logger) func(*router) {
	return func(r *router) {
		r.logger = logger
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	router := router{
		bodyLimitBytes: 1 << 20,
		logger:         log.Logger,
	}
	for _, opt := range opts {
		opt(&router)
	}

	responder := NewResponder(router.logger.With().Str("handlerName", "router").Logger(), router.production)

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(httpLogging(router.logger))
	chiRouter.Use(recoverPanics(responder, router.logger))
	if len(router.corsOrigins) > 0 {
		chiRouter.Use(cors.Handler(cors.Options{
			AllowedOrigins: router.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	chiRouter.NotFound(notFound(responder))
	chiRouter.MethodNotAllowed(notFound(responder))

	handlers := initializeHandlers(deps, router)
	authMiddleware := newAuthMiddleware(deps.Tokens, responder)

	setupRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

// Start blocks serving HTTP until the server is shut down.
func (s Server) Start() error {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s Server) ShutdownGracefully(timeout time.Duration) error {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("Gracefully shutting down...")

	gracefulCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefulCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down the server")
		return err
	}
	log.Info().Msg("HttpServer gracefully shut down")
	return nil
}
