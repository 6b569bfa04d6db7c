package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rpupo63/shooting-roster/config"
	"github.com/rpupo63/shooting-roster/database"
	"github.com/rpupo63/shooting-roster/services"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// RouterOption customises the router built by NewServer.
type RouterOption func(*router)

func NewServer(cfg config.Config, database database.Database, opts ...RouterOption) (Server, error) {
	startupTime := time.Now()

	opts = append([]RouterOption{withConfig(cfg), withStartupTime(startupTime)}, opts...)
	router, err := newRouter(database, opts...)
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      config.Config
	startupTime time.Time
	now         func() time.Time
	redis       *redis.Client
	images      *services.ImageStore
}

func withConfig(c config.Config) RouterOption {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) RouterOption {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// WithClock replaces time.Now when resolving the default year and session expiry.
func WithClock(now func() time.Time) RouterOption {
	return func(r *router) {
		r.now = now
	}
}

// WithRedis enables the facet cache.
func WithRedis(client *redis.Client) RouterOption {
	return func(r *router) {
		r.redis = client
	}
}

// WithImageStore enables cover image uploads.
func WithImageStore(store *services.ImageStore) RouterOption {
	return func(r *router) {
		r.images = store
	}
}

func newRouter(database database.Database, opts ...RouterOption) (*chi.Mux, error) {
	router := router{now: time.Now}
	for _, opt := range opts {
		opt(&router)
	}

	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	m := newMetrics(database)

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(m.middleware)

	acceptedOrigins := router.config.AcceptedOrigins
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	sessions := services.NewSessionManager(router.config.Session, router.now)
	handlers := initializeHandlers(database, router, sessions, p, m)
	auth := newAuthMiddleware(sessions)

	setupRoutes(chiRouter, handlers, auth, m)

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("HttpServer gracefully shut down")
	}
}
