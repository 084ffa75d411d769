// Package api serves the ranking engine over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"artmatch/internal/common/database"
	"artmatch/internal/common/logger"
	"artmatch/internal/matching"
)

const (
	defaultReadyTimeout = 2 * time.Second
	maxBodyBytes        = 4 << 20
)

type Options struct {
	Service *matching.Service
	// Provider backs GET /v1/projects/{projectID}/rankings. Without one the
	// route answers 503.
	Provider     matching.DataProvider
	Checkers     []database.Checker
	DefaultTopN  int
	ReadyTimeout time.Duration
	Logger       logger.Logger
}

type Handler struct {
	service      *matching.Service
	provider     matching.DataProvider
	checkers     []database.Checker
	defaultTopN  int
	readyTimeout time.Duration
	logger       logger.Logger
}

func NewHandler(opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	service := opts.Service
	if service == nil {
		service = matching.NewService(nil, nil, log)
	}
	timeout := opts.ReadyTimeout
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	return &Handler{
		service:      service,
		provider:     opts.Provider,
		checkers:     opts.Checkers,
		defaultTopN:  opts.DefaultTopN,
		readyTimeout: timeout,
		logger:       log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(handler.logger))
	r.Use(loggingMiddleware(handler.logger))

	r.Get("/health", handler.health)
	r.Get("/ready", handler.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/rankings", handler.rankInline)
		r.Get("/projects/{projectID}/rankings", handler.rankProject)
	})

	return r
}
