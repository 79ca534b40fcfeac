package internal

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
)

// Server owns the room state engine and exposes it over the polling HTTP
// protocol. Every poll is independent and stateless on the wire: idempotent
// GETs for snapshots, one mutating POST per append or touch.
type Server struct {
	messages *MessageLog
	presence *PresenceRegistry
	metrics  *Metrics
	logger   zerolog.Logger
}

func NewServer(messages *MessageLog, presence *PresenceRegistry, logger zerolog.Logger) *Server {
	return &Server{
		messages: messages,
		presence: presence,
		metrics:  NewMetrics(),
		logger:   logger,
	}
}

// Routes builds the HTTP surface. Mutating endpoints sit behind a per-IP
// rate limit; snapshot polls are left unthrottled since clients hit them on
// a fixed interval anyway.
func (s *Server) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/messages", s.HandleListMessages)
	router.Get("/typing", s.HandleTypingStatus)

	router.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(60, time.Minute))
		r.Post("/messages", s.HandleAppendMessage)
		r.Post("/typing", s.HandleTouchTyping)
	})

	router.Get("/healthz", s.HandleHealth)
	router.Method(http.MethodGet, "/metrics", s.MetricsHandler())

	return router
}

// MetricsHandler exposes the counters endpoint.
func (s *Server) MetricsHandler() http.Handler {
	return s.metrics
}
