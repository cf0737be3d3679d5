// Package server exposes the charge, risk, journal and fund lookups as a
// JSON API.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradebook/charges"
	"github.com/rustyeddy/tradebook/funds"
	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/risk"
)

// Store is the journal as the API sees it.
type Store interface {
	journal.Journal
	journal.Reader
}

// Config holds server configuration
type Config struct {
	Addr string
	Log  zerolog.Logger

	// Journal and Funds are optional; their routes answer 503 without them.
	Journal Store
	Funds   *funds.Directory

	// Profile prices trades that name no broker. Nil means the default profile.
	Profile *charges.BrokerChargeProfile
	Policy  risk.Policy

	Location    *time.Location
	CORSOrigins []string

	Now func() time.Time
}

// Server represents the HTTP server
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	metrics *Metrics

	store   Store
	funds   *funds.Directory
	profile *charges.BrokerChargeProfile
	policy  risk.Policy
	loc     *time.Location
	now     func() time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		log:     cfg.Log.With().Str("component", "server").Logger(),
		metrics: NewMetrics(),
		store:   cfg.Journal,
		funds:   cfg.Funds,
		profile: cfg.Profile,
		policy:  cfg.Policy,
		loc:     cfg.Location,
		now:     cfg.Now,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.setupMiddleware(cfg.CORSOrigins)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(30 * time.Second))

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/charges", func(r chi.Router) {
			r.Post("/net-pnl", s.handleNetPnl)
			r.Post("/delivery", s.handleDelivery)
		})

		r.Get("/brokers", s.handleBrokers)
		r.Get("/brokers/{name}", s.handleBroker)

		r.Route("/risk", func(r chi.Router) {
			r.Post("/position-size", s.handlePositionSize)
			r.Post("/risk-reward", s.handleRiskReward)
			r.Post("/recommendation", s.handleRecommendation)
			r.Post("/check", s.handleRiskCheck)
		})

		r.Route("/trades", func(r chi.Router) {
			r.Get("/", s.handleTrades)
			r.Post("/", s.handleRecordTrade)
			r.Get("/open", s.handleOpenTrades)
			r.Get("/{id}", s.handleTrade)
			r.Post("/{id}/close", s.handleCloseTrade)
		})
		r.Get("/stats", s.handleStats)

		r.Get("/funds", s.handleFundSearch)
		r.Get("/funds/{code}", s.handleFund)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests and records their metrics
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		s.metrics.Requests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		s.metrics.Duration.WithLabelValues(route).Observe(elapsed.Seconds())

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", elapsed).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"journal": s.store != nil,
		"funds":   s.funds != nil,
	})
}
