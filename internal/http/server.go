package http

import (
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"wikiprofile/app/internal/entry"
	"wikiprofile/app/internal/user"
)

// Options configures the HTTP server wiring.
type Options struct {
	UserService  user.Service
	EntryService entry.Service
	Database     *gorm.DB
	JWTSecret    []byte
	Logger       *logrus.Logger
	SentryHub    *sentry.Hub
	RateLimiter  RateLimiterSettings
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the JSON API transport layer via Huma.
type Server struct {
	api         huma.API
	mux         *stdhttp.ServeMux
	users       user.Service
	entries     entry.Service
	jwtSecret   []byte
	logger      *logrus.Logger
	sentry      *sentry.Hub
	db          *gorm.DB
	rateLimiter *RateLimiter
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.UserService == nil {
		return nil, eris.New("user service is required")
	}
	if opts.EntryService == nil {
		return nil, eris.New("entry service is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}
	if len(opts.JWTSecret) == 0 {
		return nil, eris.New("jwt secret is required")
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("Wikiprofile", "1.0.0")

	api := humago.New(mux, config)

	srv := &Server{
		api:       api,
		mux:       mux,
		users:     opts.UserService,
		entries:   opts.EntryService,
		jwtSecret: opts.JWTSecret,
		logger:    opts.Logger,
		sentry:    opts.SentryHub,
		db:        opts.Database,
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		return nil, eris.New("rate limiter burst must be greater than zero")
	}
	if settings.RequestsPerSecond <= 0 {
		return nil, eris.New("rate limiter requests per second must be greater than zero")
	}
	if settings.ClientTTL <= 0 {
		return nil, eris.New("rate limiter client TTL must be greater than zero")
	}

	srv.rateLimiter = NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL)

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.authMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerEntryRoutes()
	s.registerAdminRoutes()
	s.registerHealthRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
