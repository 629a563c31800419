// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/courtside/internal/app/features/errors"
	healthfeature "github.com/dalemusser/courtside/internal/app/features/health"
	meetupsfeature "github.com/dalemusser/courtside/internal/app/features/meetups"
	profilesfeature "github.com/dalemusser/courtside/internal/app/features/profiles"
	sessionfeature "github.com/dalemusser/courtside/internal/app/features/session"
	"github.com/dalemusser/courtside/internal/app/store/audit"
	meetupstore "github.com/dalemusser/courtside/internal/app/store/meetups"
	"github.com/dalemusser/courtside/internal/app/system/auditlog"
	"github.com/dalemusser/courtside/internal/app/system/auth"
	"github.com/dalemusser/courtside/internal/app/system/ratelimit"
	"github.com/dalemusser/courtside/internal/app/system/roster"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for Courtside.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It builds the shared roster Manager
// (meetup store, audit recorder, metrics, retry policy), applies the
// global middleware, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	sessionMgr, err := auth.NewSessionManager(appCfg.AuthTokenKey, appCfg.AuthTokenName, appCfg.SessionDomain,
		appCfg.AuthMaxAge, appCfg.SessionSecure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Each handler gets its own registry so repeated builds (tests) never
	// collide on registration.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	db := deps.MongoDatabase
	recorder := auditlog.New(audit.New(db), logger, auditlog.Config{Roster: appCfg.AuditLogRoster})
	rosterMgr := roster.NewManager(meetupstore.New(db), logger, roster.Options{
		MaxAttempts:    appCfg.RosterMaxAttempts,
		InitialBackoff: appCfg.RosterRetryInitial,
		MaxBackoff:     appCfg.RosterRetryMax,
		Recorder:       recorder,
		Metrics:        roster.NewMetrics(reg),
	})

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global auth middleware: loads the user from a bearer token or cookie
	// session. Feature routers decide whether sign-in is required.
	r.Use(sessionMgr.LoadUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, "courtside", logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	sessionHandler := sessionfeature.NewHandler(sessionMgr, errLog, logger)
	r.Mount("/session", sessionfeature.Routes(sessionHandler))

	var writeLimiter *ratelimit.Limiter
	if appCfg.RosterRateLimit > 0 {
		writeLimiter = ratelimit.New(appCfg.RosterRateLimit, time.Minute)
		running.add(writeLimiter.Stop)
	}
	meetupsHandler := meetupsfeature.NewHandler(db, rosterMgr, errLog, appCfg.ListLimit, logger)
	r.Mount("/meetups", meetupsfeature.Routes(meetupsHandler, sessionMgr, writeLimiter))

	profilesHandler := profilesfeature.NewHandler(db, errLog, logger)
	r.Mount("/profiles", profilesfeature.Routes(profilesHandler, sessionMgr))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorsfeature.NotFound(w, "No such endpoint.")
	})

	return r, nil
}
