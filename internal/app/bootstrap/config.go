// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/courtside/internal/app/system/auditlog"
	"github.com/dalemusser/courtside/internal/app/system/roster"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Courtside.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_token_key, etc.
//   - Environment variables: COURTSIDE_MONGO_URI, COURTSIDE_AUTH_TOKEN_KEY, etc.
//   - Command-line flags: --mongo_uri, --auth_token_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "courtside", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Identity tokens and sessions
	{Name: "auth_token_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Key that verifies bearer tokens and signs session cookies (min 32 chars)"},
	{Name: "auth_token_name", Default: "courtside-session", Desc: "Session cookie name"},
	{Name: "auth_max_age", Default: "720h", Desc: "Token and session lifetime (e.g., 24h, 720h)"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_secure", Default: false, Desc: "Mark session cookies Secure and SameSite=None"},

	// CORS
	{Name: "cors_allowed_origins", Default: "http://localhost:8081,http://localhost:19006", Desc: "Comma-separated origins allowed to call the API"},

	// Roster concurrency
	{Name: "roster_max_attempts", Default: roster.DefaultMaxAttempts, Desc: "Attempts per roster operation on version conflicts"},
	{Name: "roster_retry_initial", Default: roster.DefaultInitialBackoff.String(), Desc: "Initial backoff between roster attempts"},
	{Name: "roster_retry_max", Default: roster.DefaultMaxBackoff.String(), Desc: "Maximum backoff between roster attempts"},
	{Name: "roster_rate_limit", Default: 30, Desc: "Meetup write requests per user per minute (0 disables)"},

	// Listing
	{Name: "list_limit", Default: 50, Desc: "Maximum items returned by list endpoints"},

	// Audit logging
	{Name: "audit_log_roster", Default: "all", Desc: "Roster event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Timeouts
	{Name: "timeout_short", Default: "", Desc: "Timeout for single-document reads (e.g., 5s)"},
	{Name: "timeout_medium", Default: "", Desc: "Timeout for lists and roster operations (e.g., 10s)"},
}

// LoadConfig loads WAFFLE core config and Courtside's app config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, COURTSIDE_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COURTSIDE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		// Tokens and sessions
		AuthTokenKey:  appValues.String("auth_token_key"),
		AuthTokenName: appValues.String("auth_token_name"),
		AuthMaxAge:    appValues.Duration("auth_max_age", 30*24*time.Hour),
		SessionDomain: appValues.String("session_domain"),
		SessionSecure: appValues.Bool("session_secure"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		// Roster
		RosterMaxAttempts:  appValues.Int("roster_max_attempts"),
		RosterRetryInitial: appValues.Duration("roster_retry_initial", roster.DefaultInitialBackoff),
		RosterRetryMax:     appValues.Duration("roster_retry_max", roster.DefaultMaxBackoff),
		RosterRateLimit:    appValues.Int("roster_rate_limit"),

		ListLimit: int64(appValues.Int("list_limit")),

		AuditLogRoster: appValues.String("audit_log_roster"),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
	}

	// Production always gets secure cookies.
	if coreCfg.Env == "prod" && !appCfg.SessionSecure {
		appCfg.SessionSecure = true
		logger.Info("forcing secure session cookies in prod")
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// It rejects a malformed MongoDB URI before any connection is attempted,
// and catches settings that would make the roster or auth layers unusable.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if len(appCfg.AuthTokenKey) < 32 {
		return fmt.Errorf("auth_token_key must be at least 32 characters (got %d)", len(appCfg.AuthTokenKey))
	}
	if coreCfg.Env == "prod" && strings.HasPrefix(appCfg.AuthTokenKey, "dev-only") {
		return fmt.Errorf("auth_token_key must be changed from the development default in prod")
	}
	if appCfg.AuthMaxAge <= 0 {
		return fmt.Errorf("auth_max_age must be positive")
	}
	if appCfg.RosterMaxAttempts < 1 {
		return fmt.Errorf("roster_max_attempts must be at least 1 (got %d)", appCfg.RosterMaxAttempts)
	}
	if appCfg.RosterRetryMax < appCfg.RosterRetryInitial {
		return fmt.Errorf("roster_retry_max (%s) is below roster_retry_initial (%s)", appCfg.RosterRetryMax, appCfg.RosterRetryInitial)
	}
	if appCfg.RosterRateLimit < 0 {
		return fmt.Errorf("roster_rate_limit cannot be negative")
	}
	if appCfg.ListLimit < 1 {
		return fmt.Errorf("list_limit must be at least 1")
	}
	if !auditlog.Valid(appCfg.AuditLogRoster) {
		return fmt.Errorf("audit_log_roster must be one of all, db, log, off (got %q)", appCfg.AuditLogRoster)
	}
	return nil
}

// splitList splits a comma-separated setting, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
