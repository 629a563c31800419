// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for Courtside.
//
// These values come from environment variables (COURTSIDE_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers ports, TLS, logging and the environment name; everything the
// meetup service itself needs lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Identity tokens and cookie sessions
	AuthTokenKey  string        // Secret that verifies bearer tokens and signs session cookies (>= 32 chars)
	AuthTokenName string        // Session cookie name; tokens use "<name>-token"
	AuthMaxAge    time.Duration // Lifetime of tokens and cookie sessions
	SessionDomain string        // Cookie domain (blank means current host)
	SessionSecure bool          // Secure + SameSite=None cookies

	// CORS
	CORSAllowedOrigins []string

	// Roster concurrency
	RosterMaxAttempts  int           // Attempts per roster operation before ErrVersionConflict
	RosterRetryInitial time.Duration // First backoff between attempts
	RosterRetryMax     time.Duration // Backoff ceiling
	RosterRateLimit    int           // Meetup writes per user per minute (0 disables)

	// Listing
	ListLimit int64 // Max meetups or events returned by a list endpoint

	// Audit logging: "all", "db", "log", or "off"
	AuditLogRoster string

	// Handler timeouts (zero keeps the defaults)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
