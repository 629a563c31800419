// Package timeouts provides centralized timeout values for handler operations.
//
// Handlers wrap database work in context.WithTimeout using these values so
// a slow Mongo cannot pin a request forever. Configure at startup; the
// defaults apply otherwise.
//
// Guidelines:
//   - Ping: health checks
//   - Short: single-document reads (get meetup, get profile)
//   - Medium: list queries and roster operations, including their retries
//   - Long: startup schema work (validators, indexes)
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 60 * time.Second
)

// Config holds timeout configuration values.
// Zero values are ignored (current values are kept).
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Config {
	return Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
	}
}

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Ping
}

// Short returns the timeout for single-document reads.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Short
}

// Medium returns the timeout for list queries and roster operations.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Medium
}

// Long returns the timeout for startup schema work.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Long
}

// Configure sets custom timeout values. Zero values in cfg are ignored.
// Call during startup before handlers are built.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	merge(&current.Ping, cfg.Ping)
	merge(&current.Short, cfg.Short)
	merge(&current.Medium, cfg.Medium)
	merge(&current.Long, cfg.Long)
}

func merge(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults()
}

// ConfigureFromEnv reads COURTSIDE_TIMEOUT_{PING,SHORT,MEDIUM,LONG}
// (Go duration strings such as "2s" or "500ms"). Unset or invalid values
// are skipped. Returns the number of timeouts configured.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for name, dst := range map[string]*time.Duration{
		"COURTSIDE_TIMEOUT_PING":   &cfg.Ping,
		"COURTSIDE_TIMEOUT_SHORT":  &cfg.Short,
		"COURTSIDE_TIMEOUT_MEDIUM": &cfg.Medium,
		"COURTSIDE_TIMEOUT_LONG":   &cfg.Long,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// WithTimeout creates a context with timeout and returns a cancel function
// that logs a warning if the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "approve player")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
