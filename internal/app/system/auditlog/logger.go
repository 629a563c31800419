// internal/app/system/auditlog/logger.go
package auditlog

// Terminology: User Identifiers
//   - ActorID / actor_id: the uid of the user who performed the operation
//   - UserID / user_id: the uid of the player the operation affected

import (
	"context"

	"github.com/dalemusser/courtside/internal/app/store/audit"
	"github.com/dalemusser/courtside/internal/app/system/roster"
	"go.uber.org/zap"
)

// Destinations accepted by Config.Roster.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off" // disabled
)

// Config holds audit logging configuration.
type Config struct {
	// Roster controls logging for committed roster changes.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Roster string
}

// Valid reports whether s is an accepted destination.
func Valid(s string) bool {
	switch s {
	case All, DB, Log, Off:
		return true
	}
	return false
}

// Logger records roster events. It implements roster.Recorder and logs to
// MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

var _ roster.Recorder = (*Logger)(nil)

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// Record converts a roster event and logs it.
func (l *Logger) Record(ctx context.Context, ev roster.Event) {
	l.Log(ctx, audit.Event{
		Timestamp: ev.At,
		MeetupID:  ev.MeetupID,
		EventType: ev.Type,
		OpID:      ev.OpID,
		Version:   ev.Version,
		ActorID:   ev.ActorID,
		UserID:    ev.UserID,
		Details:   ev.Details,
	})
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("event_type", event.EventType),
		zap.String("meetup_id", event.MeetupID.Hex()),
		zap.String("op_id", event.OpID),
		zap.Int64("version", event.Version),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	l.zapLog.Info("audit event", fields...)
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// An empty setting is treated as "all".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.config.Roster
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}

	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
				zap.String("meetup_id", event.MeetupID.Hex()),
			)
		}
	}
}
