package auditlog_test

import (
	"testing"
	"time"

	"github.com/dalemusser/courtside/internal/app/store/audit"
	"github.com/dalemusser/courtside/internal/app/system/auditlog"
	"github.com/dalemusser/courtside/internal/app/system/roster"
	"github.com/dalemusser/courtside/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.Record(ctx, roster.Event{Type: roster.EventJoinRequested})
}

func TestLogger_Record_ConfigLogOnly(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// No store: "log" must never touch MongoDB.
	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Roster: auditlog.Log})
	logger.Record(ctx, roster.Event{
		OpID:     "op-1",
		Type:     roster.EventPlayerApproved,
		MeetupID: primitive.NewObjectID(),
		ActorID:  "host",
		UserID:   "player",
		Version:  3,
		At:       time.Now().UTC(),
	})

	entries := logs.FilterMessage("audit event").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["event_type"] != roster.EventPlayerApproved {
		t.Errorf("event_type = %v", fields["event_type"])
	}
	if fields["user_id"] != "player" || fields["actor_id"] != "host" {
		t.Errorf("unexpected identity fields: %v", fields)
	}
}

func TestLogger_Record_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	core, logs := observer.New(zap.DebugLevel)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.New(core), auditlog.Config{Roster: auditlog.Off})
	meetupID := primitive.NewObjectID()
	logger.Record(ctx, roster.Event{Type: roster.EventJoinRequested, MeetupID: meetupID})

	events, err := store.ListByMeetup(ctx, meetupID, 10)
	if err != nil {
		t.Fatalf("ListByMeetup failed: %v", err)
	}
	if len(events) != 0 {
		t.Error("expected no events when config is 'off'")
	}
	if logs.Len() != 0 {
		t.Errorf("expected no log entries, got %d", logs.Len())
	}
}

func TestLogger_Record_ConfigDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	core, logs := observer.New(zap.DebugLevel)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.New(core), auditlog.Config{Roster: auditlog.DB})
	meetupID := primitive.NewObjectID()
	logger.Record(ctx, roster.Event{
		OpID:     "op-2",
		Type:     roster.EventMeetupCancelled,
		MeetupID: meetupID,
		ActorID:  "host",
		Version:  4,
		Details:  map[string]string{"reason": "rain"},
	})

	events, err := store.ListByMeetup(ctx, meetupID, 10)
	if err != nil {
		t.Fatalf("ListByMeetup failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Details["reason"] != "rain" || events[0].OpID != "op-2" {
		t.Errorf("unexpected stored event: %+v", events[0])
	}
	if logs.FilterMessage("audit event").Len() != 0 {
		t.Error("expected no zap audit entry when config is 'db'")
	}
}

func TestValid(t *testing.T) {
	for _, s := range []string{"all", "db", "log", "off"} {
		if !auditlog.Valid(s) {
			t.Errorf("Valid(%q) = false", s)
		}
	}
	if auditlog.Valid("everything") {
		t.Error("Valid(\"everything\") = true")
	}
}
