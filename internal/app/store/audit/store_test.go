package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/courtside/internal/app/store/audit"
	"github.com/dalemusser/courtside/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	meetupID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		MeetupID:  meetupID,
		EventType: "join_requested",
		OpID:      "op-1",
		ActorID:   "player-a",
		UserID:    "player-a",
		Version:   2,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.ListByMeetup(ctx, meetupID, 10)
	if err != nil {
		t.Fatalf("ListByMeetup failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be generated")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
	if events[0].UserID != "player-a" || events[0].Version != 2 {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestStore_ListByMeetup_OrderAndScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	meetupID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	base := time.Now().UTC().Truncate(time.Millisecond)

	types := []string{"meetup_created", "join_requested", "player_approved"}
	for i, et := range types {
		if err := store.Log(ctx, audit.Event{
			MeetupID:  meetupID,
			EventType: et,
			Version:   int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}
	if err := store.Log(ctx, audit.Event{MeetupID: other, EventType: "meetup_created", Version: 1}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.ListByMeetup(ctx, meetupID, 0)
	if err != nil {
		t.Fatalf("ListByMeetup failed: %v", err)
	}
	if len(events) != len(types) {
		t.Fatalf("expected %d events, got %d", len(types), len(events))
	}
	for i, et := range types {
		if events[i].EventType != et {
			t.Errorf("events[%d] = %q, want %q", i, events[i].EventType, et)
		}
	}
}

func TestStore_CountByFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	meetupID := primitive.NewObjectID()
	for _, uid := range []string{"a", "b", "a"} {
		if err := store.Log(ctx, audit.Event{MeetupID: meetupID, EventType: "join_requested", UserID: uid}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{UserID: "a"})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 events for user a, got %d", n)
	}

	n, err = store.CountByFilter(ctx, audit.QueryFilter{MeetupID: &meetupID, EventType: "player_removed"})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 player_removed events, got %d", n)
	}
}
