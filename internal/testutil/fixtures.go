package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/courtside/internal/app/system/status"
	"github.com/dalemusser/courtside/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMeetup inserts an active meetup hosted by hostID with only the
// host on the roster.
func (f *Fixtures) CreateMeetup(ctx context.Context, title, hostID string, maxPlayers int) models.Meetup {
	f.t.Helper()
	return f.CreateMeetupWithRoster(ctx, title, hostID, maxPlayers, nil, nil)
}

// CreateMeetupWithRoster inserts an active meetup with the given extra
// approved players (host is always first) and waitlist.
func (f *Fixtures) CreateMeetupWithRoster(ctx context.Context, title, hostID string, maxPlayers int, approved, waitlist []string) models.Meetup {
	f.t.Helper()

	now := time.Now().UTC().Truncate(time.Millisecond)
	roster := append([]string{hostID}, approved...)
	if waitlist == nil {
		waitlist = []string{}
	}
	m := models.Meetup{
		ID:              primitive.NewObjectID(),
		Title:           title,
		TitleCI:         text.Fold(title),
		Description:     "Bring water.",
		CourtType:       models.CourtBeach,
		Location:        models.NewGeoPoint(34.0095, -118.4970),
		LocationDetails: models.LocationDetails{Address: "Santa Monica Beach"},
		Schedule: models.Schedule{
			StartsAt: now.Add(24 * time.Hour),
			EndsAt:   now.Add(26 * time.Hour),
		},
		HostID:          hostID,
		HostName:        "Host " + hostID,
		MaxPlayers:      maxPlayers,
		CurrentPlayers:  len(roster),
		ApprovedPlayers: roster,
		Waitlist:        waitlist,
		Status:          status.Active,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("meetups").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test meetup: %v", err)
	}
	return m
}

// CreateProfile inserts a complete player profile for uid.
func (f *Fixtures) CreateProfile(ctx context.Context, uid, name string) models.Profile {
	f.t.Helper()

	now := time.Now().UTC().Truncate(time.Millisecond)
	p := models.Profile{
		UID:               uid,
		Name:              name,
		NameCI:            text.Fold(name),
		Age:               27,
		Bio:               "Weekend setter.",
		PrimaryPosition:   "Setter",
		ExperienceLevel:   models.ExperienceIntermediate,
		Location:          "Santa Monica",
		PreferredCourts:   []string{models.CourtBeach},
		IsProfileComplete: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := f.db.Collection("profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}
