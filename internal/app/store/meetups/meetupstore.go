// internal/app/store/meetups/meetupstore.go
package meetupstore

// Terminology: User Identifiers
//   - uid / user_id: the identity-provider user id stored on rosters and as the profile _id
//   - meetup ID: the MongoDB ObjectID (_id) of the meetup document

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/courtside/internal/app/system/paging"
	"github.com/dalemusser/courtside/internal/app/system/roster"
	"github.com/dalemusser/courtside/internal/app/system/status"
	"github.com/dalemusser/courtside/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultListLimit caps list queries when the caller passes no limit.
const DefaultListLimit = 100

// Store persists meetups. It implements roster.Repository.
type Store struct {
	c *mongo.Collection
}

var _ roster.Repository = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("meetups")}
}

// Fetch loads a meetup by ID.
func (s *Store) Fetch(ctx context.Context, id primitive.ObjectID) (models.Meetup, error) {
	var m models.Meetup
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Meetup{}, roster.ErrNotFound
		}
		return models.Meetup{}, fmt.Errorf("fetch meetup %s: %w", id.Hex(), err)
	}
	normalize(&m)
	return m, nil
}

// Insert stores a freshly opened meetup. The caller assigns ID, version
// and timestamps (see roster.Open).
func (s *Store) Insert(ctx context.Context, m models.Meetup) (models.Meetup, error) {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	m.TitleCI = text.Fold(m.Title)
	normalize(&m)
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Meetup{}, err
	}
	return m, nil
}

// Write replaces the stored meetup with next, but only while the stored
// version still equals expectedVersion. next.Version must already carry
// the new version.
//
// When nothing matched, a second lookup tells a deleted meetup
// (ErrNotFound) from one that moved on (ErrVersionConflict).
func (s *Store) Write(ctx context.Context, next models.Meetup, expectedVersion int64) error {
	next.TitleCI = text.Fold(next.Title)
	normalize(&next)
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": next.ID, "version": expectedVersion}, next)
	if err != nil {
		return fmt.Errorf("write meetup %s: %w", next.ID.Hex(), err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	err = s.c.FindOne(ctx, bson.M{"_id": next.ID}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return roster.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("probe meetup %s: %w", next.ID.Hex(), err)
	}
	return roster.ErrVersionConflict
}

// ListActive returns active meetups, newest first, starting after the
// keyset cursor when one is given. Geographic filtering is not
// implemented; every active meetup is a candidate.
func (s *Store) ListActive(ctx context.Context, after *paging.Cursor, limit int64) ([]models.Meetup, error) {
	filter := bson.M{"status": status.Active}
	if after != nil {
		filter = bson.M{"$and": bson.A{filter, after.OlderThan("created_at")}}
	}
	return s.find(ctx, filter, limit)
}

// ListHosted returns meetups hosted by uid, newest first.
func (s *Store) ListHosted(ctx context.Context, uid string, limit int64) ([]models.Meetup, error) {
	return s.find(ctx, bson.M{"host_id": uid}, limit)
}

// ListJoined returns meetups where uid holds an approved slot but is not
// the host, newest first.
func (s *Store) ListJoined(ctx context.Context, uid string, limit int64) ([]models.Meetup, error) {
	return s.find(ctx, bson.M{
		"approved_players": uid,
		"host_id":          bson.M{"$ne": uid},
	}, limit)
}

// ListWaitlisted returns meetups where uid is waiting for approval.
func (s *Store) ListWaitlisted(ctx context.Context, uid string, limit int64) ([]models.Meetup, error) {
	return s.find(ctx, bson.M{"waitlist": uid}, limit)
}

// CountActiveByHost returns how many active meetups uid is hosting.
func (s *Store) CountActiveByHost(ctx context.Context, uid string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"host_id": uid, "status": status.Active})
}

func (s *Store) find(ctx context.Context, filter bson.M, limit int64) ([]models.Meetup, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Meetup{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		normalize(&out[i])
	}
	return out, nil
}

// normalize keeps empty roster sets as [] rather than null, both in Mongo
// (so $jsonSchema array checks pass) and in JSON responses.
func normalize(m *models.Meetup) {
	if m.ApprovedPlayers == nil {
		m.ApprovedPlayers = []string{}
	}
	if m.Waitlist == nil {
		m.Waitlist = []string{}
	}
}
