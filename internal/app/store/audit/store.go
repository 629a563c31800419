// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event is one committed roster change as stored in roster_events.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	MeetupID  primitive.ObjectID `bson:"meetup_id" json:"meetup_id"`

	EventType string `bson:"event_type" json:"event_type"`
	OpID      string `bson:"op_id" json:"op_id"`
	Version   int64  `bson:"version" json:"version"`

	// Who
	ActorID string `bson:"actor_id,omitempty" json:"actor_id,omitempty"` // who performed the operation
	UserID  string `bson:"user_id,omitempty" json:"user_id,omitempty"`   // affected player

	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}

// QueryFilter defines filters for querying roster events.
type QueryFilter struct {
	MeetupID  *primitive.ObjectID
	UserID    string
	EventType string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
	Offset    int64
}

// Store manages roster event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("roster_events")}
}

// Log records a roster event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query retrieves roster events matching the given filter, oldest first
// so a meetup's history reads in the order it happened.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "version", Value: 1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, buildQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByFilter returns the count of events matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, buildQuery(filter))
}

// ListByMeetup returns the history of a single meetup.
func (s *Store) ListByMeetup(ctx context.Context, meetupID primitive.ObjectID, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{MeetupID: &meetupID, Limit: limit})
}

func buildQuery(filter QueryFilter) bson.M {
	query := bson.M{}
	if filter.MeetupID != nil {
		query["meetup_id"] = *filter.MeetupID
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.EventType != "" {
		query["event_type"] = filter.EventType
	}
	if filter.StartTime != nil || filter.EndTime != nil {
		timeQuery := bson.M{}
		if filter.StartTime != nil {
			timeQuery["$gte"] = *filter.StartTime
		}
		if filter.EndTime != nil {
			timeQuery["$lte"] = *filter.EndTime
		}
		query["timestamp"] = timeQuery
	}
	return query
}
