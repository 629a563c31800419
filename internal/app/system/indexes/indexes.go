// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureMeetups(ctx, db); err != nil {
		problems = append(problems, "meetups: "+err.Error())
	}
	if err := ensureProfiles(ctx, db); err != nil {
		problems = append(problems, "profiles: "+err.Error())
	}
	if err := ensureRosterEvents(ctx, db); err != nil {
		problems = append(problems, "roster_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// Collection may not exist yet; CreateOne will create it.
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

// recreate drops an index whose name or options drifted and creates the
// desired one in its place.
func recreate(ctx context.Context, coll *mongo.Collection, old string, m mongo.IndexModel) error {
	if _, err := coll.Indexes().DropOne(ctx, old); err != nil {
		return fmt.Errorf("drop %s: %w", old, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if isDuplicateKeyErr(err) {
			return fmt.Errorf("cannot create unique index (duplicates present): %w", err)
		}
		return err
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listIndexes(ctx, coll)

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
		}

		ex, ok := existing[desiredSig]
		switch {
		case ok && sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName):
			zap.L().Debug("reusing existing index", fields...)
			continue

		case ok:
			// Same keys under another name, or options changed.
			if err := recreate(ctx, coll, ex.Name, m); err != nil {
				zap.L().Warn("index recreate failed", append(fields, zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				continue
			}
			zap.L().Info("index dropped and recreated",
				append(fields, zap.String("from", ex.Name), zap.Duration("took", time.Since(start)))...)

		default:
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				zap.L().Warn("index ensure failed", append(fields, zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				continue
			}
			zap.L().Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureMeetups(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("meetups")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Browse list: active meetups newest first.
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().SetName("idx_meetups_status_created__id"),
		},
		// "My meetups": hosted.
		{
			Keys: bson.D{
				{Key: "host_id", Value: 1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().SetName("idx_meetups_host_created__id"),
		},
		// "My meetups": joined (multikey on the roster).
		{
			Keys: bson.D{
				{Key: "approved_players", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_meetups_approved_created"),
		},
		{
			Keys:    bson.D{{Key: "waitlist", Value: 1}},
			Options: options.Index().SetName("idx_meetups_waitlist"),
		},
		// Nearby search is not wired yet; the index keeps location queryable.
		{
			Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
			Options: options.Index().SetName("geo_meetups_location"),
		},
	})
}

func ensureProfiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("profiles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_profiles_nameci__id"),
		},
		{
			Keys:    bson.D{{Key: "preferred_courts", Value: 1}},
			Options: options.Index().SetName("idx_profiles_courts"),
		},
		// Player search by position, optionally narrowed to a location.
		{
			Keys: bson.D{
				{Key: "is_profile_complete", Value: 1},
				{Key: "primary_position", Value: 1},
				{Key: "location", Value: 1},
			},
			Options: options.Index().SetName("idx_profiles_complete_position_location"),
		},
	})
}

func ensureRosterEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("roster_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Per-meetup history in commit order.
		{
			Keys: bson.D{
				{Key: "meetup_id", Value: 1},
				{Key: "timestamp", Value: 1},
				{Key: "version", Value: 1},
			},
			Options: options.Index().SetName("idx_rosterevents_meetup_ts_version"),
		},
		// One event per committed version.
		{
			Keys: bson.D{
				{Key: "meetup_id", Value: 1},
				{Key: "version", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_rosterevents_meetup_version"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_rosterevents_user_ts"),
		},
	})
}
