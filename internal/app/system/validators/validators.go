// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/courtside/internal/app/system/status"
	"github.com/dalemusser/courtside/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("meetups", meetupsSchema())
	ensure("profiles", profilesSchema())
	ensure("roster_events", rosterEventsSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func strEnum(values []string) bson.A {
	out := bson.A{}
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// meetupsSchema also carries an $expr guard so a buggy writer cannot
// persist an over-capacity roster or a count that disagrees with the set.
func meetupsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{
				"title", "host_id", "max_players", "current_players",
				"approved_players", "waitlist", "status", "version",
			},
			"properties": bson.M{
				"title":       bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"title_ci":    bson.M{"bsonType": "string"},
				"description": bson.M{"bsonType": "string"},
				"court_type":  bson.M{"enum": strEnum(models.CourtTypes)},
				"location": bson.M{
					"bsonType": "object",
					"required": bson.A{"type", "coordinates"},
					"properties": bson.M{
						"type":        bson.M{"enum": bson.A{"Point"}},
						"coordinates": bson.M{"bsonType": "array", "minItems": 2, "maxItems": 2},
					},
				},
				"host_id":          bson.M{"bsonType": "string", "minLength": 1},
				"host_name":        bson.M{"bsonType": "string"},
				"max_players":      bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1},
				"current_players":  bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"approved_players": bson.M{"bsonType": "array", "uniqueItems": true, "items": bson.M{"bsonType": "string"}},
				"waitlist":         bson.M{"bsonType": "array", "uniqueItems": true, "items": bson.M{"bsonType": "string"}},
				"status":           bson.M{"enum": bson.A{status.Active, status.Cancelled}},
				"version":          bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1},
				"created_at":       bson.M{"bsonType": "date"},
				"updated_at":       bson.M{"bsonType": "date"},

				"cancellation_reason": bson.M{"bsonType": "string"},
			},
		},
		"$expr": bson.M{
			"$and": bson.A{
				bson.M{"$lte": bson.A{"$current_players", "$max_players"}},
				bson.M{"$eq": bson.A{"$current_players", bson.M{"$size": "$approved_players"}}},
			},
		},
	}
}

func profilesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "age", "experience_level", "is_profile_complete"},
			"properties": bson.M{
				"name":                bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"name_ci":             bson.M{"bsonType": "string"},
				"age":                 bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 13, "maximum": 100},
				"bio":                 bson.M{"bsonType": "string"},
				"primary_position":    bson.M{"bsonType": "string"},
				"experience_level":    bson.M{"enum": strEnum(models.ExperienceLevels)},
				"location":            bson.M{"bsonType": "string"},
				"preferred_courts":    bson.M{"bsonType": "array", "items": bson.M{"enum": strEnum(models.CourtTypes)}},
				"is_profile_complete": bson.M{"bsonType": "bool"},
			},
		},
	}
}

func rosterEventsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"meetup_id", "event_type", "timestamp"},
			"properties": bson.M{
				"meetup_id": bson.M{"bsonType": "objectId"},
				"event_type": bson.M{"enum": bson.A{
					"meetup_created", "join_requested", "player_approved",
					"player_removed", "meetup_cancelled",
				}},
				"op_id":     bson.M{"bsonType": "string"},
				"version":   bson.M{"bsonType": bson.A{"int", "long"}},
				"actor_id":  bson.M{"bsonType": "string"},
				"user_id":   bson.M{"bsonType": "string"},
				"timestamp": bson.M{"bsonType": "date"},
			},
		},
	}
}
