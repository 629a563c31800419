// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/courtside/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no profile exists for the uid.
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicateProfile is returned when the uid already has a profile.
	ErrDuplicateProfile = errors.New("a profile already exists for this user")
	// ErrMissingUID is returned when a profile is created without a uid.
	ErrMissingUID = errors.New("profile uid is required")
)

// Update lists the profile fields a PATCH may change. Nil means "leave as is".
type Update struct {
	Name              *string
	Age               *int
	Bio               *string
	ProfileImage      *string
	PrimaryPosition   *string
	SecondaryPosition *string
	ExperienceLevel   *string
	Location          *string
	PreferredCourts   []string
}

// Empty reports whether the update carries no fields.
func (u Update) Empty() bool {
	return u.Name == nil && u.Age == nil && u.Bio == nil && u.ProfileImage == nil &&
		u.PrimaryPosition == nil && u.SecondaryPosition == nil && u.ExperienceLevel == nil &&
		u.Location == nil && u.PreferredCourts == nil
}

// SearchFilter narrows a player search. Zero fields are ignored.
type SearchFilter struct {
	// Query matches a case-insensitive substring of the name or bio.
	Query    string
	Position string
	Location string
	// Courts matches players who prefer any of the listed court types.
	Courts []string
	Limit  int64
}

// Store persists player profiles keyed by uid.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// Create inserts a new profile for p.UID. The experience level defaults to
// beginner and the profile is marked complete.
func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	if p.UID == "" {
		return models.Profile{}, ErrMissingUID
	}
	now := time.Now().UTC()
	p.NameCI = text.Fold(p.Name)
	if p.ExperienceLevel == "" {
		p.ExperienceLevel = models.ExperienceBeginner
	}
	if p.PreferredCourts == nil {
		p.PreferredCourts = []string{}
	}
	p.IsProfileComplete = true
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrDuplicateProfile
		}
		return models.Profile{}, fmt.Errorf("create profile %s: %w", p.UID, err)
	}
	return p, nil
}

// Get returns the profile for uid.
func (s *Store) Get(ctx context.Context, uid string) (models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("get profile %s: %w", uid, err)
	}
	return p, nil
}

// Update applies the non-nil fields of mut and refreshes updated_at.
// It returns the profile as stored after the update.
func (s *Store) Update(ctx context.Context, uid string, mut Update) (models.Profile, error) {
	set := bson.M{"updated_at": time.Now().UTC()}

	if mut.Name != nil {
		set["name"] = *mut.Name
		set["name_ci"] = text.Fold(*mut.Name)
	}
	if mut.Age != nil {
		set["age"] = *mut.Age
	}
	if mut.Bio != nil {
		set["bio"] = *mut.Bio
	}
	if mut.ProfileImage != nil {
		set["profile_image"] = *mut.ProfileImage
	}
	if mut.PrimaryPosition != nil {
		set["primary_position"] = *mut.PrimaryPosition
	}
	if mut.SecondaryPosition != nil {
		set["secondary_position"] = *mut.SecondaryPosition
	}
	if mut.ExperienceLevel != nil {
		set["experience_level"] = *mut.ExperienceLevel
	}
	if mut.Location != nil {
		set["location"] = *mut.Location
	}
	if mut.PreferredCourts != nil {
		set["preferred_courts"] = mut.PreferredCourts
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Profile
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": uid}, bson.M{"$set": set}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("update profile %s: %w", uid, err)
	}
	return p, nil
}

// IsComplete reports whether uid has finished profile setup. A missing
// profile is not complete.
func (s *Store) IsComplete(ctx context.Context, uid string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": uid, "is_profile_complete": true})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Search returns complete profiles matching f, ordered by name.
func (s *Store) Search(ctx context.Context, f SearchFilter) ([]models.Profile, error) {
	filter := bson.M{"is_profile_complete": true}
	if f.Position != "" {
		filter["primary_position"] = f.Position
	}
	if f.Location != "" {
		filter["location"] = f.Location
	}
	if len(f.Courts) > 0 {
		filter["preferred_courts"] = bson.M{"$in": f.Courts}
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		filter["$or"] = bson.A{
			bson.M{"name_ci": bson.M{"$regex": regexp.QuoteMeta(text.Fold(q))}},
			bson.M{"bio": bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Profile{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return out, nil
}
