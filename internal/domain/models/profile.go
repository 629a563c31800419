// internal/domain/models/profile.go
package models

import "time"

// Experience levels, lowest first.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
	ExperienceExpert       = "expert"
)

// ExperienceLevels lists the accepted experience levels in display order.
var ExperienceLevels = []string{
	ExperienceBeginner,
	ExperienceIntermediate,
	ExperienceAdvanced,
	ExperienceExpert,
}

// Positions lists the playing positions a profile may pick from.
var Positions = []string{
	"Outside Hitter",
	"Middle Blocker",
	"Setter",
	"Libero",
	"Opposite Hitter",
	"Defensive Specialist",
}

// Profile is a player's public profile. The document _id is the
// identity-provider uid, the same value used on meetup rosters.
type Profile struct {
	UID               string    `bson:"_id" json:"uid"`
	Name              string    `bson:"name" json:"name"`
	NameCI            string    `bson:"name_ci" json:"-"`
	Age               int       `bson:"age" json:"age"`
	Bio               string    `bson:"bio" json:"bio"`
	ProfileImage      *string   `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	PrimaryPosition   string    `bson:"primary_position" json:"primary_position"`
	SecondaryPosition *string   `bson:"secondary_position,omitempty" json:"secondary_position,omitempty"`
	ExperienceLevel   string    `bson:"experience_level" json:"experience_level"`
	Location          string    `bson:"location" json:"location"`
	PreferredCourts   []string  `bson:"preferred_courts" json:"preferred_courts"`
	IsProfileComplete bool      `bson:"is_profile_complete" json:"is_profile_complete"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updated_at"`
}
