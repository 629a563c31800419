// internal/domain/models/meetup.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Court types a meetup can be played on.
const (
	CourtBeach  = "beach"
	CourtIndoor = "indoor"
	CourtGrass  = "grass"
)

// CourtTypes lists the accepted court types in display order.
var CourtTypes = []string{CourtBeach, CourtIndoor, CourtGrass}

// Meetup is the aggregate root for a pickup game and its roster.
//
// NOTE:
//   - HostID, ApprovedPlayers and Waitlist hold identity-provider uids,
//     not ObjectIDs. Profiles are keyed by the same uid.
//   - CurrentPlayers mirrors len(ApprovedPlayers) so list views can
//     show "3/8" without loading the roster.
//   - Version is bumped on every committed write; roster writes are
//     conditioned on the version they read.
type Meetup struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	CourtType   string             `bson:"court_type" json:"court_type"`

	Location        GeoPoint        `bson:"location" json:"location"`
	LocationDetails LocationDetails `bson:"location_details" json:"location_details"`
	Schedule        Schedule        `bson:"schedule" json:"schedule"`

	HostID   string `bson:"host_id" json:"host_id"`
	HostName string `bson:"host_name" json:"host_name"`

	MaxPlayers      int      `bson:"max_players" json:"max_players"`
	CurrentPlayers  int      `bson:"current_players" json:"current_players"`
	ApprovedPlayers []string `bson:"approved_players" json:"approved_players"`
	Waitlist        []string `bson:"waitlist" json:"waitlist"`

	Status             string `bson:"status" json:"status"`
	CancellationReason string `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`

	Version   int64     `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from latitude and longitude.
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Lat returns the latitude, or 0 for an empty point.
func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Lng returns the longitude, or 0 for an empty point.
func (p GeoPoint) Lng() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

// LocationDetails carries the human-readable address picked on the map.
type LocationDetails struct {
	Address string `bson:"address" json:"address"`
}

// Schedule is when the meetup is played. Both times are UTC.
type Schedule struct {
	StartsAt time.Time `bson:"starts_at" json:"starts_at"`
	EndsAt   time.Time `bson:"ends_at" json:"ends_at"`
}

// IsApproved reports whether uid holds a confirmed roster slot.
func (m Meetup) IsApproved(uid string) bool {
	return contains(m.ApprovedPlayers, uid)
}

// IsWaitlisted reports whether uid is waiting for approval.
func (m Meetup) IsWaitlisted(uid string) bool {
	return contains(m.Waitlist, uid)
}

// OpenSlots returns how many more players can be approved.
func (m Meetup) OpenSlots() int {
	if n := m.MaxPlayers - m.CurrentPlayers; n > 0 {
		return n
	}
	return 0
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
