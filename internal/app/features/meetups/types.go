// internal/app/features/meetups/types.go
package meetups

import (
	"time"

	"github.com/dalemusser/courtside/internal/app/store/audit"
	"github.com/dalemusser/courtside/internal/domain/models"
)

// createInput is the POST /meetups body.
type createInput struct {
	Title       string    `json:"title" validate:"required,min=3,max=50" label:"Title"`
	Description string    `json:"description" validate:"max=200" label:"Description"`
	CourtType   string    `json:"court_type" validate:"required,oneof=beach indoor grass" label:"Court type"`
	MaxPlayers  int       `json:"max_players" validate:"min=2,max=50" label:"Max players"`
	Address     string    `json:"address" validate:"required,max=200" label:"Address"`
	Latitude    *float64  `json:"latitude" validate:"required,min=-90,max=90" label:"Latitude"`
	Longitude   *float64  `json:"longitude" validate:"required,min=-180,max=180" label:"Longitude"`
	StartsAt    time.Time `json:"starts_at" validate:"required" label:"Start time"`
	EndsAt      time.Time `json:"ends_at" validate:"required" label:"End time"`
}

// playerInput is the body of approve and remove.
type playerInput struct {
	UserID string `json:"user_id"`
}

// cancelInput is the POST /meetups/{id}/cancel body.
type cancelInput struct {
	Reason string `json:"reason" validate:"max=200" label:"Reason"`
}

// meetupView is a meetup as the API returns it.
type meetupView struct {
	models.Meetup
	OpenSlots int `json:"open_slots"`
}

func viewOf(m models.Meetup) meetupView {
	return meetupView{Meetup: m, OpenSlots: m.OpenSlots()}
}

func viewsOf(list []models.Meetup) []meetupView {
	out := make([]meetupView, len(list))
	for i, m := range list {
		out[i] = viewOf(m)
	}
	return out
}

type listResponse struct {
	Meetups    []meetupView `json:"meetups"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// mineResponse is GET /meetups/mine: what the user hosts, plays in, and
// is waiting on. ActiveHosted counts every active hosted meetup, beyond
// the page limit applied to Hosted.
type mineResponse struct {
	Hosted       []meetupView `json:"hosted"`
	ActiveHosted int64        `json:"active_hosted"`
	Joined       []meetupView `json:"joined"`
	Waitlisted   []meetupView `json:"waitlisted"`
}

type eventsResponse struct {
	Events []audit.Event `json:"events"`
}
