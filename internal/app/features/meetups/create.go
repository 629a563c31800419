// internal/app/features/meetups/create.go
package meetups

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/courtside/internal/app/features/errors"
	"github.com/dalemusser/courtside/internal/app/system/auth"
	"github.com/dalemusser/courtside/internal/app/system/htmlsanitize"
	"github.com/dalemusser/courtside/internal/app/system/inputval"
	"github.com/dalemusser/courtside/internal/app/system/timeouts"
	"github.com/dalemusser/courtside/internal/domain/models"
	"go.uber.org/zap"
)

// validateCreate applies tag rules plus the schedule rules tags cannot
// express. now is the current UTC time.
func validateCreate(in createInput, now time.Time) inputval.Result {
	res := inputval.Validate(in)
	if in.StartsAt.IsZero() || in.EndsAt.IsZero() {
		return res
	}
	if !in.EndsAt.After(in.StartsAt) {
		res.Add("ends_at", "after", "End time must be after the start time.")
	}
	today := now.UTC().Truncate(24 * time.Hour)
	if in.StartsAt.UTC().Before(today) {
		res.Add("starts_at", "future", "Start date cannot be in the past.")
	}
	return res
}

// HandleCreate opens a meetup hosted by the signed-in user.
// POST /meetups
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r)

	var in createInput
	if !uierrors.DecodeJSON(w, r, &in, false) {
		return
	}
	in.Title = htmlsanitize.Text(in.Title)
	in.Description = htmlsanitize.Text(in.Description)
	in.Address = htmlsanitize.Text(in.Address)

	if res := validateCreate(in, h.now()); res.HasErrors() {
		uierrors.Invalid(w, res)
		return
	}

	ctx, cancel := h.actorContext(r, "create meetup")
	defer cancel()

	name, err := h.hostName(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to load host profile", err, "")
		return
	}

	m, err := h.Roster.Create(ctx, models.Meetup{
		Title:           in.Title,
		Description:     in.Description,
		CourtType:       in.CourtType,
		Location:        models.NewGeoPoint(*in.Latitude, *in.Longitude),
		LocationDetails: models.LocationDetails{Address: in.Address},
		Schedule: models.Schedule{
			StartsAt: in.StartsAt.UTC(),
			EndsAt:   in.EndsAt.UTC(),
		},
		HostID:     uid,
		HostName:   name,
		MaxPlayers: in.MaxPlayers,
	})
	if err != nil {
		h.ErrLog.RosterError(w, r, "failed to create meetup", err)
		return
	}

	h.Log.Debug("meetup created via api",
		zap.String("meetup_id", m.ID.Hex()),
		zap.Duration("timeout", timeouts.Medium()))
	w.Header().Set("Location", "/meetups/"+m.ID.Hex())
	uierrors.JSON(w, http.StatusCreated, viewOf(m))
}
