// internal/app/features/profiles/profiles.go
package profiles

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/courtside/internal/app/features/errors"
	profilestore "github.com/dalemusser/courtside/internal/app/store/profiles"
	"github.com/dalemusser/courtside/internal/app/system/auth"
	"github.com/dalemusser/courtside/internal/app/system/timeouts"
	"github.com/dalemusser/courtside/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleCreate creates the signed-in user's profile.
// POST /profiles
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r)

	var in createInput
	if !uierrors.DecodeJSON(w, r, &in, false) {
		return
	}
	in.sanitize()
	if res := in.validate(); res.HasErrors() {
		uierrors.Invalid(w, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.Create(ctx, models.Profile{
		UID:               uid,
		Name:              in.Name,
		Age:               in.Age,
		Bio:               in.Bio,
		ProfileImage:      in.ProfileImage,
		PrimaryPosition:   in.PrimaryPosition,
		SecondaryPosition: in.SecondaryPosition,
		ExperienceLevel:   in.ExperienceLevel,
		Location:          in.Location,
		PreferredCourts:   in.PreferredCourts,
	})
	if errors.Is(err, profilestore.ErrDuplicateProfile) {
		uierrors.Write(w, http.StatusConflict, "profile_exists", "You already have a profile.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to create profile", err, "")
		return
	}

	h.Log.Info("profile created", zap.String("uid", uid))
	uierrors.JSON(w, http.StatusCreated, p)
}

// ServeMine returns the signed-in user's profile.
// GET /profiles/me
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, auth.UserID(r))
}

// ServeOne returns another player's profile.
// GET /profiles/{uid}
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, chi.URLParam(r, "uid"))
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, uid string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.Get(ctx, uid)
	if errors.Is(err, profilestore.ErrNotFound) {
		uierrors.NotFound(w, "Profile not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to load profile", err, "")
		return
	}
	uierrors.JSON(w, http.StatusOK, p)
}

// HandleUpdate applies a partial update to the signed-in user's profile.
// PATCH /profiles/me
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r)

	var in updateInput
	if !uierrors.DecodeJSON(w, r, &in, false) {
		return
	}
	in.sanitize()
	if res := in.validate(); res.HasErrors() {
		uierrors.Invalid(w, res)
		return
	}
	mut := in.toUpdate()
	if mut.Empty() {
		uierrors.BadRequest(w, "Nothing to update.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.Update(ctx, uid, mut)
	if errors.Is(err, profilestore.ErrNotFound) {
		uierrors.NotFound(w, "Profile not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to update profile", err, "")
		return
	}
	uierrors.JSON(w, http.StatusOK, p)
}
