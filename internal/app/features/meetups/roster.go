// internal/app/features/meetups/roster.go
package meetups

import (
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/courtside/internal/app/features/errors"
	"github.com/dalemusser/courtside/internal/app/policy/meetuppolicy"
	"github.com/dalemusser/courtside/internal/app/system/auth"
	"github.com/dalemusser/courtside/internal/app/system/htmlsanitize"
	"github.com/dalemusser/courtside/internal/app/system/inputval"
)

// HandleJoin puts the signed-in user on the waitlist.
// POST /meetups/{id}/join
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMeetup(w, r)
	if !ok {
		return
	}
	if !meetuppolicy.CanJoin(r, m) {
		uierrors.Forbidden(w, "")
		return
	}

	ctx, cancel := h.actorContext(r, "join meetup")
	defer cancel()

	next, err := h.Roster.RequestJoin(ctx, m.ID, auth.UserID(r))
	if err != nil {
		h.ErrLog.RosterError(w, r, "failed to request join", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, viewOf(next))
}

// HandleApprove moves a waitlisted user onto the roster. Host only.
// POST /meetups/{id}/approve
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMeetup(w, r)
	if !ok {
		return
	}
	if !meetuppolicy.CanApprove(r, m) {
		uierrors.Forbidden(w, "Only the host can approve players.")
		return
	}

	var in playerInput
	if !uierrors.DecodeJSON(w, r, &in, false) {
		return
	}
	in.UserID = strings.TrimSpace(in.UserID)
	if in.UserID == "" {
		res := inputval.Result{}
		res.Add("user_id", "required", "User is required.")
		uierrors.Invalid(w, res)
		return
	}

	ctx, cancel := h.actorContext(r, "approve player")
	defer cancel()

	next, err := h.Roster.ApprovePlayer(ctx, m.ID, in.UserID)
	if err != nil {
		h.ErrLog.RosterError(w, r, "failed to approve player", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, viewOf(next))
}

// HandleRemove drops a user from the roster or waitlist. With no user_id
// the signed-in user removes themself.
// POST /meetups/{id}/remove
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMeetup(w, r)
	if !ok {
		return
	}

	var in playerInput
	if !uierrors.DecodeJSON(w, r, &in, true) {
		return
	}
	target := strings.TrimSpace(in.UserID)
	if target == "" {
		target = auth.UserID(r)
	}
	if !meetuppolicy.CanRemove(r, m, target) {
		uierrors.Forbidden(w, "Only the host can remove other players.")
		return
	}

	ctx, cancel := h.actorContext(r, "remove player")
	defer cancel()

	next, err := h.Roster.RemovePlayer(ctx, m.ID, target)
	if err != nil {
		h.ErrLog.RosterError(w, r, "failed to remove player", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, viewOf(next))
}

// HandleCancel cancels the meetup. Host only. The body is optional.
// POST /meetups/{id}/cancel
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMeetup(w, r)
	if !ok {
		return
	}
	if !meetuppolicy.CanCancel(r, m) {
		uierrors.Forbidden(w, "Only the host can cancel a meetup.")
		return
	}

	var in cancelInput
	if !uierrors.DecodeJSON(w, r, &in, true) {
		return
	}
	in.Reason = htmlsanitize.Text(in.Reason)
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.Invalid(w, res)
		return
	}

	ctx, cancel := h.actorContext(r, "cancel meetup")
	defer cancel()

	next, err := h.Roster.CancelMeetup(ctx, m.ID, in.Reason)
	if err != nil {
		h.ErrLog.RosterError(w, r, "failed to cancel meetup", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, viewOf(next))
}
