// internal/app/features/meetups/list.go
package meetups

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/courtside/internal/app/features/errors"
	"github.com/dalemusser/courtside/internal/app/system/auth"
	"github.com/dalemusser/courtside/internal/app/system/paging"
	"github.com/dalemusser/courtside/internal/app/system/timeouts"
)

// ServeList returns active meetups, newest first, one keyset page at a
// time (?limit=, ?after=<next_cursor>). The mobile client sends
// lat/lng/radius; they are accepted and ignored because nearby filtering
// is not implemented.
// GET /meetups
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	after, ok := paging.ParseAfter(r)
	if !ok {
		uierrors.BadRequest(w, "Invalid page cursor.")
		return
	}
	limit := paging.ParseLimit(r, h.ListLimit)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Meetups.ListActive(ctx, after, limit+1)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to list meetups", err, "")
		return
	}

	var resp listResponse
	if paging.TrimPage(&list, limit) {
		last := list[len(list)-1]
		resp.NextCursor = paging.CursorFor(last.CreatedAt, last.ID).Encode()
	}
	resp.Meetups = viewsOf(list)
	uierrors.JSON(w, http.StatusOK, resp)
}

// ServeMine returns the signed-in user's hosted, joined and waitlisted
// meetups.
// GET /meetups/mine
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r)
	limit := paging.ParseLimit(r, h.ListLimit)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	hosted, err := h.Meetups.ListHosted(ctx, uid, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to list hosted meetups", err, "")
		return
	}
	joined, err := h.Meetups.ListJoined(ctx, uid, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to list joined meetups", err, "")
		return
	}
	waitlisted, err := h.Meetups.ListWaitlisted(ctx, uid, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to list waitlisted meetups", err, "")
		return
	}
	active, err := h.Meetups.CountActiveByHost(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to count hosted meetups", err, "")
		return
	}

	uierrors.JSON(w, http.StatusOK, mineResponse{
		Hosted:       viewsOf(hosted),
		ActiveHosted: active,
		Joined:       viewsOf(joined),
		Waitlisted:   viewsOf(waitlisted),
	})
}

// ServeOne returns a single meetup.
// GET /meetups/{id}
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMeetup(w, r)
	if !ok {
		return
	}
	uierrors.JSON(w, http.StatusOK, viewOf(m))
}
