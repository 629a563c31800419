// internal/app/features/meetups/events.go
package meetups

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/courtside/internal/app/features/errors"
	"github.com/dalemusser/courtside/internal/app/policy/meetuppolicy"
	"github.com/dalemusser/courtside/internal/app/system/paging"
	"github.com/dalemusser/courtside/internal/app/system/timeouts"
)

// ServeEvents returns the roster history of a meetup, newest first.
// GET /meetups/{id}/events
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMeetup(w, r)
	if !ok {
		return
	}
	if !meetuppolicy.CanViewHistory(r, m) {
		uierrors.Forbidden(w, "Only the host can view roster history.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.ListByMeetup(ctx, m.ID, paging.ParseLimit(r, h.ListLimit))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to list roster events", err, "")
		return
	}
	uierrors.JSON(w, http.StatusOK, eventsResponse{Events: events})
}
