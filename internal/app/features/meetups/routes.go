// internal/app/features/meetups/routes.go
package meetups

import (
	"github.com/dalemusser/courtside/internal/app/system/auth"
	"github.com/dalemusser/courtside/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes returns a chi.Router with all meetup routes mounted.
// Every route requires a signed-in user. Writes are rate limited per user
// when limiter is non-nil.
func Routes(h *Handler, sm *auth.SessionManager, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	writes := ratelimit.Middleware(limiter, auth.UserID, h.Log)

	r.Get("/", h.ServeList)
	r.With(writes).Post("/", h.HandleCreate)
	r.Get("/mine", h.ServeMine)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.ServeOne)
		r.Get("/events", h.ServeEvents)

		r.Group(func(r chi.Router) {
			r.Use(writes)
			r.Post("/join", h.HandleJoin)
			r.Post("/approve", h.HandleApprove)
			r.Post("/remove", h.HandleRemove)
			r.Post("/cancel", h.HandleCancel)
		})
	})
	return r
}
