// internal/app/features/profiles/routes.go
package profiles

import (
	"github.com/dalemusser/courtside/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeSearch)
	r.Post("/", h.HandleCreate)
	r.Get("/me", h.ServeMine)
	r.Patch("/me", h.HandleUpdate)
	r.Get("/{uid}", h.ServeOne)
	return r
}
