// internal/app/features/session/routes.go
package session

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(h.SessionMgr.RequireSignedIn).Post("/", h.HandleSignIn)
	r.Delete("/", h.HandleSignOut)
	return r
}
