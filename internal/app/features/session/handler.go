// internal/app/features/session/handler.go
package session

import (
	"net/http"

	uierrors "github.com/dalemusser/courtside/internal/app/features/errors"
	"github.com/dalemusser/courtside/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		ErrLog:     errLog,
		SessionMgr: sessionMgr,
	}
}

type signedIn struct {
	UID string `json:"uid"`
}

// HandleSignIn handles POST /session. The caller has already been
// authenticated by bearer token; this stores the uid in a cookie session
// so browser clients can drop the header.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r)
	if err := h.SessionMgr.SignIn(w, r, uid); err != nil {
		h.ErrLog.LogServerError(w, r, "sign in: save session", err, "")
		return
	}
	h.Log.Info("cookie session started", zap.String("uid", uid))
	uierrors.JSON(w, http.StatusOK, signedIn{UID: uid})
}

// HandleSignOut handles DELETE /session. It always clears the cookie,
// even when no session exists.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		// The deletion cookie may still have been written; treat as done.
		h.Log.Warn("sign out: save session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
