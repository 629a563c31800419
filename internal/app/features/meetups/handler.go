// internal/app/features/meetups/handler.go
package meetups

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/courtside/internal/app/features/errors"
	"github.com/dalemusser/courtside/internal/app/store/audit"
	meetupstore "github.com/dalemusser/courtside/internal/app/store/meetups"
	profilestore "github.com/dalemusser/courtside/internal/app/store/profiles"
	"github.com/dalemusser/courtside/internal/app/system/auth"
	"github.com/dalemusser/courtside/internal/app/system/roster"
	"github.com/dalemusser/courtside/internal/app/system/timeouts"
	"github.com/dalemusser/courtside/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the meetup JSON API. Roster changes go through the
// roster Manager; reads use the meetup store directly.
//
// It is constructed once at startup in bootstrap.
type Handler struct {
	Roster    *roster.Manager
	Meetups   *meetupstore.Store
	Profiles  *profilestore.Store
	Events    *audit.Store
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
	ListLimit int64

	// now is swapped in tests that exercise date validation.
	now func() time.Time
}

// NewHandler constructs a meetups Handler bound to db and the shared
// roster Manager.
func NewHandler(db *mongo.Database, mgr *roster.Manager, errLog *uierrors.ErrorLogger, listLimit int64, logger *zap.Logger) *Handler {
	return &Handler{
		Roster:    mgr,
		Meetups:   meetupstore.New(db),
		Profiles:  profilestore.New(db),
		Events:    audit.New(db),
		ErrLog:    errLog,
		Log:       logger,
		ListLimit: listLimit,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// loadMeetup resolves {id} and fetches the meetup. It answers the request
// itself (404 or 500) and returns false when the meetup cannot be loaded.
func (h *Handler) loadMeetup(w http.ResponseWriter, r *http.Request) (models.Meetup, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Write(w, http.StatusNotFound, roster.Code(roster.ErrNotFound), roster.Message(roster.ErrNotFound))
		return models.Meetup{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Roster.Get(ctx, id)
	if err != nil {
		h.ErrLog.RosterError(w, r, "failed to load meetup", err)
		return models.Meetup{}, false
	}
	return m, true
}

// actorContext returns a context for a roster operation: bounded by the
// medium timeout and carrying the signed-in uid for event attribution.
func (h *Handler) actorContext(r *http.Request, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, operation)
	return roster.WithActor(ctx, auth.UserID(r)), cancel
}

// hostName looks up the display name for uid. A missing profile is not an
// error; the meetup is simply created without a host name.
func (h *Handler) hostName(ctx context.Context, uid string) (string, error) {
	p, err := h.Profiles.Get(ctx, uid)
	if errors.Is(err, profilestore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p.Name, nil
}
