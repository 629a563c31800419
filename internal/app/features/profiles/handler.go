// internal/app/features/profiles/handler.go
package profiles

import (
	uierrors "github.com/dalemusser/courtside/internal/app/features/errors"
	profilestore "github.com/dalemusser/courtside/internal/app/store/profiles"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the player profile endpoints.
type Handler struct {
	Profiles *profilestore.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler constructs a Handler bound to the given Mongo database and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Profiles: profilestore.New(db),
		Log:      logger,
		ErrLog:   errLog,
	}
}
