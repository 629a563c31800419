package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/courtside/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client  *mongo.Client
	Service string
	Log     *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, service string, logger *zap.Logger) *Handler {
	return &Handler{
		Client:  client,
		Service: service,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service,omitempty"`
	Database string `json:"database"`
	PingMS   int64  `json:"ping_ms"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "service":"courtside", "database":"connected", "ping_ms":1 }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Service:  h.Service,
		Database: "connected",
	}

	start := time.Now()
	err := h.Client.Ping(ctx, readpref.Primary())
	resp.PingMS = time.Since(start).Milliseconds()
	if err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
	}

	_ = json.NewEncoder(w).Encode(resp)
}
