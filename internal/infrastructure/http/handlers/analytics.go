package handlers

import (
	"net/http"

	"go.uber.org/zap"

	appanalytics "github.com/avionmeals/backend/internal/application/analytics"
	"github.com/avionmeals/backend/internal/infrastructure/http/middleware"
)

// AnalyticsHandlers serves the event tracking endpoint.
type AnalyticsHandlers struct {
	analytics *appanalytics.Service
	logger    *zap.Logger
}

// NewAnalyticsHandlers creates analytics handlers.
func NewAnalyticsHandlers(analytics *appanalytics.Service, logger *zap.Logger) *AnalyticsHandlers {
	return &AnalyticsHandlers{analytics: analytics, logger: logger}
}

type trackEventRequest struct {
	UserID   string                 `json:"user_id"`
	Event    string                 `json:"event"`
	Metadata map[string]interface{} `json:"metadata"`
}

// TrackEvent handles POST /api/v1/analytics/track-event. Auth is optional;
// unauthenticated events fall back to the body user_id or "anonymous".
func (h *AnalyticsHandlers) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var req trackEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	if identity == "" {
		identity = req.UserID
	}

	event, err := h.analytics.TrackEvent(r.Context(), identity, req.Event, req.Metadata)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: event})
}
