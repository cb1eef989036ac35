package handlers

import (
	"net/http"

	"go.uber.org/zap"

	appnotif "github.com/avionmeals/backend/internal/application/notifications"
	"github.com/avionmeals/backend/internal/infrastructure/http/middleware"
)

// NotificationHandlers serves the device token endpoints.
type NotificationHandlers struct {
	notifications *appnotif.Service
	logger        *zap.Logger
}

// NewNotificationHandlers creates notification handlers.
func NewNotificationHandlers(notifications *appnotif.Service, logger *zap.Logger) *NotificationHandlers {
	return &NotificationHandlers{notifications: notifications, logger: logger}
}

type registerTokenRequest struct {
	DeviceToken string `json:"device_token"`
	Platform    string `json:"platform"`
}

// Register handles POST /api/v1/notifications/register.
func (h *NotificationHandlers) Register(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req registerTokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	record, err := h.notifications.Register(r.Context(), identity, req.DeviceToken, req.Platform)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: record})
}

type updateTokenRequest struct {
	OldToken string `json:"old_token"`
	NewToken string `json:"new_token"`
}

// Update handles POST /api/v1/notifications/update.
func (h *NotificationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req updateTokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	record, err := h.notifications.Update(r.Context(), identity, req.OldToken, req.NewToken)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: record})
}

type removeTokenRequest struct {
	DeviceToken string `json:"device_token"`
}

// Remove handles DELETE /api/v1/notifications/remove.
func (h *NotificationHandlers) Remove(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req removeTokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.notifications.Remove(r.Context(), identity, req.DeviceToken); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}
