package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	appsub "github.com/avionmeals/backend/internal/application/subscription"
	"github.com/avionmeals/backend/internal/infrastructure/http/middleware"
	"github.com/avionmeals/backend/pkg/errors"
)

// SubscriptionHandlers serves the subscription endpoints.
type SubscriptionHandlers struct {
	subs   *appsub.Service
	logger *zap.Logger
}

// NewSubscriptionHandlers creates subscription handlers.
func NewSubscriptionHandlers(subs *appsub.Service, logger *zap.Logger) *SubscriptionHandlers {
	return &SubscriptionHandlers{subs: subs, logger: logger}
}

// Status handles GET /api/v1/subscription/status.
func (h *SubscriptionHandlers) Status(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	status, err := h.subs.GetStatus(r.Context(), identity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type upgradeRequest struct {
	Provider     string `json:"provider"`
	DurationDays int    `json:"duration_days"`
}

// Upgrade handles POST /api/v1/subscription/upgrade.
func (h *SubscriptionHandlers) Upgrade(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req upgradeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	status, err := h.subs.Upgrade(r.Context(), identity, req.Provider, req.DurationDays)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"status":      status.Status,
		"expiry_date": status.ExpiryDate,
	})
}

type restoreRequest struct {
	Provider   string `json:"provider"`
	ExpiryDate string `json:"expiry_date"`
}

// Restore handles POST /api/v1/subscription/restore.
func (h *SubscriptionHandlers) Restore(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req restoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Provider == "" || req.ExpiryDate == "" {
		writeError(w, h.logger, errors.NewInvalidInput("provider and expiry_date required"))
		return
	}

	expiry, err := time.Parse(time.RFC3339, req.ExpiryDate)
	if err != nil {
		writeError(w, h.logger, errors.NewInvalidInput("expiry_date must be RFC3339"))
		return
	}

	status, err := h.subs.Restore(r.Context(), identity, req.Provider, expiry)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"status":      status.Status,
		"expiry_date": status.ExpiryDate,
	})
}

type verifyRequest struct {
	Provider    string `json:"provider"`
	ReceiptData string `json:"receipt_data"`
}

// Verify handles POST /api/v1/subscription/verify.
func (h *SubscriptionHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Provider == "" || req.ReceiptData == "" {
		writeError(w, h.logger, errors.NewInvalidInput("provider and receipt_data required"))
		return
	}

	valid := h.subs.VerifyReceipt(r.Context(), req.Provider, req.ReceiptData)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": valid})
}
