package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	appcredits "github.com/avionmeals/backend/internal/application/credits"
	"github.com/avionmeals/backend/internal/infrastructure/http/middleware"
	"github.com/avionmeals/backend/pkg/errors"
)

// CreditHandlers serves the credit ledger endpoints.
type CreditHandlers struct {
	ledger *appcredits.Ledger
	logger *zap.Logger
}

// NewCreditHandlers creates credit handlers.
func NewCreditHandlers(ledger *appcredits.Ledger, logger *zap.Logger) *CreditHandlers {
	return &CreditHandlers{ledger: ledger, logger: logger}
}

// Status handles GET /api/v1/credits/status.
func (h *CreditHandlers) Status(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	status, err := h.ledger.Status(r.Context(), identity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: status})
}

type addCreditsRequest struct {
	Amount int `json:"amount"`
}

// Add handles POST /api/v1/credits/add.
func (h *CreditHandlers) Add(w http.ResponseWriter, r *http.Request) {
	var req addCreditsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Amount <= 0 {
		writeError(w, h.logger, errors.NewInvalidInput("Invalid credit amount"))
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	if err := h.ledger.AddCredits(r.Context(), identity, req.Amount); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: fmt.Sprintf("%d credits added", req.Amount),
	})
}

// Consume handles POST /api/v1/credits/consume, spending one credit.
func (h *CreditHandlers) Consume(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	consumed, err := h.ledger.Consume(r.Context(), identity, 1)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !consumed {
		writeError(w, h.logger, errors.NewQuotaExhausted(identity))
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "1 credit consumed",
	})
}

type usageCheckRequest struct {
	TestMode bool `json:"test_mode"`
}

type usageCheckResponse struct {
	Allowed bool `json:"allowed"`
	Used    int  `json:"used"`
	Limit   int  `json:"limit"`
}

// UsageCheck handles POST /api/v1/usage-check: a dry-run read of the
// ledger. test_mode bypasses the limit for client QA builds.
func (h *CreditHandlers) UsageCheck(w http.ResponseWriter, r *http.Request) {
	var req usageCheckRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	status, err := h.ledger.Status(r.Context(), identity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, usageCheckResponse{
		Allowed: req.TestMode || status.Remaining > 0,
		Used:    status.Used,
		Limit:   status.Total,
	})
}
