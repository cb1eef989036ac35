package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avionmeals/backend/internal/application/ai"
	"github.com/avionmeals/backend/internal/infrastructure/http/middleware"
)

// AIHandlers serves the generation endpoints.
type AIHandlers struct {
	service *ai.Service
	logger  *zap.Logger
}

// NewAIHandlers creates AI generation handlers.
func NewAIHandlers(service *ai.Service, logger *zap.Logger) *AIHandlers {
	return &AIHandlers{service: service, logger: logger}
}

type generateMealRequest struct {
	UserID  string `json:"user_id"`
	Cuisine string `json:"cuisine"`
}

type generateRecipeRequest struct {
	UserID   string `json:"user_id"`
	MealName string `json:"meal_name"`
}

// GenerateMeal handles POST /api/v1/ai/generate-meal. The response body is
// the validated plan array itself, not an envelope.
func (h *AIHandlers) GenerateMeal(w http.ResponseWriter, r *http.Request) {
	var req generateMealRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	identity := resolveIdentity(r, req.UserID)

	plan, err := h.service.GenerateMealPlan(r.Context(), identity, req.Cuisine)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// GenerateRecipe handles POST /api/v1/ai/generate-recipe. The response
// body is the validated recipe object itself.
func (h *AIHandlers) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	var req generateRecipeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	identity := resolveIdentity(r, req.UserID)

	recipe, err := h.service.GenerateRecipe(r.Context(), identity, req.MealName)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// resolveIdentity picks the ledger identity for optionally-authenticated
// routes: JWT subject first, then the caller-supplied user_id, then a
// fresh UUID. The fresh UUID has no credit account, so an anonymous call
// without a seeded identity is denied by the ledger.
func resolveIdentity(r *http.Request, bodyUserID string) string {
	if identity := middleware.IdentityFromContext(r.Context()); identity != "" {
		return identity
	}
	if bodyUserID != "" {
		return bodyUserID
	}
	return uuid.NewString()
}
