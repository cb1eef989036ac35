package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avionmeals/backend/internal/domain/mealplan"
	"github.com/avionmeals/backend/internal/infrastructure/http/middleware"
	"github.com/avionmeals/backend/internal/ports/outbound"
	"github.com/avionmeals/backend/pkg/errors"
)

// MealHandlers serves the stored meal plan endpoints.
type MealHandlers struct {
	plans  outbound.MealPlanRepository
	logger *zap.Logger
}

// NewMealHandlers creates meal plan handlers.
func NewMealHandlers(plans outbound.MealPlanRepository, logger *zap.Logger) *MealHandlers {
	return &MealHandlers{plans: plans, logger: logger}
}

type mealPlanPayload struct {
	ID        uuid.UUID     `json:"id"`
	Meals     mealplan.Plan `json:"meals"`
	Cuisine   string        `json:"cuisine"`
	IsSaved   bool          `json:"is_saved"`
	CreatedAt time.Time     `json:"created_at"`
}

func toMealPlanPayload(rec *outbound.MealPlanRecord) mealPlanPayload {
	return mealPlanPayload{
		ID:        rec.ID,
		Meals:     rec.Plan,
		Cuisine:   rec.Cuisine,
		IsSaved:   rec.Saved,
		CreatedAt: rec.CreatedAt,
	}
}

// Latest handles GET /api/v1/meals/latest.
func (h *MealHandlers) Latest(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	rec, err := h.plans.Latest(r.Context(), identity)
	if err != nil {
		writeError(w, h.logger, errors.NewDatabaseError("load latest meal plan", err))
		return
	}
	if rec == nil {
		writeError(w, h.logger, errors.NewNotFound("No meals found"))
		return
	}

	writeJSON(w, http.StatusOK, toMealPlanPayload(rec))
}

// History handles GET /api/v1/meals/history.
func (h *MealHandlers) History(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	records, err := h.plans.History(r.Context(), identity)
	if err != nil {
		writeError(w, h.logger, errors.NewDatabaseError("load meal history", err))
		return
	}

	payload := make([]mealPlanPayload, 0, len(records))
	for i := range records {
		payload = append(payload, toMealPlanPayload(&records[i]))
	}
	writeJSON(w, http.StatusOK, payload)
}

type saveMealRequest struct {
	MealID  string             `json:"meal_id"`
	Meals   []mealplan.DayPlan `json:"meals"`
	Cuisine string             `json:"cuisine"`
}

// Save handles POST /api/v1/meals/save: create when meal_id is absent,
// update in place when it names an existing record.
func (h *MealHandlers) Save(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req saveMealRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if len(req.Meals) == 0 {
		writeError(w, h.logger, errors.NewInvalidInput("meals data required"))
		return
	}

	if req.MealID != "" {
		id, err := uuid.Parse(req.MealID)
		if err != nil {
			writeError(w, h.logger, errors.NewInvalidInput("meal_id must be a UUID"))
			return
		}

		rec, err := h.plans.Update(r.Context(), id, identity, mealplan.Plan(req.Meals), req.Cuisine)
		if err != nil {
			writeError(w, h.logger, errors.NewDatabaseError("update meal plan", err))
			return
		}
		if rec == nil {
			writeError(w, h.logger, errors.NewNotFound("Meal not found"))
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"meal_id": rec.ID,
			"updated": true,
		})
		return
	}

	rec := &outbound.MealPlanRecord{
		ID:        uuid.New(),
		Identity:  identity,
		Plan:      mealplan.Plan(req.Meals),
		Cuisine:   req.Cuisine,
		Saved:     true,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.plans.Save(r.Context(), rec); err != nil {
		writeError(w, h.logger, errors.NewDatabaseError("save meal plan", err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"meal_id": rec.ID,
		"created": true,
	})
}

// Clear handles DELETE /api/v1/meals/clear.
func (h *MealHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	if err := h.plans.Clear(r.Context(), identity); err != nil {
		writeError(w, h.logger, errors.NewDatabaseError("clear meal plans", err))
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "All meals cleared",
	})
}
