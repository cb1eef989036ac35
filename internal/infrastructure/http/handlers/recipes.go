package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avionmeals/backend/internal/domain/recipe"
	"github.com/avionmeals/backend/internal/infrastructure/http/middleware"
	"github.com/avionmeals/backend/internal/ports/outbound"
	"github.com/avionmeals/backend/pkg/errors"
)

// RecipeHandlers serves the stored recipe endpoints.
type RecipeHandlers struct {
	recipes outbound.RecipeRepository
	logger  *zap.Logger
}

// NewRecipeHandlers creates recipe handlers.
func NewRecipeHandlers(recipes outbound.RecipeRepository, logger *zap.Logger) *RecipeHandlers {
	return &RecipeHandlers{recipes: recipes, logger: logger}
}

type recipePayload struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	Content   recipe.Recipe `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
}

func toRecipePayload(rec *outbound.RecipeRecord) recipePayload {
	return recipePayload{
		ID:        rec.ID,
		Title:     rec.Title,
		Content:   rec.Content,
		CreatedAt: rec.CreatedAt,
	}
}

// Latest handles GET /api/v1/recipes/latest.
func (h *RecipeHandlers) Latest(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	rec, err := h.recipes.Latest(r.Context(), identity)
	if err != nil {
		writeError(w, h.logger, errors.NewDatabaseError("load latest recipe", err))
		return
	}
	if rec == nil {
		writeError(w, h.logger, errors.NewNotFound("No recipe found"))
		return
	}

	writeJSON(w, http.StatusOK, toRecipePayload(rec))
}

// ByID handles GET /api/v1/recipes/{id}.
func (h *RecipeHandlers) ByID(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, errors.NewInvalidInput("id must be a UUID"))
		return
	}

	rec, err := h.recipes.ByID(r.Context(), identity, id)
	if err != nil {
		writeError(w, h.logger, errors.NewDatabaseError("load recipe", err))
		return
	}
	if rec == nil {
		writeError(w, h.logger, errors.NewNotFound("Recipe not found"))
		return
	}

	writeJSON(w, http.StatusOK, toRecipePayload(rec))
}

type saveRecipeRequest struct {
	Title   string         `json:"title"`
	Content *recipe.Recipe `json:"content"`
}

// Save handles POST /api/v1/recipes/save: explicit saves by the user, as
// opposed to the automatic unsaved persist after generation.
func (h *RecipeHandlers) Save(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req saveRecipeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Title == "" || req.Content == nil {
		writeError(w, h.logger, errors.NewInvalidInput("title and content are required"))
		return
	}

	rec := &outbound.RecipeRecord{
		ID:        uuid.New(),
		Identity:  identity,
		Title:     req.Title,
		Content:   *req.Content,
		Saved:     true,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.recipes.Save(r.Context(), rec); err != nil {
		writeError(w, h.logger, errors.NewDatabaseError("save recipe", err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"recipe_id": rec.ID,
	})
}
