package gorm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avionmeals/backend/internal/domain/recipe"
	"github.com/avionmeals/backend/internal/ports/outbound"
)

// RecipeRepository implements outbound.RecipeRepository on GORM.
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a recipe repository.
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Save persists a generated recipe.
func (r *RecipeRepository) Save(ctx context.Context, rec *outbound.RecipeRecord) error {
	content, err := json.Marshal(rec.Content)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	model := RecipeModel{
		ID:        rec.ID,
		Identity:  rec.Identity,
		Title:     rec.Title,
		Content:   JSONDocument(content),
		IsSaved:   rec.Saved,
		CreatedAt: rec.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// Latest returns the most recent recipe for the identity, or nil when none.
func (r *RecipeRepository) Latest(ctx context.Context, identity string) (*outbound.RecipeRecord, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).
		Where("identity = ?", identity).
		Order("created_at DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toRecipeRecord(&model)
}

// ByID returns a recipe owned by the identity, or nil when not found.
func (r *RecipeRepository) ByID(ctx context.Context, identity string, id uuid.UUID) (*outbound.RecipeRecord, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND identity = ?", id, identity).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toRecipeRecord(&model)
}

func toRecipeRecord(model *RecipeModel) (*outbound.RecipeRecord, error) {
	var content recipe.Recipe
	if err := json.Unmarshal([]byte(model.Content), &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe %s: %w", model.ID, err)
	}
	return &outbound.RecipeRecord{
		ID:        model.ID,
		Identity:  model.Identity,
		Title:     model.Title,
		Content:   content,
		Saved:     model.IsSaved,
		CreatedAt: model.CreatedAt,
	}, nil
}
