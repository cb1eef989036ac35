package gorm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avionmeals/backend/internal/domain/mealplan"
	"github.com/avionmeals/backend/internal/ports/outbound"
)

// MealPlanRepository implements outbound.MealPlanRepository on GORM.
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a meal plan repository.
func NewMealPlanRepository(db *gorm.DB) *MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// Save persists a generated meal plan.
func (r *MealPlanRepository) Save(ctx context.Context, rec *outbound.MealPlanRecord) error {
	model, err := toMealPlanModel(rec)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Latest returns the most recent plan for the identity, or nil when none.
func (r *MealPlanRepository) Latest(ctx context.Context, identity string) (*outbound.MealPlanRecord, error) {
	var model MealPlanModel
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
	return toMealPlanRecord(&model)
}

// History returns all plans for the identity, newest first.
func (r *MealPlanRepository) History(ctx context.Context, identity string) ([]outbound.MealPlanRecord, error) {
	var models []MealPlanModel
	err := r.db.WithContext(ctx).
		Where("identity = ?", identity).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	records := make([]outbound.MealPlanRecord, 0, len(models))
	for i := range models {
		rec, err := toMealPlanRecord(&models[i])
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// Update replaces the plan content of an existing record owned by the
// identity. Returns nil when no such record exists.
func (r *MealPlanRepository) Update(ctx context.Context, id uuid.UUID, identity string, plan mealplan.Plan, cuisine string) (*outbound.MealPlanRecord, error) {
	var model MealPlanModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND identity = ?", id, identity).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	content, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meal plan: %w", err)
	}

	model.Plan = JSONDocument(content)
	if cuisine != "" {
		model.Cuisine = cuisine
	}
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return nil, err
	}
	return toMealPlanRecord(&model)
}

// Clear deletes every plan stored for the identity.
func (r *MealPlanRepository) Clear(ctx context.Context, identity string) error {
	return r.db.WithContext(ctx).
		Where("identity = ?", identity).
		Delete(&MealPlanModel{}).Error
}

func toMealPlanModel(rec *outbound.MealPlanRecord) (*MealPlanModel, error) {
	content, err := json.Marshal(rec.Plan)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meal plan: %w", err)
	}
	return &MealPlanModel{
		ID:        rec.ID,
		Identity:  rec.Identity,
		Plan:      JSONDocument(content),
		Cuisine:   rec.Cuisine,
		IsSaved:   rec.Saved,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func toMealPlanRecord(model *MealPlanModel) (*outbound.MealPlanRecord, error) {
	var plan mealplan.Plan
	if err := json.Unmarshal([]byte(model.Plan), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan %s: %w", model.ID, err)
	}
	return &outbound.MealPlanRecord{
		ID:        model.ID,
		Identity:  model.Identity,
		Plan:      plan,
		Cuisine:   model.Cuisine,
		Saved:     model.IsSaved,
		CreatedAt: model.CreatedAt,
	}, nil
}
