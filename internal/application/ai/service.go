// Package ai implements the AI generation pipeline: credit gate, provider
// call, normalization, schema validation, and persistence handoff.
package ai

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appcredits "github.com/avionmeals/backend/internal/application/credits"
	"github.com/avionmeals/backend/internal/domain/mealplan"
	"github.com/avionmeals/backend/internal/domain/recipe"
	"github.com/avionmeals/backend/internal/domain/shared"
	"github.com/avionmeals/backend/internal/infrastructure/monitoring"
	"github.com/avionmeals/backend/internal/ports/outbound"
	"github.com/avionmeals/backend/pkg/errors"
)

// State tracks a generation request through the pipeline. States only move
// forward; any state from GENERATING on can drop to FAILED, and
// PENDING_CREDIT exits directly to DENIED on an exhausted ledger.
type State string

const (
	StatePendingCredit State = "PENDING_CREDIT"
	StateCreditOK      State = "CREDIT_OK"
	StateGenerating    State = "GENERATING"
	StateNormalizing   State = "NORMALIZING"
	StateValidating    State = "VALIDATING"
	StatePersisting    State = "PERSISTING"
	StateDone          State = "DONE"
	StateDenied        State = "DENIED"
	StateFailed        State = "FAILED"
)

// Service orchestrates the AI-backed endpoints. One generator call per
// request, no internal retries, and a consumed credit is never refunded on
// downstream failure. That policy is deliberate, not an oversight.
type Service struct {
	ledger  *appcredits.Ledger
	client  outbound.AIClient
	plans   outbound.MealPlanRepository
	recipes outbound.RecipeRepository
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewService creates the orchestrator.
func NewService(
	ledger *appcredits.Ledger,
	client outbound.AIClient,
	plans outbound.MealPlanRepository,
	recipes outbound.RecipeRepository,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		ledger:  ledger,
		client:  client,
		plans:   plans,
		recipes: recipes,
		metrics: metrics,
		logger:  logger,
	}
}

// GenerateMealPlan runs the full pipeline for a meal-plan request. The
// returned plan has already been persisted (unsaved) for the identity.
func (s *Service) GenerateMealPlan(ctx context.Context, identity, cuisine string) (mealplan.Plan, error) {
	if identity == "" {
		return nil, errors.NewInvalidInput("identity is required")
	}
	if cuisine == "" {
		cuisine = "any"
	}

	start := time.Now()
	state := StatePendingCredit

	consumed, err := s.ledger.Consume(ctx, identity, 1)
	if err != nil {
		return nil, s.fail(identity, "meal_plan", state, start, errors.NewDatabaseError("consume credit", err))
	}
	if !consumed {
		s.metrics.CreditDenied()
		s.metrics.ObserveGeneration("meal_plan", "denied", time.Since(start).Seconds())
		s.logger.Info("meal plan request denied",
			zap.String("identity", identity),
			zap.String("state", string(StateDenied)),
		)
		return nil, errors.NewQuotaExhausted(identity)
	}
	state = StateCreditOK

	state = StateGenerating
	raw, err := s.client.Complete(ctx, mealPlanSystemPrompt, mealPlanUserPrompt(cuisine), mealPlanTemperature)
	if err != nil {
		return nil, s.fail(identity, "meal_plan", state, start, errors.NewGenerationFailed(err))
	}

	state = StateNormalizing
	normalized, err := Normalize(raw, ShapeList)
	if err != nil {
		return nil, s.fail(identity, "meal_plan", state, start, errors.Wrap(err, "normalization failed"))
	}

	state = StateValidating
	plan, err := mealplan.Parse(normalized)
	if err != nil {
		return nil, s.fail(identity, "meal_plan", state, start, asValidationError(err))
	}

	state = StatePersisting
	rec := &outbound.MealPlanRecord{
		ID:        uuid.New(),
		Identity:  identity,
		Plan:      plan,
		Cuisine:   cuisine,
		Saved:     false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.plans.Save(ctx, rec); err != nil {
		return nil, s.fail(identity, "meal_plan", state, start, errors.NewPersistenceFailed(err))
	}

	s.metrics.ObserveGeneration("meal_plan", "ok", time.Since(start).Seconds())
	s.logger.Info("meal plan generated",
		zap.String("identity", identity),
		zap.String("cuisine", cuisine),
		zap.Int("days", len(plan)),
		zap.String("state", string(StateDone)),
	)

	return plan, nil
}

// GenerateRecipe runs the full pipeline for a recipe request. Missing
// mealName is a caller error and is rejected before any credit is spent.
func (s *Service) GenerateRecipe(ctx context.Context, identity, mealName string) (*recipe.Recipe, error) {
	if identity == "" {
		return nil, errors.NewInvalidInput("identity is required")
	}
	if mealName == "" {
		return nil, errors.NewInvalidInput("meal_name is required")
	}

	start := time.Now()
	state := StatePendingCredit

	consumed, err := s.ledger.Consume(ctx, identity, 1)
	if err != nil {
		return nil, s.fail(identity, "recipe", state, start, errors.NewDatabaseError("consume credit", err))
	}
	if !consumed {
		s.metrics.CreditDenied()
		s.metrics.ObserveGeneration("recipe", "denied", time.Since(start).Seconds())
		s.logger.Info("recipe request denied",
			zap.String("identity", identity),
			zap.String("state", string(StateDenied)),
		)
		return nil, errors.NewQuotaExhausted(identity)
	}
	state = StateCreditOK

	state = StateGenerating
	raw, err := s.client.Complete(ctx, recipeSystemPrompt, recipeUserPrompt(mealName), recipeTemperature)
	if err != nil {
		return nil, s.fail(identity, "recipe", state, start, errors.NewGenerationFailed(err))
	}

	state = StateNormalizing
	normalized, err := Normalize(raw, ShapeObject)
	if err != nil {
		return nil, s.fail(identity, "recipe", state, start, errors.Wrap(err, "normalization failed"))
	}

	state = StateValidating
	parsed, err := recipe.Parse(normalized)
	if err != nil {
		return nil, s.fail(identity, "recipe", state, start, asValidationError(err))
	}
	if parsed.ID == "" {
		parsed.ID = uuid.NewString()
	}

	state = StatePersisting
	rec := &outbound.RecipeRecord{
		ID:        uuid.New(),
		Identity:  identity,
		Title:     parsed.Title,
		Content:   *parsed,
		Saved:     false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.recipes.Save(ctx, rec); err != nil {
		return nil, s.fail(identity, "recipe", state, start, errors.NewPersistenceFailed(err))
	}

	s.metrics.ObserveGeneration("recipe", "ok", time.Since(start).Seconds())
	s.logger.Info("recipe generated",
		zap.String("identity", identity),
		zap.String("title", parsed.Title),
		zap.String("state", string(StateDone)),
	)

	return parsed, nil
}

// fail logs a terminal FAILED transition and passes the error through.
// The credit consumed at PENDING_CREDIT stays consumed.
func (s *Service) fail(identity, action string, at State, start time.Time, err *errors.AppError) error {
	s.metrics.ObserveGeneration(action, "failed", time.Since(start).Seconds())
	s.logger.Warn("generation pipeline failed",
		zap.String("identity", identity),
		zap.String("action", action),
		zap.String("failed_at", string(at)),
		zap.String("code", string(err.Code)),
		zap.Error(err),
	)
	return err
}

func asValidationError(err error) *errors.AppError {
	if fieldErr, ok := err.(*shared.FieldError); ok {
		return errors.NewValidationFailed(fieldErr.Field, fieldErr.Error())
	}
	return errors.NewValidationFailed("", err.Error())
}
