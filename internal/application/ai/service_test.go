package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcredits "github.com/avionmeals/backend/internal/application/credits"
	"github.com/avionmeals/backend/internal/domain/mealplan"
	"github.com/avionmeals/backend/internal/infrastructure/monitoring"
	"github.com/avionmeals/backend/internal/infrastructure/persistence/memory"
	"github.com/avionmeals/backend/internal/ports/outbound"
	apperrors "github.com/avionmeals/backend/pkg/errors"
)

type fakeAIClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakePlanRepo struct {
	saved   []*outbound.MealPlanRecord
	saveErr error
}

func (f *fakePlanRepo) Save(ctx context.Context, rec *outbound.MealPlanRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakePlanRepo) Latest(ctx context.Context, identity string) (*outbound.MealPlanRecord, error) {
	return nil, nil
}

func (f *fakePlanRepo) History(ctx context.Context, identity string) ([]outbound.MealPlanRecord, error) {
	return nil, nil
}

func (f *fakePlanRepo) Update(ctx context.Context, id uuid.UUID, identity string, plan mealplan.Plan, cuisine string) (*outbound.MealPlanRecord, error) {
	return nil, nil
}

func (f *fakePlanRepo) Clear(ctx context.Context, identity string) error { return nil }

type fakeRecipeRepo struct {
	saved   []*outbound.RecipeRecord
	saveErr error
}

func (f *fakeRecipeRepo) Save(ctx context.Context, rec *outbound.RecipeRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeRecipeRepo) Latest(ctx context.Context, identity string) (*outbound.RecipeRecord, error) {
	return nil, nil
}

func (f *fakeRecipeRepo) ByID(ctx context.Context, identity string, id uuid.UUID) (*outbound.RecipeRecord, error) {
	return nil, nil
}

type pipelineFixture struct {
	service *Service
	ledger  *appcredits.Ledger
	client  *fakeAIClient
	plans   *fakePlanRepo
	recipes *fakeRecipeRepo
}

func newPipeline(t *testing.T, client *fakeAIClient) *pipelineFixture {
	t.Helper()

	ledger := appcredits.NewLedger(memory.NewCreditStore(), zap.NewNop(), 200, 3)
	plans := &fakePlanRepo{}
	recipes := &fakeRecipeRepo{}
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())

	return &pipelineFixture{
		service: NewService(ledger, client, plans, recipes, metrics, zap.NewNop()),
		ledger:  ledger,
		client:  client,
		plans:   plans,
		recipes: recipes,
	}
}

func (f *pipelineFixture) used(t *testing.T, identity string) int {
	t.Helper()
	status, err := f.ledger.Status(context.Background(), identity)
	require.NoError(t, err)
	return status.Used
}

const validPlanResponse = "```json\n" + `[
	{"id":"d1","day":"Monday","breakfast":"Oats","lunch":"Dal Rice","dinner":"Roti Sabzi"},
	{"id":"d2","day":"Tuesday","breakfast":"Poha","lunch":"Rajma Chawal","dinner":"Paneer Tikka"}
]` + "\n```"

const validRecipeResponse = `{
	"title": "Paneer Tikka",
	"ingredients": ["paneer", "yogurt"],
	"steps": ["marinate", "grill"],
	"calories": 320,
	"cookingTimeMinutes": 40,
	"dietType": "Vegetarian"
}`

func TestGenerateMealPlanSuccess(t *testing.T) {
	f := newPipeline(t, &fakeAIClient{response: validPlanResponse})
	ctx := context.Background()

	require.NoError(t, f.ledger.AddCredits(ctx, "user-1", 5))

	plan, err := f.service.GenerateMealPlan(ctx, "user-1", "indian")
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "Dal Rice", plan[0].Lunch)

	require.Len(t, f.plans.saved, 1)
	rec := f.plans.saved[0]
	assert.Equal(t, "user-1", rec.Identity)
	assert.Equal(t, "indian", rec.Cuisine)
	assert.False(t, rec.Saved)
	assert.NotEqual(t, uuid.Nil, rec.ID)

	assert.Equal(t, 1, f.used(t, "user-1"))
}

func TestGenerateMealPlanDeniedWithoutCredits(t *testing.T) {
	f := newPipeline(t, &fakeAIClient{response: validPlanResponse})

	_, err := f.service.GenerateMealPlan(context.Background(), "never-seen", "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeQuotaExhausted))

	// A denied request must never reach the provider.
	assert.Equal(t, 0, f.client.calls)
	assert.Empty(t, f.plans.saved)
}

func TestGenerateMealPlanProviderErrorConsumesCredit(t *testing.T) {
	f := newPipeline(t, &fakeAIClient{err: errors.New("upstream timeout")})
	ctx := context.Background()

	require.NoError(t, f.ledger.AddCredits(ctx, "user-1", 5))

	_, err := f.service.GenerateMealPlan(ctx, "user-1", "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeGenerationFailed))

	// No refund on downstream failure.
	assert.Equal(t, 1, f.used(t, "user-1"))
}

func TestGenerateMealPlanMalformedOutputConsumesCredit(t *testing.T) {
	f := newPipeline(t, &fakeAIClient{response: "Sure! Here is your plan: ..."})
	ctx := context.Background()

	require.NoError(t, f.ledger.AddCredits(ctx, "user-1", 5))

	_, err := f.service.GenerateMealPlan(ctx, "user-1", "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNormalizationFailed))
	assert.Equal(t, 1, f.used(t, "user-1"))
	assert.Empty(t, f.plans.saved)
}

func TestGenerateMealPlanInvalidSchemaConsumesCredit(t *testing.T) {
	// Valid JSON array, but day entries are missing required keys.
	f := newPipeline(t, &fakeAIClient{response: `[{"id":"d1","day":"Monday"}]`})
	ctx := context.Background()

	require.NoError(t, f.ledger.AddCredits(ctx, "user-1", 5))

	_, err := f.service.GenerateMealPlan(ctx, "user-1", "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
	assert.Equal(t, 1, f.used(t, "user-1"))
}

func TestGenerateMealPlanPersistFailure(t *testing.T) {
	f := newPipeline(t, &fakeAIClient{response: validPlanResponse})
	f.plans.saveErr = errors.New("disk full")
	ctx := context.Background()

	require.NoError(t, f.ledger.AddCredits(ctx, "user-1", 5))

	_, err := f.service.GenerateMealPlan(ctx, "user-1", "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodePersistenceFailed))
	assert.Equal(t, 1, f.used(t, "user-1"))
}

func TestGenerateMealPlanRequiresIdentity(t *testing.T) {
	f := newPipeline(t, &fakeAIClient{response: validPlanResponse})

	_, err := f.service.GenerateMealPlan(context.Background(), "", "indian")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
	assert.Equal(t, 0, f.client.calls)
}

func TestGenerateRecipeSuccess(t *testing.T) {
	f := newPipeline(t, &fakeAIClient{response: validRecipeResponse})
	ctx := context.Background()

	require.NoError(t, f.ledger.AddCredits(ctx, "user-1", 5))

	parsed, err := f.service.GenerateRecipe(ctx, "user-1", "Paneer Tikka")
	require.NoError(t, err)
	assert.Equal(t, "Paneer Tikka", parsed.Title)

	// The provider omitted an id, so one is assigned.
	assert.NotEmpty(t, parsed.ID)

	require.Len(t, f.recipes.saved, 1)
	rec := f.recipes.saved[0]
	assert.Equal(t, "Paneer Tikka", rec.Title)
	assert.False(t, rec.Saved)
	assert.Equal(t, 1, f.used(t, "user-1"))
}

func TestGenerateRecipeMissingMealNameSpendsNothing(t *testing.T) {
	f := newPipeline(t, &fakeAIClient{response: validRecipeResponse})
	ctx := context.Background()

	require.NoError(t, f.ledger.AddCredits(ctx, "user-1", 5))

	_, err := f.service.GenerateRecipe(ctx, "user-1", "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	// Input validation runs before the credit gate.
	assert.Equal(t, 0, f.used(t, "user-1"))
	assert.Equal(t, 0, f.client.calls)
}

func TestGenerateRecipeDeniedWithoutCredits(t *testing.T) {
	f := newPipeline(t, &fakeAIClient{response: validRecipeResponse})

	_, err := f.service.GenerateRecipe(context.Background(), "never-seen", "Dal")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeQuotaExhausted))
	assert.Equal(t, 0, f.client.calls)
}

func TestGenerateRecipeWrongShapeConsumesCredit(t *testing.T) {
	// A list where an object is expected fails normalization.
	f := newPipeline(t, &fakeAIClient{response: `[{"title":"Dal"}]`})
	ctx := context.Background()

	require.NoError(t, f.ledger.AddCredits(ctx, "user-1", 5))

	_, err := f.service.GenerateRecipe(ctx, "user-1", "Dal")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNormalizationFailed))
	assert.Equal(t, 1, f.used(t, "user-1"))
}
