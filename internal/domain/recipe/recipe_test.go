package recipe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avionmeals/backend/internal/domain/shared"
)

const validRecipe = `{
	"title": "Paneer Tikka",
	"ingredients": ["paneer", "yogurt", "spices"],
	"steps": ["marinate", "grill"],
	"calories": 320,
	"cookingTimeMinutes": 40,
	"dietType": "Vegetarian",
	"id": "9f3c1a2e",
	"groceries": [
		{"name": "paneer", "quantity": "250g", "id": "g1"}
	]
}`

func TestParseValidRecipe(t *testing.T) {
	r, err := Parse(json.RawMessage(validRecipe))
	require.NoError(t, err)

	assert.Equal(t, "Paneer Tikka", r.Title)
	assert.Equal(t, []string{"paneer", "yogurt", "spices"}, r.Ingredients)
	require.NotNil(t, r.Calories)
	assert.Equal(t, 320, *r.Calories)
	require.NotNil(t, r.DietType)
	assert.Equal(t, DietVegetarian, *r.DietType)
	require.Len(t, r.Groceries, 1)
	assert.Equal(t, "250g", r.Groceries[0].Quantity)
}

func TestParseNullableFields(t *testing.T) {
	raw := `{
		"title": "Khichdi",
		"ingredients": ["rice", "dal"],
		"steps": ["cook"],
		"calories": null,
		"cookingTimeMinutes": null,
		"dietType": null
	}`
	r, err := Parse(json.RawMessage(raw))
	require.NoError(t, err)

	assert.Nil(t, r.Calories)
	assert.Nil(t, r.CookingTimeMinutes)
	assert.Nil(t, r.DietType)
	assert.Empty(t, r.ID)
	assert.Empty(t, r.Groceries)
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{
			name:  "missing steps",
			raw:   `{"title":"X","ingredients":["a"]}`,
			field: "steps",
		},
		{
			name:  "calories as string",
			raw:   `{"title":"X","ingredients":["a"],"steps":["b"],"calories":"500kcal"}`,
			field: "calories",
		},
		{
			name:  "calories fractional",
			raw:   `{"title":"X","ingredients":["a"],"steps":["b"],"calories":12.5}`,
			field: "calories",
		},
		{
			name:  "cooking time as string",
			raw:   `{"title":"X","ingredients":["a"],"steps":["b"],"cookingTimeMinutes":"40"}`,
			field: "cookingTimeMinutes",
		},
		{
			name:  "unknown diet type",
			raw:   `{"title":"X","ingredients":["a"],"steps":["b"],"dietType":"Pescatarian"}`,
			field: "dietType",
		},
		{
			name:  "empty ingredients",
			raw:   `{"title":"X","ingredients":[],"steps":["b"]}`,
			field: "ingredients",
		},
		{
			name:  "ingredients with non-string",
			raw:   `{"title":"X","ingredients":["a",2],"steps":["b"]}`,
			field: "ingredients[1]",
		},
		{
			name:  "empty title",
			raw:   `{"title":"","ingredients":["a"],"steps":["b"]}`,
			field: "title",
		},
		{
			name:  "unexpected key",
			raw:   `{"title":"X","ingredients":["a"],"steps":["b"],"rating":5}`,
			field: "rating",
		},
		{
			name:  "grocery missing quantity",
			raw:   `{"title":"X","ingredients":["a"],"steps":["b"],"groceries":[{"name":"a","id":"g1"}]}`,
			field: "groceries[0].quantity",
		},
		{
			name:  "not an object",
			raw:   `["not","an","object"]`,
			field: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(json.RawMessage(tt.raw))
			require.Error(t, err)

			var fieldErr *shared.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestDietTypeValid(t *testing.T) {
	for _, d := range []DietType{DietVegetarian, DietVegan, DietEggetarian, DietNonVegetarian} {
		assert.True(t, d.Valid())
	}
	assert.False(t, DietType("Keto").Valid())
	assert.False(t, DietType("").Valid())
}
