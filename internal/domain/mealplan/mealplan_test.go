package mealplan

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avionmeals/backend/internal/domain/shared"
)

func validPlanJSON(days int) json.RawMessage {
	plan := make([]map[string]string, days)
	for i := range plan {
		plan[i] = map[string]string{
			"id":        fmt.Sprintf("day-%d", i+1),
			"day":       fmt.Sprintf("Day %d", i+1),
			"breakfast": "Oats",
			"lunch":     "Dal Rice",
			"dinner":    "Roti Sabzi",
		}
	}
	raw, _ := json.Marshal(plan)
	return raw
}

func TestParseValidPlan(t *testing.T) {
	plan, err := Parse(validPlanJSON(7))
	require.NoError(t, err)
	require.Len(t, plan, 7)
	assert.Equal(t, "day-1", plan[0].ID)
	assert.Equal(t, "Dal Rice", plan[0].Lunch)
}

func TestParseAcceptsNonSevenDayCounts(t *testing.T) {
	// The prompt asks for 7 days but providers sometimes return fewer or
	// more; the count is deliberately not enforced.
	for _, days := range []int{1, 6, 8} {
		plan, err := Parse(validPlanJSON(days))
		require.NoError(t, err, "days=%d", days)
		assert.Len(t, plan, days)
	}
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{
			name:  "not an array",
			raw:   `{"id": "x"}`,
			field: "(root)",
		},
		{
			name:  "empty array",
			raw:   `[]`,
			field: "(root)",
		},
		{
			name:  "missing dinner",
			raw:   `[{"id":"a","day":"Mon","breakfast":"Oats","lunch":"Dal"}]`,
			field: "[0].dinner",
		},
		{
			name:  "unexpected key",
			raw:   `[{"id":"a","day":"Mon","breakfast":"Oats","lunch":"Dal","dinner":"Roti","snack":"Chai"}]`,
			field: "[0].snack",
		},
		{
			name:  "numeric day",
			raw:   `[{"id":"a","day":1,"breakfast":"Oats","lunch":"Dal","dinner":"Roti"}]`,
			field: "[0].day",
		},
		{
			name:  "empty breakfast",
			raw:   `[{"id":"a","day":"Mon","breakfast":"","lunch":"Dal","dinner":"Roti"}]`,
			field: "[0].breakfast",
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

func TestParseRejectsDuplicateIDs(t *testing.T) {
	raw := `[
		{"id":"same","day":"Mon","breakfast":"Oats","lunch":"Dal","dinner":"Roti"},
		{"id":"same","day":"Tue","breakfast":"Poha","lunch":"Rajma","dinner":"Paneer"}
	]`
	_, err := Parse(json.RawMessage(raw))
	require.Error(t, err)

	var fieldErr *shared.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "[1].id", fieldErr.Field)
}
