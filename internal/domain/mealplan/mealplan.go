// Package mealplan defines the generated meal plan value object and its
// schema validation. A plan is a transient value produced by the AI
// pipeline; storage belongs to the persistence layer.
package mealplan

import (
	"encoding/json"
	"fmt"

	"github.com/avionmeals/backend/internal/domain/shared"
)

// DayPlan is one day of a generated plan. The JSON shape is part of the
// wire contract with the mobile clients and must not change.
type DayPlan struct {
	ID        string `json:"id"`
	Day       string `json:"day"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// Plan is a sequence of day entries. The prompt asks for 7 days but the
// validator deliberately does not enforce the count; providers occasionally
// return 6 or 8 and the clients render whatever arrives.
type Plan []DayPlan

var requiredKeys = []string{"id", "day", "breakfast", "lunch", "dinner"}

// Parse validates a normalized JSON array against the plan schema and
// returns the typed plan. Every element must be an object carrying exactly
// the five required keys, each a non-empty string, with ids unique across
// the plan. No coercion is attempted; any deviation fails naming the field.
func Parse(raw json.RawMessage) (Plan, error) {
	var elements []map[string]interface{}
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, &shared.FieldError{Field: "(root)", Reason: "expected an array of day objects"}
	}

	if len(elements) == 0 {
		return nil, &shared.FieldError{Field: "(root)", Reason: "plan must contain at least one day"}
	}

	plan := make(Plan, 0, len(elements))
	seen := make(map[string]bool, len(elements))

	for i, elem := range elements {
		for _, key := range requiredKeys {
			if _, ok := elem[key]; !ok {
				return nil, &shared.FieldError{
					Field:  fmt.Sprintf("[%d].%s", i, key),
					Reason: "required key missing",
				}
			}
		}
		if len(elem) != len(requiredKeys) {
			for key := range elem {
				if !isRequiredKey(key) {
					return nil, &shared.FieldError{
						Field:  fmt.Sprintf("[%d].%s", i, key),
						Reason: "unexpected key",
					}
				}
			}
		}

		day := DayPlan{}
		fields := map[string]*string{
			"id":        &day.ID,
			"day":       &day.Day,
			"breakfast": &day.Breakfast,
			"lunch":     &day.Lunch,
			"dinner":    &day.Dinner,
		}
		for key, dst := range fields {
			s, ok := elem[key].(string)
			if !ok {
				return nil, &shared.FieldError{
					Field:  fmt.Sprintf("[%d].%s", i, key),
					Reason: "must be a string",
				}
			}
			if s == "" {
				return nil, &shared.FieldError{
					Field:  fmt.Sprintf("[%d].%s", i, key),
					Reason: "must not be empty",
				}
			}
			*dst = s
		}

		if seen[day.ID] {
			return nil, &shared.FieldError{
				Field:  fmt.Sprintf("[%d].id", i),
				Reason: "duplicate id within plan",
			}
		}
		seen[day.ID] = true

		plan = append(plan, day)
	}

	return plan, nil
}

func isRequiredKey(key string) bool {
	for _, k := range requiredKeys {
		if k == key {
			return true
		}
	}
	return false
}
