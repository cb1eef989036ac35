// Package recipe defines the generated recipe value object, the diet type
// enumeration, and the schema validation applied to AI output.
package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/avionmeals/backend/internal/domain/shared"
)

// DietType classifies a recipe by dietary category.
type DietType string

const (
	DietVegetarian    DietType = "Vegetarian"
	DietVegan         DietType = "Vegan"
	DietEggetarian    DietType = "Eggetarian"
	DietNonVegetarian DietType = "Non-Vegetarian"
)

// Valid reports whether the diet type is one of the fixed enumeration.
func (d DietType) Valid() bool {
	switch d {
	case DietVegetarian, DietVegan, DietEggetarian, DietNonVegetarian:
		return true
	}
	return false
}

// GroceryItem is one shopping-list entry attached to a recipe.
type GroceryItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	ID       string `json:"id"`
}

// Recipe is the validated recipe shape. The JSON keys are the wire contract
// with the mobile clients. Calories, CookingTimeMinutes and DietType are
// nullable; everything else is required.
type Recipe struct {
	Title              string        `json:"title"`
	Ingredients        []string      `json:"ingredients"`
	Steps              []string      `json:"steps"`
	Calories           *int          `json:"calories"`
	CookingTimeMinutes *int          `json:"cookingTimeMinutes"`
	DietType           *DietType     `json:"dietType"`
	ID                 string        `json:"id"`
	Groceries          []GroceryItem `json:"groceries"`
}

var knownKeys = map[string]bool{
	"title": true, "ingredients": true, "steps": true,
	"calories": true, "cookingTimeMinutes": true, "dietType": true,
	"id": true, "groceries": true,
}

// Parse validates a normalized JSON object against the recipe schema.
// There is no coercion: a numeric-looking string for calories is a failure,
// not an auto-cast. Every rejection names the offending field.
func Parse(raw json.RawMessage) (*Recipe, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil, &shared.FieldError{Field: "(root)", Reason: "expected a recipe object"}
	}

	for key := range obj {
		if !knownKeys[key] {
			return nil, &shared.FieldError{Field: key, Reason: "unexpected key"}
		}
	}

	r := &Recipe{}
	var err error

	if r.Title, err = requireString(obj, "title"); err != nil {
		return nil, err
	}
	if r.Ingredients, err = requireStringArray(obj, "ingredients"); err != nil {
		return nil, err
	}
	if r.Steps, err = requireStringArray(obj, "steps"); err != nil {
		return nil, err
	}
	if r.Calories, err = optionalInt(obj, "calories"); err != nil {
		return nil, err
	}
	if r.CookingTimeMinutes, err = optionalInt(obj, "cookingTimeMinutes"); err != nil {
		return nil, err
	}
	if r.DietType, err = optionalDietType(obj); err != nil {
		return nil, err
	}
	if r.ID, err = optionalString(obj, "id"); err != nil {
		return nil, err
	}
	if r.Groceries, err = parseGroceries(obj); err != nil {
		return nil, err
	}

	return r, nil
}

func requireString(obj map[string]interface{}, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", &shared.FieldError{Field: key, Reason: "required key missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &shared.FieldError{Field: key, Reason: "must be a string"}
	}
	if s == "" {
		return "", &shared.FieldError{Field: key, Reason: "must not be empty"}
	}
	return s, nil
}

func optionalString(obj map[string]interface{}, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &shared.FieldError{Field: key, Reason: "must be a string"}
	}
	return s, nil
}

func requireStringArray(obj map[string]interface{}, key string) ([]string, error) {
	v, ok := obj[key]
	if !ok {
		return nil, &shared.FieldError{Field: key, Reason: "required key missing"}
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, &shared.FieldError{Field: key, Reason: "must be an array of strings"}
	}
	if len(items) == 0 {
		return nil, &shared.FieldError{Field: key, Reason: "must not be empty"}
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &shared.FieldError{
				Field:  fmt.Sprintf("%s[%d]", key, i),
				Reason: "must be a string",
			}
		}
		out[i] = s
	}
	return out, nil
}

// optionalInt accepts an integer or null/absent. Fractions and strings are
// rejected: "500kcal" or 12.5 for calories is a schema violation.
func optionalInt(obj map[string]interface{}, key string) (*int, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	num, ok := v.(json.Number)
	if !ok {
		return nil, &shared.FieldError{Field: key, Reason: "must be an integer or null"}
	}
	n, err := strconv.Atoi(num.String())
	if err != nil {
		return nil, &shared.FieldError{Field: key, Reason: "must be an integer or null"}
	}
	return &n, nil
}

func optionalDietType(obj map[string]interface{}) (*DietType, error) {
	v, ok := obj["dietType"]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &shared.FieldError{Field: "dietType", Reason: "must be a string or null"}
	}
	d := DietType(s)
	if !d.Valid() {
		return nil, &shared.FieldError{
			Field:  "dietType",
			Reason: fmt.Sprintf("%q is not a recognized diet type", s),
		}
	}
	return &d, nil
}

func parseGroceries(obj map[string]interface{}) ([]GroceryItem, error) {
	v, ok := obj["groceries"]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, &shared.FieldError{Field: "groceries", Reason: "must be an array"}
	}
	out := make([]GroceryItem, len(items))
	for i, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, &shared.FieldError{
				Field:  fmt.Sprintf("groceries[%d]", i),
				Reason: "must be an object",
			}
		}
		for _, key := range []string{"name", "quantity", "id"} {
			raw, ok := entry[key]
			if !ok {
				return nil, &shared.FieldError{
					Field:  fmt.Sprintf("groceries[%d].%s", i, key),
					Reason: "required key missing",
				}
			}
			s, ok := raw.(string)
			if !ok {
				return nil, &shared.FieldError{
					Field:  fmt.Sprintf("groceries[%d].%s", i, key),
					Reason: "must be a string",
				}
			}
			switch key {
			case "name":
				out[i].Name = s
			case "quantity":
				out[i].Quantity = s
			case "id":
				out[i].ID = s
			}
		}
	}
	return out, nil
}
