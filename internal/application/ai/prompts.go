package ai

import "fmt"

// Prompt templates per task type. The JSON-only instructions matter: the
// normalizer can strip fences and escaped newlines, but prose around the
// payload would still fail parsing.

const mealPlanSystemPrompt = "You are a helpful meal planning assistant."

const recipeSystemPrompt = "You are a professional recipe generator."

const mealPlanTemperature = 0.7

const recipeTemperature = 0.6

func mealPlanUserPrompt(cuisine string) string {
	return fmt.Sprintf(`Generate a 7-day meal plan for %q

Return ONLY a valid JSON array.
No markdown. No explanation.

Each item must match:
[
  {
    "id": "uuid",
    "day": "Mon",
    "breakfast": "Oats",
    "lunch": "Dal Rice",
    "dinner": "Roti Sabzi"
  }
]

Rules:
- id must be a unique UUID every time`, cuisine)
}

func recipeUserPrompt(mealName string) string {
	return fmt.Sprintf(`Generate a detailed recipe for the dish %q.

Respond ONLY with valid JSON.
No markdown.
No explanation.
No extra text.

JSON structure MUST be:

{
  "title": %q,
  "ingredients": ["string"],
  "steps": ["string"],
  "calories": number or null,
  "cookingTimeMinutes": number or null,
  "dietType": "Vegetarian | Vegan | Eggetarian | Non-Vegetarian | null",
  "id": "uuid",
  "groceries": [
    { "name": "", "quantity": "", "id": "uuid" }
  ]
}

Rules:
- ingredients and steps must be arrays
- calories and cookingTimeMinutes must be integers or null
- id must be a unique UUID`, mealName, mealName)
}
