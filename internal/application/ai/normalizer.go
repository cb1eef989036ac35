package ai

import (
	"encoding/json"
	"strings"

	"github.com/avionmeals/backend/pkg/errors"
)

// Shape tags the expected top-level JSON kind of a completion.
type Shape int

const (
	// ShapeList expects a JSON array (meal plans).
	ShapeList Shape = iota
	// ShapeObject expects a JSON object (recipes).
	ShapeObject
)

func (s Shape) String() string {
	if s == ShapeList {
		return "array"
	}
	return "object"
}

// Normalize turns raw completion text into a parsed, shape-confirmed JSON
// value. Providers wrap otherwise-valid JSON in markdown fences and emit
// escaped newlines inside it; both are stripped before parsing.
//
// The `\n` removal is applied blindly across the whole text. A legitimate
// embedded string containing that literal two-character sequence would be
// corrupted; known rough edge, kept for provider compatibility.
func Normalize(raw string, shape Shape) (json.RawMessage, error) {
	text := strings.TrimSpace(raw)

	if len(text) >= 7 && strings.EqualFold(text[:7], "```json") {
		text = text[7:]
	} else if strings.HasPrefix(text, "```") {
		text = text[3:]
	}
	text = strings.TrimSpace(text)

	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(text[:len(text)-3])
	}

	text = strings.ReplaceAll(text, `\n`, "")
	text = strings.TrimSpace(text)

	if text == "" {
		return nil, errors.NewNormalizationFailed("completion is empty", nil)
	}

	var probe interface{}
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, errors.NewNormalizationFailed("completion is not valid JSON", err)
	}

	var matches bool
	switch shape {
	case ShapeList:
		_, matches = probe.([]interface{})
	case ShapeObject:
		_, matches = probe.(map[string]interface{})
	}
	if !matches {
		return nil, errors.NewNormalizationFailed(
			"completion top-level kind is not a JSON "+shape.String(), nil)
	}

	return json.RawMessage(text), nil
}
