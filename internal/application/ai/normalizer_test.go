package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avionmeals/backend/pkg/errors"
)

func TestNormalizeStripsMarkdownFences(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		shape Shape
		want  string
	}{
		{
			name:  "json fence",
			raw:   "```json\n[{\"day\": \"Mon\"}]\n```",
			shape: ShapeList,
			want:  `[{"day": "Mon"}]`,
		},
		{
			name:  "uppercase JSON fence",
			raw:   "```JSON\n{\"title\": \"Dal\"}\n```",
			shape: ShapeObject,
			want:  `{"title": "Dal"}`,
		},
		{
			name:  "bare fence",
			raw:   "```\n{\"title\": \"Dal\"}\n```",
			shape: ShapeObject,
			want:  `{"title": "Dal"}`,
		},
		{
			name:  "no fence",
			raw:   `  {"title": "Dal"}  `,
			shape: ShapeObject,
			want:  `{"title": "Dal"}`,
		},
		{
			name:  "escaped newlines removed",
			raw:   "[{\"day\":\\n \"Mon\"}]",
			shape: ShapeList,
			want:  `[{"day": "Mon"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.shape)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestNormalizeRejectsNonJSON(t *testing.T) {
	_, err := Normalize("Sure! Here is your meal plan: ...", ShapeList)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNormalizationFailed))
}

func TestNormalizeRejectsWrongShape(t *testing.T) {
	_, err := Normalize("{}", ShapeList)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNormalizationFailed))

	_, err = Normalize("[]", ShapeObject)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNormalizationFailed))
}

func TestNormalizeRejectsEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "```json\n```"} {
		_, err := Normalize(raw, ShapeList)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestNormalizeScalarTopLevel(t *testing.T) {
	// Valid JSON of the wrong kind still fails the shape check.
	_, err := Normalize(`"just a string"`, ShapeObject)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNormalizationFailed))
}
