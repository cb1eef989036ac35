// Package shared holds small domain types used across aggregate packages.
package shared

import "fmt"

// FieldError names the field of an AI payload that failed schema validation.
// The field path uses JSON-ish notation, e.g. "groceries[2].quantity".
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}
