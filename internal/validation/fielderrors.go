// Package validation converts untyped submission payloads into sanitized,
// typed values or a structured set of field errors.
package validation

// FieldErrors maps a submitted field path to a human-readable failure
// message. All violations for a payload are collected in one pass.
type FieldErrors map[string]string

// Add records a failure message for a field. The first message for a field
// wins so error output is stable regardless of check order changes.
func (e FieldErrors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// HasErrors reports whether any field failed validation.
func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}
