package validation

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from free-text fields so no executable content
// survives into storage or outgoing email.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a sanitizer with a strict no-tags policy.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// maxSanitizePasses bounds the sanitize/unescape loop. Each pass removes
// one layer of entity encoding, so convergence is immediate for ordinary
// text and takes one extra pass per nesting level for encoded markup.
const maxSanitizePasses = 8

// Clean trims the input and removes any HTML markup, returning plain text.
// Ordinary Unicode text passes through unchanged except for trimming.
//
// Sanitizing and unescaping run to a fixpoint: entity-encoded markup like
// "&lt;script&gt;" decodes to a real tag on one pass and is stripped on the
// next, so the unescape step can never reintroduce live markup into the
// result.
func (s *Sanitizer) Clean(in string) string {
	cleaned := in
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(s.policy.Sanitize(cleaned))
		if next == cleaned {
			return strings.TrimSpace(cleaned)
		}
		cleaned = next
	}
	// Pathologically nested encodings did not converge; return the
	// stripped form without the final unescape so no markup survives.
	return strings.TrimSpace(s.policy.Sanitize(cleaned))
}
