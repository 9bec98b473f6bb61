package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips unsafe markup from user supplied text.
type Sanitizer interface {
	Sanitize(s string) string
}

// DefaultSanitizer allows the user-generated-content subset of HTML.
func DefaultSanitizer() Sanitizer {
	return bluemonday.UGCPolicy()
}

// StrictSanitizer removes all markup. Used for names.
func StrictSanitizer() Sanitizer {
	return bluemonday.StrictPolicy()
}

// cleanList trims entries and drops empty ones, keeping order and repeats.
// A nil sanitizer leaves the values untouched.
func cleanList(in []string, s Sanitizer) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if s != nil {
			v = s.Sanitize(v)
		}
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
