package domain

import (
	"sort"
	"strings"
)

// Alert levels in increasing severity: Normal, Waspada, Siaga, Awas.
var canonicalLevels = map[string]string{
	"normal":  "Normal",
	"waspada": "Waspada",
	"siaga":   "Siaga",
	"awas":    "Awas",
}

// NormalizeLevel trims and lower-cases the input and, when it matches one of
// the four known alert levels, returns the canonical capitalized form.
// Unrecognized input is returned trimmed but otherwise untouched; rejecting
// it is the validator's job, not the normalizer's. List filters rely on
// unknown values passing through unchanged.
func NormalizeLevel(level string) string {
	trimmed := strings.TrimSpace(level)
	if canonical, ok := canonicalLevels[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// ValidLevel reports whether level is one of the four canonical display
// values. Callers submitting observations must check this after normalizing.
func ValidLevel(level string) bool {
	for _, canonical := range canonicalLevels {
		if level == canonical {
			return true
		}
	}
	return false
}

// AllowedLevels returns the canonical display values in sorted order, for
// validation error messages.
func AllowedLevels() []string {
	out := make([]string, 0, len(canonicalLevels))
	for _, canonical := range canonicalLevels {
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}
