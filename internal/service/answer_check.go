package service

import (
	"strings"

	"birdsong-quiz/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeAnswer trims surrounding whitespace, composes to NFC and applies Unicode case folding.
func NormalizeAnswer(s string) string {
	// cases.Caser keeps state and must not be shared between goroutines.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// IsCorrectAnswer reports whether userAnswer names the species in any supported locale
// or by its scientific name. Blank answers are never correct.
func IsCorrectAnswer(userAnswer string, species *domain.Species) bool {
	if species == nil {
		return false
	}
	normalized := NormalizeAnswer(userAnswer)
	if normalized == "" {
		return false
	}
	for _, name := range species.AcceptedNames() {
		if NormalizeAnswer(name) == normalized {
			return true
		}
	}
	return false
}
