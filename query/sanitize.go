package query

import (
	"fmt"
	"regexp"

	"github.com/krishiq/krishiq/errors"
)

// MaxQuestionLength is the cap applied to accepted questions. Longer input
// is truncated rather than rejected.
const MaxQuestionLength = 500

// inputPattern permits letters, digits, whitespace, and basic punctuation.
// Everything else, including HTML and SQL metacharacters, fails validation.
var inputPattern = regexp.MustCompile(`^[a-zA-Z0-9\s\.,?!\-_]+$`)

// Sanitize validates a raw question and truncates it to MaxQuestionLength.
// Questions containing characters outside the allowed set are rejected
// outright rather than stripped, and the empty string is rejected too.
func Sanitize(text string) (string, error) {
	if !inputPattern.MatchString(text) {
		return "", fmt.Errorf("question contains unsupported characters: %w", errors.ErrInvalidInput)
	}
	// The allowed set is pure ASCII, so byte slicing cannot split a rune.
	if len(text) > MaxQuestionLength {
		text = text[:MaxQuestionLength]
	}
	return text, nil
}
