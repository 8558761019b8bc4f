package task

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinTitleLength is the length a trimmed title must exceed.
const MinTitleLength = 10

// ValidationError is returned when a title is rejected before any remote call.
type ValidationError struct {
	Title string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Task must be longer than %d characters.", MinTitleLength)
}

// ValidTitle reports whether text, once trimmed, is longer than MinTitleLength
// characters.
func ValidTitle(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) > MinTitleLength
}

// ValidateTitle returns a *ValidationError when text is not a valid title.
func ValidateTitle(text string) error {
	if !ValidTitle(text) {
		return &ValidationError{Title: text}
	}
	return nil
}
