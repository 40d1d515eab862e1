package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/blog-comments-api/internal/models"
	"github.com/google/uuid"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateCommentContent validates a comment body that has already been
// trimmed of surrounding whitespace. Rules are checked in order; callers
// surface only the first failing rule.
func ValidateCommentContent(content string) []ValidationError {
	var errors []ValidationError

	if content == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
		return errors
	}

	if utf8.RuneCountInString(content) > models.MaxContentChars {
		errors = append(errors, ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("content must be %d characters or less", models.MaxContentChars),
		})
	}

	return errors
}

// ValidateCommentID checks that a moderation target id is a well-formed UUID
func ValidateCommentID(id string) []ValidationError {
	var errors []ValidationError

	if id == "" {
		errors = append(errors, ValidationError{Field: "id", Message: "id is required"})
	} else if !isValidUUID(id) {
		errors = append(errors, ValidationError{Field: "id", Message: "invalid UUID format"})
	}

	return errors
}

// isValidUUID checks if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
