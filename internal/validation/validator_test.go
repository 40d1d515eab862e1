package validation

import (
	"strings"
	"testing"
)

func TestValidateCommentContent(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantErrors  int
		wantMessage string
	}{
		{
			name:       "valid short content",
			content:    "Great guide!",
			wantErrors: 0,
		},
		{
			name:       "valid content at max length",
			content:    strings.Repeat("a", 1000),
			wantErrors: 0,
		},
		{
			name:        "empty content",
			content:     "",
			wantErrors:  1,
			wantMessage: "content is required",
		},
		{
			name:        "content over max length",
			content:     strings.Repeat("a", 1001),
			wantErrors:  1,
			wantMessage: "content must be 1000 characters or less",
		},
		{
			name:       "multibyte content counted in runes not bytes",
			content:    strings.Repeat("デ", 1000),
			wantErrors: 0,
		},
		{
			name:        "multibyte content over max length",
			content:     strings.Repeat("デ", 1001),
			wantErrors:  1,
			wantMessage: "content must be 1000 characters or less",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCommentContent(tt.content)
			if len(errs) != tt.wantErrors {
				t.Fatalf("Expected %d errors, got %d: %v", tt.wantErrors, len(errs), errs)
			}
			if tt.wantMessage != "" && errs[0].Message != tt.wantMessage {
				t.Errorf("Expected message %q, got %q", tt.wantMessage, errs[0].Message)
			}
		})
	}
}

func TestValidateCommentID(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantErrors int
	}{
		{
			name:       "valid uuid",
			id:         "550e8400-e29b-41d4-a716-446655440000",
			wantErrors: 0,
		},
		{
			name:       "missing id",
			id:         "",
			wantErrors: 1,
		},
		{
			name:       "not a uuid",
			id:         "comment-123",
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCommentID(tt.id)
			if len(errs) != tt.wantErrors {
				t.Errorf("Expected %d errors, got %d: %v", tt.wantErrors, len(errs), errs)
			}
		})
	}
}
