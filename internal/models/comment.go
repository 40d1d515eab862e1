package models

import (
	"time"
)

// Comment represents a reader comment attached to a blog post or guide page.
// Comments are immutable once created; moderation only flips the approved flag.
type Comment struct {
	ID          string    `json:"id" db:"id"`
	PostSlug    string    `json:"postSlug" db:"post_slug"`
	Locale      *string   `json:"locale" db:"locale"`
	UserID      string    `json:"userId" db:"user_id"`
	DisplayName string    `json:"displayName" db:"display_name"`
	Content     string    `json:"content" db:"content"`
	Approved    bool      `json:"approved" db:"approved"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// CommentView is the public response shape. The moderation flag and the
// post slug are internal and never leave the service on public endpoints.
type CommentView struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	Locale      *string   `json:"locale"`
	UserID      string    `json:"userId"`
}

// View returns the public projection of a comment
func (c *Comment) View() *CommentView {
	return &CommentView{
		ID:          c.ID,
		DisplayName: c.DisplayName,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
		Locale:      c.Locale,
		UserID:      c.UserID,
	}
}

// CommentInput is the submission request body
type CommentInput struct {
	Content string  `json:"content"`
	Locale  *string `json:"locale,omitempty"`
}

// CommentCounts summarizes stored comments for the metrics endpoint
type CommentCounts struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
}

// MaxContentChars is the maximum allowed characters in a comment body,
// counted after trimming surrounding whitespace
const MaxContentChars = 1000
