package repository

import (
	"context"

	"github.com/blog-comments-api/internal/database"
	"github.com/blog-comments-api/internal/models"
)

// CommentRepository defines the interface for comment data operations.
// Listing methods return comments ordered by created_at descending with
// id as a deterministic tie-break.
type CommentRepository interface {
	Insert(ctx context.Context, comment *models.Comment) error
	ListApproved(ctx context.Context, postSlug, locale string) ([]*models.Comment, error)
	ListAll(ctx context.Context, postSlug string) ([]*models.Comment, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	SetApproved(ctx context.Context, id string, approved bool) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	CountApproved(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment CommentRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Comment: NewCommentRepo(db),
	}
}
