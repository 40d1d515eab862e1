package service

import (
	"context"

	"github.com/blog-comments-api/internal/auth"
	"github.com/blog-comments-api/internal/models"
	"github.com/blog-comments-api/internal/repository"
	"github.com/rs/zerolog"
)

// CommentService defines the interface for comment operations
type CommentService interface {
	ListApproved(ctx context.Context, postSlug, locale string) ([]*models.Comment, error)
	ListAll(ctx context.Context, postSlug string) ([]*models.Comment, error)
	Submit(ctx context.Context, identity *auth.Identity, postSlug string, input *models.CommentInput) (*models.Comment, error)
	SetApproved(ctx context.Context, id string, approved bool) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context) (*models.CommentCounts, error)
}

// Services holds all service interfaces
type Services struct {
	Comment CommentService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, log zerolog.Logger) *Services {
	return &Services{
		Comment: newCommentService(repos.Comment, log),
	}
}
