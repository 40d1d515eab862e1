package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blog-comments-api/internal/auth"
	"github.com/blog-comments-api/internal/models"
	"github.com/blog-comments-api/internal/repository"
	"github.com/blog-comments-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNotFound indicates the referenced comment does not exist
var ErrNotFound = errors.New("comment not found")

// InvalidCommentError carries the validation failures of a submission.
// Error() reports only the first failing rule, matching the response
// contract of the submission endpoint.
type InvalidCommentError struct {
	Errors []validation.ValidationError
}

func (e *InvalidCommentError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid comment"
	}
	return e.Errors[0].Message
}

// commentService is the concrete implementation of CommentService
type commentService struct {
	repo repository.CommentRepository
	log  zerolog.Logger
}

// newCommentService creates a new CommentService
func newCommentService(repo repository.CommentRepository, log zerolog.Logger) *commentService {
	return &commentService{
		repo: repo,
		log:  log.With().Str("service", "comment").Logger(),
	}
}

// ListApproved returns the publicly visible comments for a post, newest
// first. When locale is empty, comments across all locales are returned.
func (s *commentService) ListApproved(ctx context.Context, postSlug, locale string) ([]*models.Comment, error) {
	comments, err := s.repo.ListApproved(ctx, postSlug, locale)
	if err != nil {
		return nil, fmt.Errorf("list comments for %q: %w", postSlug, err)
	}
	return comments, nil
}

// ListAll returns every comment for a post including unapproved ones.
// Callers must gate this behind a moderation role check.
func (s *commentService) ListAll(ctx context.Context, postSlug string) ([]*models.Comment, error) {
	comments, err := s.repo.ListAll(ctx, postSlug)
	if err != nil {
		return nil, fmt.Errorf("list all comments for %q: %w", postSlug, err)
	}
	return comments, nil
}

// Submit validates and persists a new comment for the authenticated
// identity. Content is trimmed before validation and the trimmed form is
// what gets stored. The display name is snapshotted from the identity at
// write time and never re-derived.
func (s *commentService) Submit(ctx context.Context, identity *auth.Identity, postSlug string, input *models.CommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(input.Content)

	if errs := validation.ValidateCommentContent(content); len(errs) > 0 {
		return nil, &InvalidCommentError{Errors: errs}
	}

	// An empty locale string means "no locale", same as an absent field
	locale := input.Locale
	if locale != nil && *locale == "" {
		locale = nil
	}

	comment := &models.Comment{
		ID:          uuid.New().String(),
		PostSlug:    postSlug,
		Locale:      locale,
		UserID:      identity.ID,
		DisplayName: identity.DisplayName(),
		Content:     content,
		Approved:    true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, comment); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	s.log.Info().
		Str("comment_id", comment.ID).
		Str("post_slug", postSlug).
		Str("user_id", identity.ID).
		Msg("Comment created")

	return comment, nil
}

// SetApproved updates the moderation flag on a comment and returns the
// updated record
func (s *commentService) SetApproved(ctx context.Context, id string, approved bool) (*models.Comment, error) {
	updated, err := s.repo.SetApproved(ctx, id, approved)
	if err != nil {
		return nil, fmt.Errorf("set approval for %s: %w", id, err)
	}
	if !updated {
		return nil, ErrNotFound
	}

	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload comment %s: %w", id, err)
	}
	if comment == nil {
		return nil, ErrNotFound
	}

	s.log.Info().
		Str("comment_id", id).
		Bool("approved", approved).
		Msg("Comment moderation flag updated")

	return comment, nil
}

// Delete removes a comment permanently
func (s *commentService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete comment %s: %w", id, err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.log.Info().Str("comment_id", id).Msg("Comment deleted")
	return nil
}

// Counts returns comment totals for the metrics endpoint
func (s *commentService) Counts(ctx context.Context) (*models.CommentCounts, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	approved, err := s.repo.CountApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("count approved comments: %w", err)
	}
	return &models.CommentCounts{Total: total, Approved: approved}, nil
}
