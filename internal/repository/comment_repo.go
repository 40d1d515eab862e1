package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blog-comments-api/internal/database"
	"github.com/blog-comments-api/internal/models"
	"github.com/lib/pq"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

const commentColumns = "id, post_slug, locale, user_id, display_name, content, approved, created_at"

// Insert persists a new comment. Inserts are append-only; every comment
// arrives with a freshly generated id, so writes never conflict.
func (r *commentRepo) Insert(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO blog_comments (id, post_slug, locale, user_id, display_name, content, approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.PostSlug, comment.Locale, comment.UserID,
		comment.DisplayName, comment.Content, comment.Approved, comment.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("comment id collision for %s: %w", comment.ID, err)
		}
		return err
	}
	return nil
}

// ListApproved retrieves approved comments for a post, newest first.
// An empty locale means comments across all locales are returned.
func (r *commentRepo) ListApproved(ctx context.Context, postSlug, locale string) ([]*models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM blog_comments
		WHERE post_slug = $1 AND approved = TRUE
	`
	args := []interface{}{postSlug}

	if locale != "" {
		query += " AND locale = $2"
		args = append(args, locale)
	}
	query += " ORDER BY created_at DESC, id DESC"

	return r.queryComments(ctx, query, args...)
}

// ListAll retrieves every comment for a post regardless of moderation
// state, newest first. Used by the moderation endpoints only.
func (r *commentRepo) ListAll(ctx context.Context, postSlug string) ([]*models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM blog_comments
		WHERE post_slug = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.queryComments(ctx, query, postSlug)
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM blog_comments WHERE id = $1`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// SetApproved flips the moderation flag on a comment. Returns false when
// no comment with the given id exists.
func (r *commentRepo) SetApproved(ctx context.Context, id string, approved bool) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE blog_comments SET approved = $1 WHERE id = $2", approved, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes a comment. Returns false when no comment with the given
// id exists.
func (r *commentRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM blog_comments WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blog_comments").Scan(&count)
	return count, err
}

// CountApproved returns the number of publicly visible comments
func (r *commentRepo) CountApproved(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blog_comments WHERE approved = TRUE").Scan(&count)
	return count, err
}

func (r *commentRepo) queryComments(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID, &comment.PostSlug, &comment.Locale, &comment.UserID,
		&comment.DisplayName, &comment.Content, &comment.Approved, &comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
