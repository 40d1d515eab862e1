package mocks

import (
	"context"
	"sort"

	"github.com/blog-comments-api/internal/models"
	"github.com/blog-comments-api/internal/repository"
)

// MockCommentRepository is an in-memory implementation of CommentRepository
type MockCommentRepository struct {
	Comments    map[string]*models.Comment
	InsertError error
	ListError   error
	InsertCalls int
}

// Verify interface compliance
var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[string]*models.Comment),
	}
}

func (m *MockCommentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	m.InsertCalls++
	if m.InsertError != nil {
		return m.InsertError
	}
	m.Comments[comment.ID] = comment
	return nil
}

func (m *MockCommentRepository) ListApproved(ctx context.Context, postSlug, locale string) ([]*models.Comment, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	results := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if c.PostSlug != postSlug || !c.Approved {
			continue
		}
		if locale != "" && (c.Locale == nil || *c.Locale != locale) {
			continue
		}
		results = append(results, c)
	}
	sortNewestFirst(results)
	return results, nil
}

func (m *MockCommentRepository) ListAll(ctx context.Context, postSlug string) ([]*models.Comment, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	results := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if c.PostSlug == postSlug {
			results = append(results, c)
		}
	}
	sortNewestFirst(results)
	return results, nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return m.Comments[id], nil
}

func (m *MockCommentRepository) SetApproved(ctx context.Context, id string, approved bool) (bool, error) {
	comment, exists := m.Comments[id]
	if !exists {
		return false, nil
	}
	comment.Approved = approved
	return true, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, exists := m.Comments[id]; !exists {
		return false, nil
	}
	delete(m.Comments, id)
	return true, nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	return len(m.Comments), nil
}

func (m *MockCommentRepository) CountApproved(ctx context.Context) (int, error) {
	count := 0
	for _, c := range m.Comments {
		if c.Approved {
			count++
		}
	}
	return count, nil
}

// sortNewestFirst matches the repository ordering contract: created_at
// descending with id descending as the tie-break.
func sortNewestFirst(comments []*models.Comment) {
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID > comments[j].ID
		}
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
}
