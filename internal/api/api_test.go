package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blog-comments-api/internal/api"
	"github.com/blog-comments-api/internal/auth"
	"github.com/blog-comments-api/internal/config"
	"github.com/blog-comments-api/internal/mocks"
	"github.com/blog-comments-api/internal/models"
	"github.com/blog-comments-api/internal/repository"
	"github.com/blog-comments-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// failingPinger simulates an unreachable database for the health endpoint
type failingPinger struct{}

func (failingPinger) HealthCheck(ctx context.Context) error {
	return errors.New("connection refused")
}

func setupTestRouter(sessions auth.SessionResolver) (*gin.Engine, *mocks.MockCommentRepository) {
	gin.SetMode(gin.TestMode)

	repo := mocks.NewMockCommentRepository()
	services := service.NewServices(&repository.Repositories{Comment: repo}, zerolog.Nop())

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		CORS:   config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
	}

	log := zerolog.Nop()
	router := api.NewRouter(services, sessions, nil, cfg, log)

	return router, repo
}

func doJSON(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedComment(repo *mocks.MockCommentRepository, id, slug, content string, approved bool, locale *string, createdAt time.Time) {
	repo.Comments[id] = &models.Comment{
		ID:          id,
		PostSlug:    slug,
		Locale:      locale,
		UserID:      "user-" + id,
		DisplayName: "Reader " + id,
		Content:     content,
		Approved:    approved,
		CreatedAt:   createdAt,
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter(&mocks.StaticSessionResolver{})

	w := doJSON(router, "GET", "/health", nil, "")

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "blog-comments-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestHealthEndpoint_Degraded(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := mocks.NewMockCommentRepository()
	services := service.NewServices(&repository.Repositories{Comment: repo}, zerolog.Nop())
	cfg := &config.Config{CORS: config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}}}
	router := api.NewRouter(services, &mocks.StaticSessionResolver{}, failingPinger{}, cfg, zerolog.Nop())

	w := doJSON(router, "GET", "/health", nil, "")

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["status"] != "degraded" {
		t.Errorf("Expected status 'degraded', got %v", response["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, repo := setupTestRouter(&mocks.StaticSessionResolver{})
	seedComment(repo, "c1", "guides/boss", "a", true, nil, time.Now())
	seedComment(repo, "c2", "guides/boss", "b", false, nil, time.Now())

	w := doJSON(router, "GET", "/metrics", nil, "")

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Comments models.CommentCounts `json:"comments"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response.Comments.Total != 2 {
		t.Errorf("Expected 2 total comments, got %d", response.Comments.Total)
	}
	if response.Comments.Approved != 1 {
		t.Errorf("Expected 1 approved comment, got %d", response.Comments.Approved)
	}
}

func TestListComments_MissingSlug(t *testing.T) {
	router, _ := setupTestRouter(&mocks.StaticSessionResolver{})

	w := doJSON(router, "GET", "/v1/blog/comments/", nil, "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] != "Missing post slug" {
		t.Errorf("Expected missing slug error, got %q", response["error"])
	}
}

func TestListComments_EmptyPost(t *testing.T) {
	router, _ := setupTestRouter(&mocks.StaticSessionResolver{})

	w := doJSON(router, "GET", "/v1/blog/comments/guides/unvisited", nil, "")

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Comments []models.CommentView `json:"comments"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response.Comments == nil {
		t.Fatal("Expected empty comments array, got null")
	}
	if len(response.Comments) != 0 {
		t.Errorf("Expected no comments, got %d", len(response.Comments))
	}
}

func TestListComments_OrderingAndFiltering(t *testing.T) {
	router, repo := setupTestRouter(&mocks.StaticSessionResolver{})
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	en := "en"
	ja := "ja"

	seedComment(repo, "c1", "guides/walkthrough/main-arc", "oldest", true, &en, base)
	seedComment(repo, "c2", "guides/walkthrough/main-arc", "middle", true, &ja, base.Add(time.Minute))
	seedComment(repo, "c3", "guides/walkthrough/main-arc", "newest", true, &en, base.Add(2*time.Minute))
	seedComment(repo, "c4", "guides/walkthrough/main-arc", "unapproved", false, &en, base.Add(3*time.Minute))

	// Multi-segment slug, no locale filter
	w := doJSON(router, "GET", "/v1/blog/comments/guides/walkthrough/main-arc", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Comments []models.CommentView `json:"comments"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if len(response.Comments) != 3 {
		t.Fatalf("Expected 3 comments, got %d", len(response.Comments))
	}
	if response.Comments[0].Content != "newest" {
		t.Errorf("Expected newest comment first, got %q", response.Comments[0].Content)
	}
	for i := 0; i < len(response.Comments)-1; i++ {
		if response.Comments[i].CreatedAt.Before(response.Comments[i+1].CreatedAt) {
			t.Errorf("Comments not sorted newest first at index %d", i)
		}
	}
	for _, c := range response.Comments {
		if c.Content == "unapproved" {
			t.Error("Unapproved comment leaked into public listing")
		}
	}

	// Locale filter
	w = doJSON(router, "GET", "/v1/blog/comments/guides/walkthrough/main-arc?locale=ja", nil, "")
	json.Unmarshal(w.Body.Bytes(), &response)
	if len(response.Comments) != 1 {
		t.Fatalf("Expected 1 ja comment, got %d", len(response.Comments))
	}
	if response.Comments[0].Locale == nil || *response.Comments[0].Locale != "ja" {
		t.Error("Expected ja locale on filtered comment")
	}
}

func TestCreateComment_Unauthorized(t *testing.T) {
	router, repo := setupTestRouter(&mocks.StaticSessionResolver{})

	w := doJSON(router, "POST", "/v1/blog/comments/guides/boss", map[string]string{"content": "Great guide!"}, "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] != "Unauthorized" {
		t.Errorf("Expected Unauthorized error, got %q", response["error"])
	}
	if repo.InsertCalls != 0 {
		t.Error("Unauthenticated submission must not touch storage")
	}
}

func TestCreateComment_InvalidToken(t *testing.T) {
	router, repo := setupTestRouter(&mocks.StaticSessionResolver{Err: auth.ErrInvalidToken})

	w := doJSON(router, "POST", "/v1/blog/comments/guides/boss", map[string]string{"content": "Great guide!"}, "garbage")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if repo.InsertCalls != 0 {
		t.Error("Invalid session must not touch storage")
	}
}

func TestCreateComment_MissingSlug(t *testing.T) {
	router, _ := setupTestRouter(&mocks.StaticSessionResolver{
		Identity: &auth.Identity{ID: "user-1", Name: "Taichi"},
	})

	w := doJSON(router, "POST", "/v1/blog/comments/", map[string]string{"content": "Great guide!"}, "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestCreateComment_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantMessage string
	}{
		{
			name:        "whitespace only",
			content:     "  ",
			wantMessage: "content is required",
		},
		{
			name:        "over 1000 characters",
			content:     strings.Repeat("a", 1001),
			wantMessage: "content must be 1000 characters or less",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := setupTestRouter(&mocks.StaticSessionResolver{
				Identity: &auth.Identity{ID: "user-1", Name: "Taichi"},
			})

			w := doJSON(router, "POST", "/v1/blog/comments/guides/boss", map[string]string{"content": tt.content}, "")

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}

			var response map[string]string
			json.Unmarshal(w.Body.Bytes(), &response)
			if response["error"] != tt.wantMessage {
				t.Errorf("Expected error %q, got %q", tt.wantMessage, response["error"])
			}
			if repo.InsertCalls != 0 {
				t.Error("Validation failure must not persist a record")
			}
		})
	}
}

func TestCreateComment_RoundTrip(t *testing.T) {
	router, _ := setupTestRouter(&mocks.StaticSessionResolver{
		Identity: &auth.Identity{ID: "user-1", Name: "Taichi", Email: "taichi@example.com"},
	})

	w := doJSON(router, "POST", "/v1/blog/comments/guides/boss/apex-dossiers", map[string]string{"content": "Great guide!"}, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Comment models.CommentView `json:"comment"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)

	if created.Comment.Content != "Great guide!" {
		t.Errorf("Expected created content, got %q", created.Comment.Content)
	}
	if created.Comment.DisplayName != "Taichi" {
		t.Errorf("Expected display name snapshot, got %q", created.Comment.DisplayName)
	}
	if created.Comment.ID == "" {
		t.Error("Expected generated comment id")
	}

	// Immediately retrievable, first in the list
	w = doJSON(router, "GET", "/v1/blog/comments/guides/boss/apex-dossiers", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var listed struct {
		Comments []models.CommentView `json:"comments"`
	}
	json.Unmarshal(w.Body.Bytes(), &listed)

	if len(listed.Comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(listed.Comments))
	}
	if listed.Comments[0].Content != "Great guide!" {
		t.Errorf("Expected round-tripped content, got %q", listed.Comments[0].Content)
	}
	if listed.Comments[0].ID != created.Comment.ID {
		t.Error("Listed comment id does not match created comment")
	}
}

func TestAdminEndpoints_RequireSession(t *testing.T) {
	router, _ := setupTestRouter(&mocks.StaticSessionResolver{})

	w := doJSON(router, "GET", "/v1/admin/comments/guides/boss", nil, "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestAdminEndpoints_RejectNonAdmin(t *testing.T) {
	router, _ := setupTestRouter(&mocks.StaticSessionResolver{
		Identity: &auth.Identity{ID: "user-1", Name: "Taichi"},
	})

	w := doJSON(router, "GET", "/v1/admin/comments/guides/boss", nil, "")

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
}

func TestAdminList_IncludesUnapproved(t *testing.T) {
	router, repo := setupTestRouter(&mocks.StaticSessionResolver{
		Identity: &auth.Identity{ID: "admin-1", Name: "Mod", Role: auth.RoleAdmin},
	})
	seedComment(repo, "c1", "guides/boss", "visible", true, nil, time.Now())
	seedComment(repo, "c2", "guides/boss", "hidden", false, nil, time.Now().Add(time.Minute))

	w := doJSON(router, "GET", "/v1/admin/comments/guides/boss", nil, "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Comments []models.Comment `json:"comments"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if len(response.Comments) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(response.Comments))
	}
	if response.Comments[0].Approved {
		t.Error("Expected the unapproved comment first (newest)")
	}
}

func TestUpdateApproval(t *testing.T) {
	router, repo := setupTestRouter(&mocks.StaticSessionResolver{
		Identity: &auth.Identity{ID: "admin-1", Role: auth.RoleAdmin},
	})
	id := "550e8400-e29b-41d4-a716-446655440000"
	seedComment(repo, id, "guides/boss", "spam", true, nil, time.Now())

	w := doJSON(router, "PATCH", fmt.Sprintf("/v1/admin/comments/%s/approval", id), map[string]bool{"approved": false}, "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if repo.Comments[id].Approved {
		t.Error("Expected comment to be unapproved")
	}

	// Revoked comment no longer publicly visible
	w = doJSON(router, "GET", "/v1/blog/comments/guides/boss", nil, "")
	var listed struct {
		Comments []models.CommentView `json:"comments"`
	}
	json.Unmarshal(w.Body.Bytes(), &listed)
	if len(listed.Comments) != 0 {
		t.Errorf("Revoked comment still listed publicly, got %d", len(listed.Comments))
	}
}

func TestUpdateApproval_Errors(t *testing.T) {
	router, _ := setupTestRouter(&mocks.StaticSessionResolver{
		Identity: &auth.Identity{ID: "admin-1", Role: auth.RoleAdmin},
	})

	// Malformed id
	w := doJSON(router, "PATCH", "/v1/admin/comments/not-a-uuid/approval", map[string]bool{"approved": false}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad id, got %d", w.Code)
	}

	// Missing approved field
	w = doJSON(router, "PATCH", "/v1/admin/comments/550e8400-e29b-41d4-a716-446655440000/approval", map[string]string{}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing approved, got %d", w.Code)
	}

	// Unknown comment
	w = doJSON(router, "PATCH", "/v1/admin/comments/550e8400-e29b-41d4-a716-446655440000/approval", map[string]bool{"approved": false}, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown comment, got %d", w.Code)
	}
}

func TestDeleteComment(t *testing.T) {
	router, repo := setupTestRouter(&mocks.StaticSessionResolver{
		Identity: &auth.Identity{ID: "admin-1", Role: auth.RoleAdmin},
	})
	id := "550e8400-e29b-41d4-a716-446655440000"
	seedComment(repo, id, "guides/boss", "spam", true, nil, time.Now())

	w := doJSON(router, "DELETE", "/v1/admin/comments/"+id, nil, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if len(repo.Comments) != 0 {
		t.Error("Comment was not deleted")
	}

	w = doJSON(router, "DELETE", "/v1/admin/comments/"+id, nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", w.Code)
	}
}
