package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/blog-comments-api/internal/auth"
	"github.com/blog-comments-api/internal/models"
	"github.com/blog-comments-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles the public comment endpoints
type CommentHandler struct {
	services *service.Services
	sessions auth.SessionResolver
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, sessions auth.SessionResolver, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		sessions: sessions,
		log:      log.With().Str("handler", "comments").Logger(),
	}
}

// postSlugParam extracts the post slug from the wildcard path parameter.
// Gin reports the wildcard with a leading slash; the stored slug is the
// joined path segments without it.
func postSlugParam(c *gin.Context) string {
	return strings.Trim(c.Param("slug"), "/")
}

// ListComments handles GET /v1/blog/comments/*slug
// Returns approved comments for the post, newest first, optionally
// scoped to a single locale via the ?locale query parameter.
func (h *CommentHandler) ListComments(c *gin.Context) {
	slug := postSlugParam(c)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing post slug"})
		return
	}

	locale := c.Query("locale")

	comments, err := h.services.Comment.ListApproved(c.Request.Context(), slug, locale)
	if err != nil {
		h.log.Error().Err(err).Str("post_slug", slug).Msg("Failed to list comments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	views := make([]*models.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, comment.View())
	}

	c.JSON(http.StatusOK, gin.H{"comments": views})
}

// CreateComment handles POST /v1/blog/comments/*slug
// Check order is part of the contract: slug presence, then session, then
// content validation. An unauthenticated request never touches storage.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	slug := postSlugParam(c)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing post slug"})
		return
	}

	identity, err := h.sessions.Resolve(c.Request)
	if err != nil || identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.services.Comment.Submit(c.Request.Context(), identity, slug, &input)
	if err != nil {
		var invalid *service.InvalidCommentError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
			return
		}
		h.log.Error().Err(err).Str("post_slug", slug).Msg("Failed to create comment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment.View()})
}
