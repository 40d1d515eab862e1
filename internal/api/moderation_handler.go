package api

import (
	"errors"
	"net/http"

	"github.com/blog-comments-api/internal/service"
	"github.com/blog-comments-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ModerationHandler handles the admin comment endpoints. Role checks
// happen in the adminOnly middleware before these handlers run.
type ModerationHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(services *service.Services, log zerolog.Logger) *ModerationHandler {
	return &ModerationHandler{
		services: services,
		log:      log.With().Str("handler", "moderation").Logger(),
	}
}

// approvalRequest is the PATCH body for UpdateApproval. A pointer
// distinguishes a missing field from an explicit false.
type approvalRequest struct {
	Approved *bool `json:"approved"`
}

// ListForModeration handles GET /v1/admin/comments/*slug
// Returns every comment for the post including unapproved ones, with the
// moderation flag and post slug exposed.
func (h *ModerationHandler) ListForModeration(c *gin.Context) {
	slug := postSlugParam(c)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing post slug"})
		return
	}

	comments, err := h.services.Comment.ListAll(c.Request.Context(), slug)
	if err != nil {
		h.log.Error().Err(err).Str("post_slug", slug).Msg("Failed to list comments for moderation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// UpdateApproval handles PATCH /v1/admin/comments/:id/approval
func (h *ModerationHandler) UpdateApproval(c *gin.Context) {
	id := c.Param("id")
	if errs := validation.ValidateCommentID(id); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs[0].Message})
		return
	}

	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Approved == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved is required"})
		return
	}

	comment, err := h.services.Comment.SetApproved(c.Request.Context(), id, *req.Approved)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}
		h.log.Error().Err(err).Str("comment_id", id).Msg("Failed to update approval")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update approval"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteComment handles DELETE /v1/admin/comments/:id
func (h *ModerationHandler) DeleteComment(c *gin.Context) {
	id := c.Param("id")
	if errs := validation.ValidateCommentID(id); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs[0].Message})
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}
		h.log.Error().Err(err).Str("comment_id", id).Msg("Failed to delete comment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		return
	}

	c.Status(http.StatusNoContent)
}
