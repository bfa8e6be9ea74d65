package handlers

import (
	"errors"
	"net/http"

	"coursehub/i18n"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services/community"

	"github.com/gin-gonic/gin"
)

// CommunityHandler serves the feed, comments and likes.
type CommunityHandler struct {
	Community community.CommunityService
}

func (h *CommunityHandler) communityError(c *gin.Context, msg string, err error) {
	var lenErr *community.BodyLengthError
	switch {
	case errors.As(err, &lenErr):
		failWith(c, http.StatusBadRequest, i18n.MsgValidationFailed, lenErr.Error())
	case errors.Is(err, community.ErrPostNotFound), errors.Is(err, community.ErrCommentNotFound):
		fail(c, http.StatusNotFound, i18n.MsgNotFound)
	case errors.Is(err, community.ErrFileNotFound):
		failWith(c, http.StatusBadRequest, i18n.MsgInvalidRequest, err.Error())
	case errors.Is(err, community.ErrForbidden):
		fail(c, http.StatusForbidden, i18n.MsgForbidden)
	default:
		internalError(c, msg, err)
	}
}

// ListFeedHandler handles GET /api/community/posts.
func (h *CommunityHandler) ListFeedHandler(c *gin.Context) {
	page, size := pageParams(c)
	feed, err := h.Community.ListFeed(c.Request.Context(), page, size)
	if err != nil {
		h.communityError(c, "failed to load feed", err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// CreatePostHandler handles POST /api/community/posts.
func (h *CommunityHandler) CreatePostHandler(c *gin.Context) {
	var req models.PostRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.Community.CreatePost(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.communityError(c, "failed to create post", err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// GetPostHandler handles GET /api/community/posts/:id.
func (h *CommunityHandler) GetPostHandler(c *gin.Context) {
	post, err := h.Community.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.communityError(c, "failed to load post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePostHandler handles DELETE /api/community/posts/:id.
func (h *CommunityHandler) DeletePostHandler(c *gin.Context) {
	if err := h.Community.DeletePost(c.Request.Context(), middleware.CurrentActor(c), c.Param("id")); err != nil {
		h.communityError(c, "failed to delete post", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleLikeHandler handles POST /api/community/posts/:id/like.
func (h *CommunityHandler) ToggleLikeHandler(c *gin.Context) {
	res, err := h.Community.ToggleLike(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		h.communityError(c, "failed to toggle like", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListCommentsHandler handles GET /api/community/posts/:id/comments.
func (h *CommunityHandler) ListCommentsHandler(c *gin.Context) {
	comments, err := h.Community.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.communityError(c, "failed to list comments", err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// AddCommentHandler handles POST /api/community/posts/:id/comments.
func (h *CommunityHandler) AddCommentHandler(c *gin.Context) {
	var req models.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.Community.AddComment(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), req)
	if err != nil {
		h.communityError(c, "failed to add comment", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteCommentHandler handles DELETE /api/community/comments/:id.
func (h *CommunityHandler) DeleteCommentHandler(c *gin.Context) {
	if err := h.Community.DeleteComment(c.Request.Context(), middleware.CurrentActor(c), c.Param("id")); err != nil {
		h.communityError(c, "failed to delete comment", err)
		return
	}
	c.Status(http.StatusNoContent)
}
