package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thebestory/backend/internal/modules/comment/dto"
	comment "github.com/thebestory/backend/internal/modules/comment/service"
	"github.com/thebestory/backend/pkg/identifier"
	"github.com/thebestory/backend/pkg/response"
	"github.com/thebestory/backend/pkg/validator"
)

type CommentHandler struct {
	service comment.CommentService
}

func NewCommentHandler(service comment.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	storyID, err := identifier.From36(c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Create(c.Request.Context(), userID, storyID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *CommentHandler) ListByStory(c *gin.Context) {
	storyID, err := identifier.From36(c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var viewerID *uint64
	if id, err := response.GetUserID(c); err == nil {
		viewerID = &id
	}

	resp, err := h.service.ListByStory(c.Request.Context(), storyID, viewerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": resp})
}

func (h *CommentHandler) Edit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	commentID, err := identifier.From36(c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.EditCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Edit(c.Request.Context(), userID, commentID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Remove(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	commentID, err := identifier.From36(c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Remove(c.Request.Context(), userID, commentID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment removed"})
}
