package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thebestory/backend/internal/modules/story/dto"
	story "github.com/thebestory/backend/internal/modules/story/service"
	"github.com/thebestory/backend/pkg/identifier"
	"github.com/thebestory/backend/pkg/response"
	"github.com/thebestory/backend/pkg/validator"
)

type StoryHandler struct {
	service story.StoryService
}

func NewStoryHandler(service story.StoryService) *StoryHandler {
	return &StoryHandler{service: service}
}

func (h *StoryHandler) Submit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SubmitStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *StoryHandler) Details(c *gin.Context) {
	storyID, err := identifier.From36(c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var viewerID *uint64
	if id, err := response.GetUserID(c); err == nil {
		viewerID = &id
	}

	resp, err := h.service.Details(c.Request.Context(), storyID, viewerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StoryHandler) Publish(c *gin.Context) {
	h.mutate(c, func(userID, storyID uint64) (interface{}, error) {
		return h.service.Publish(c.Request.Context(), userID, storyID)
	})
}

func (h *StoryHandler) Edit(c *gin.Context) {
	var req dto.EditStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	h.mutate(c, func(userID, storyID uint64) (interface{}, error) {
		return h.service.Edit(c.Request.Context(), userID, storyID, req)
	})
}

func (h *StoryHandler) Remove(c *gin.Context) {
	h.mutate(c, func(userID, storyID uint64) (interface{}, error) {
		return gin.H{"message": "story removed"}, h.service.Remove(c.Request.Context(), userID, storyID)
	})
}

func (h *StoryHandler) Latest(c *gin.Context) {
	h.listing(c, h.service.Latest)
}

func (h *StoryHandler) Top(c *gin.Context) {
	h.listing(c, h.service.Top)
}

func (h *StoryHandler) Random(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	resp, err := h.service.Random(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stories": resp})
}

func (h *StoryHandler) mutate(c *gin.Context, op func(userID, storyID uint64) (interface{}, error)) {
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

	resp, err := op(userID, storyID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StoryHandler) listing(c *gin.Context, list func(ctx context.Context, query dto.ListingQuery) ([]dto.StoryResponse, error)) {
	var query dto.ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := list(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stories": resp})
}
