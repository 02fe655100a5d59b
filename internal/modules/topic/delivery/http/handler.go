package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thebestory/backend/internal/modules/topic/dto"
	topic "github.com/thebestory/backend/internal/modules/topic/service"
	"github.com/thebestory/backend/pkg/response"
	"github.com/thebestory/backend/pkg/validator"
)

type TopicHandler struct {
	service topic.TopicService
}

func NewTopicHandler(service topic.TopicService) *TopicHandler {
	return &TopicHandler{service: service}
}

func (h *TopicHandler) CreateTopic(c *gin.Context) {
	var req dto.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.CreateTopic(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *TopicHandler) GetBySlug(c *gin.Context) {
	resp, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TopicHandler) GetAll(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	resp, err := h.service.GetAll(c.Request.Context(), includeInactive)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"topics": resp})
}
