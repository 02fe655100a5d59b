package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thebestory/backend/internal/modules/reaction/dto"
	reaction "github.com/thebestory/backend/internal/modules/reaction/service"
	"github.com/thebestory/backend/pkg/identifier"
	"github.com/thebestory/backend/pkg/response"
	"github.com/thebestory/backend/pkg/validator"
)

type ReactionHandler struct {
	service reaction.ReactionService
}

func NewReactionHandler(service reaction.ReactionService) *ReactionHandler {
	return &ReactionHandler{service: service}
}

func (h *ReactionHandler) SetReaction(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SetReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	objectID, err := identifier.From36(req.ObjectID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.SetReaction(c.Request.Context(), userID, objectID, req.ReactionID, *req.Present)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ReactionHandler) GetState(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	objectID, err := identifier.From36(c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	reactionID, _ := strconv.Atoi(c.DefaultQuery("reaction_id", "1"))

	active, err := h.service.IsActive(c.Request.Context(), userID, objectID, reactionID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"active": active})
}
