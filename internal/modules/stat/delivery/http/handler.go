package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	stat "github.com/thebestory/backend/internal/modules/stat/service"
	"github.com/thebestory/backend/pkg/response"
)

type StatHandler struct {
	service stat.StatService
}

func NewStatHandler(service stat.StatService) *StatHandler {
	return &StatHandler{service: service}
}

func (h *StatHandler) UserStats(c *gin.Context) {
	includeRemoved := c.Query("include_removed") == "true"

	resp, err := h.service.UserStats(c.Request.Context(), c.Param("username"), includeRemoved)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
