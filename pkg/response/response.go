package response

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thebestory/backend/pkg/apperror"
	"github.com/thebestory/backend/pkg/ratelimiter"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uint64, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return 0, apperror.ErrUnauthorized
	}

	str, ok := userIDStr.(string)
	if !ok {
		return 0, apperror.ErrUnauthorized
	}

	userID, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, apperror.ErrUnauthorized
	}

	return userID, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	var rateLimitErr *ratelimiter.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
	}

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
