package recipe

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"recipeshare/internal/pkg/common"
)

// requestID returns the request id for logging, generating one when the
// middleware did not set it (direct handler tests).
func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.New().String()
		c.Header("X-Request-ID", id)
	}
	return id
}

// respondData writes the success envelope used by every endpoint.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError translates service errors into the error envelope. Unknown
// errors become a generic 500 so internal detail never reaches the client.
func respondError(c *gin.Context, err error) {
	var ce *common.CustomError
	if errors.As(err, &ce) {
		c.JSON(ce.Status, common.ErrorResponse{
			Success: false,
			Code:    ce.Code,
			Error:   ce.Message,
		})
		return
	}

	common.LogError("unclassified handler error",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestID(c)),
	)
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Success: false,
		Code:    common.ErrCodeInternalError,
		Error:   "internal server error",
	})
}

// respondInvalid writes a 400 with a descriptive message.
func respondInvalid(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, common.ErrorResponse{
		Success: false,
		Code:    common.ErrCodeInvalidRequest,
		Error:   message,
	})
}
