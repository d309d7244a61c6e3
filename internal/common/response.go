// File: internal/common/response.go
package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NextStep describes the action a client should take to advance an
// onboarding flow: which endpoint to call, how, and an example payload.
type NextStep struct {
	Action  string                 `json:"action"`
	URL     string                 `json:"url"`
	Method  string                 `json:"method"`
	Payload map[string]interface{} `json:"payload"`
}

// SuccessResponse wraps successful API responses.
type SuccessResponse struct {
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	NextStep *NextStep   `json:"next_step,omitempty"`
}

// RespondWithError sends a JSON error response.
func RespondWithError(c *gin.Context, err error) {
	apiErr, ok := IsAPIError(err)
	if !ok {
		if l, exists := c.Get("logger"); exists {
			if logger, ok := l.(*zap.Logger); ok {
				logger.Error("Unhandled internal error being wrapped", zap.Error(err))
			}
		}
		apiErr = ErrInternalServer.WithDetails(err.Error())
	}
	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}

// RespondSuccess sends a JSON success response.
func RespondSuccess(c *gin.Context, statusCode int, message string, data interface{}, nextStep *NextStep) {
	c.JSON(statusCode, SuccessResponse{
		Message:  message,
		Data:     data,
		NextStep: nextStep,
	})
}

// RespondOK sends a 200 OK response.
func RespondOK(c *gin.Context, message string, data interface{}, nextStep *NextStep) {
	RespondSuccess(c, http.StatusOK, message, data, nextStep)
}
