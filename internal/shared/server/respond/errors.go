package respond

import (
	"github.com/gin-gonic/gin"

	"cognidoc-backend/internal/shared/apperr"
	"cognidoc-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body. Detail mirrors Message for clients that read the
// top-level "detail" field.
type ErrorResponse struct {
	Detail string    `json:"detail"`
	Error  ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	c.AbortWithStatusJSON(status, ErrorResponse{
		Detail: message,
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Problem maps a classified error to its status and client-facing message. Unclassified
// errors become a 500 with fallback as the message.
func Problem(c *gin.Context, err error, fallback string) {
	kind := apperr.KindOf(err)
	Error(c, kind.Status(), kind.String(), apperr.MessageOf(err, fallback), nil)
}
