package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the JSON envelope shared by every /api route and by
// webhook error replies.
type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

func envelope[T any](c *gin.Context, status int, ok bool, message string) APIResponse[T] {
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: c.GetString("request_id"),
		Success:   ok,
		Message:   message,
	}
}

// Success writes data with status (200 when 0) and returns the envelope.
func Success[T any](c *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := envelope[T](c, status, true, message)
	resp.Data = data
	resp.Meta = meta
	c.JSON(status, resp)
	return resp
}

// Error writes an error envelope with status (400 when 0). details lands in
// the "error" field.
func Error[T any](c *gin.Context, status int, message string, details any) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := envelope[T](c, status, false, message)
	resp.Error = details
	c.JSON(status, resp)
	return resp
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	Error[any](c, status, message, nil)
	c.Abort()
}
