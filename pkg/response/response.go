package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the JSON body every endpoint answers with:
// {success, message?, count?, data?, errors?}.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Count   *int              `json:"count,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK writes a success envelope with an optional message.
func OK(c *gin.Context, status int, data any, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// List writes a success envelope carrying a collection and its length.
func List(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// Fail writes a failure envelope. details maps field names to
// human-readable reasons and may be nil.
func Fail(c *gin.Context, status int, message string, details map[string]string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, Envelope{Success: false, Message: message, Errors: details})
}

// AbortFail writes a failure envelope and stops the handler chain.
func AbortFail(c *gin.Context, status int, message string, details map[string]string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message, Errors: details})
}
