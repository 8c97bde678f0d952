package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mediplace/lab-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// StatusCode maps an error kind to its HTTP status. Expected outcomes
// map to 4xx; everything else is an internal fault.
func StatusCode(err error) int {
	switch errors.KindOf(err) {
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindUnauthorized:
		return http.StatusForbidden
	case errors.KindInvalidStateTransition, errors.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithError sends an error response. Internal faults never
// expose the underlying error detail to the caller.
func RespondWithError(c *gin.Context, err error) {
	kind := errors.KindOf(err)
	message := "internal server error"
	if kind != errors.KindInternal {
		message = err.Error()
	}

	c.JSON(StatusCode(err), Response{
		Success: false,
		Error: &Error{
			Kind:    kind.String(),
			Message: message,
		},
	})
}
