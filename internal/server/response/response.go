// Package response writes the JSON envelope shared by every API endpoint:
// {"success": bool, "message": string, "data": ...}.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/pkg/validator"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    any                    `json:"data,omitempty"`
	Errors  []validator.FieldError `json:"errors,omitempty"`
}

func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// StatusOf maps an application error kind to its HTTP status. Uniqueness
// conflicts are reported as bad requests.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error aborts the request with the envelope for err. Internal errors never
// leak their cause to the client.
func Error(c *gin.Context, err error) {
	status := StatusOf(err)
	message := "an unknown error occurred"

	var appErr *apperr.Error
	if errors.As(err, &appErr) && status != http.StatusInternalServerError {
		message = appErr.Msg()
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}

// BindError aborts with 400 for a request body that failed binding or
// validation, listing the offending fields when known.
func BindError(c *gin.Context, err error) {
	_ = c.Error(err)
	details := validator.FieldErrors(err)
	message := "invalid request body"
	if len(details) > 0 {
		message = "validation failed"
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{Success: false, Message: message, Errors: details})
}

// Unauthorized aborts with a 401 envelope.
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{Success: false, Message: message})
}
