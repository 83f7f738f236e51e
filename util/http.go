package util

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/jd-116/gadget-graphql-api/db"
	"github.com/jd-116/gadget-graphql-api/types"
)

// ResponseCodeFromError resolves a status code from an error
func ResponseCodeFromError(err error) int {
	switch {
	case db.IsNotFound(err):
		return http.StatusNotFound
	case db.IsInvalidID(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error creates a standardized error response
func Error(w http.ResponseWriter, r *http.Request, originalError error) {
	ErrorWithCode(w, r, originalError, ResponseCodeFromError(originalError))
}

// ErrorWithCode creates a standardized error response with a status code
func ErrorWithCode(w http.ResponseWriter, r *http.Request, originalError error, statusCode int) {
	response := types.ErrorResponse{
		Message: fmt.Sprint(originalError),
	}

	render.Status(r, statusCode)
	render.JSON(w, r, response)
}
