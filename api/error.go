package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	db "github.com/katatrina/feed-notification/internal/db/sqlc"
	"github.com/rs/zerolog/log"
)

var (
	ErrInternalServer = errors.New("internal server error")
	ErrInvalidCursor  = errors.New("cursor is invalid")
)

type FailedValidationResponse struct {
	Message         string            `json:"message"`
	FieldViolations []*FieldViolation `json:"field_violations"`
}

type FieldViolation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func fieldViolation(field string, err error) *FieldViolation {
	return &FieldViolation{
		Field:       field,
		Description: err.Error(),
	}
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

func failedValidationError(violations []*FieldViolation) *FailedValidationResponse {
	return &FailedValidationResponse{
		Message:         "Invalid request parameters",
		FieldViolations: violations,
	}
}

// abortInternal logs err with the Postgres error code when there is one and hides
// the details from the client.
func abortInternal(c *gin.Context, err error, msg string) {
	code, constraint := db.ErrorDescription(err)
	log.Error().Err(err).
		Str("path", c.FullPath()).
		Str("pg_code", code).
		Str("pg_constraint", constraint).
		Msg(msg)

	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
}
