package handler

import (
	"errors"
	"net/http"

	"gachaactu/backend/internal/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// MessageResponse acknowledges a successful action.
type MessageResponse struct {
	Message string `json:"message" example:"Article deleted"`
}

var (
	errSlugTaken    = errors.New("slug already in use")
	errNameTaken    = errors.New("name already in use")
	errVideoTaken   = errors.New("video already registered")
	errEmptySlug    = errors.New("a slug could not be derived from the title")
	errUnknownGame  = errors.New("game not found")
	errUnknownTag   = errors.New("one or more tags do not exist")
	errInvalidVideo = errors.New("invalid YouTube URL or id")
	errEmptyField   = errors.New("must not be empty")
)

// writeError maps errors produced inside write transactions to a status.
func writeError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, errSlugTaken), errors.Is(err, errNameTaken),
		errors.Is(err, errVideoTaken), errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errEmptySlug), errors.Is(err, errUnknownGame),
		errors.Is(err, errUnknownTag), errors.Is(err, errInvalidVideo),
		errors.Is(err, errEmptyField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	default:
		internalError(c, err, "Failed to "+action)
	}
}

// internalError logs err and answers 500 with a generic message.
func internalError(c *gin.Context, err error, message string) {
	logging.FromContext(c).Error(message, "error", err, "path", c.FullPath())
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// lookupError answers 404 for a missing record and 500 for anything else.
func lookupError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return
	}
	internalError(c, err, "Failed to load record")
}
