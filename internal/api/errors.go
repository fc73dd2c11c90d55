package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/media"
	"github.com/leadsite-api/internal/service"
	"github.com/leadsite-api/internal/validation"
)

// respondError writes the error envelope used by every endpoint
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// handleError maps service errors to status codes. Unexpected errors are
// logged and reported without detail.
func handleError(c *gin.Context, log zerolog.Logger, err error) {
	var verrs validation.Errors
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &verrs):
		message := "Invalid request"
		if missing := verrs.Missing(); len(missing) > 0 {
			message = "Missing required fields: " + strings.Join(missing, ", ")
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": message,
			"errors":  verrs,
		})
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, media.ErrNotVideo):
		respondError(c, http.StatusUnsupportedMediaType, "Only video files are allowed")
	case errors.As(err, &tooLarge), errors.Is(err, multipart.ErrMessageTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, "Upload is too large")
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
