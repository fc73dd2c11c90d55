package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/config"
	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/service"
)

// TestimonialHandler handles testimonial endpoints
type TestimonialHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewTestimonialHandler creates a new TestimonialHandler
func NewTestimonialHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *TestimonialHandler {
	return &TestimonialHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "testimonial").Logger(),
	}
}

// Upload handles POST /api/testimonials/upload
// Multipart form with name, testimonialText and an optional video file
func (h *TestimonialHandler) Upload(c *gin.Context) {
	maxSize := h.cfg.Storage.MaxUploadSize
	if maxSize > 0 {
		if c.Request.ContentLength > maxSize {
			respondError(c, http.StatusRequestEntityTooLarge, "Upload is too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
	}

	if _, err := c.MultipartForm(); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			respondError(c, http.StatusBadRequest, "Expected a multipart form")
			return
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			handleError(c, h.log, err)
			return
		}
		h.log.Warn().Err(err).Msg("Failed to parse upload form")
		respondError(c, http.StatusBadRequest, "Invalid upload form")
		return
	}

	sub := &models.TestimonialSubmission{
		Name:            c.PostForm("name"),
		TestimonialText: c.PostForm("testimonialText"),
	}

	var video *service.VideoUpload
	file, header, err := c.Request.FormFile("video")
	switch {
	case err == nil:
		defer file.Close()
		video = &service.VideoUpload{Reader: file, Filename: header.Filename}
	case errors.Is(err, http.ErrMissingFile):
		// text-only testimonial
	default:
		respondError(c, http.StatusBadRequest, "Invalid video upload")
		return
	}

	t, err := h.services.Testimonial.Submit(c.Request.Context(), sub, video)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Testimonial submitted for review",
		"testimonial": t,
	})
}

// ListApproved handles GET /api/testimonials/approved
func (h *TestimonialHandler) ListApproved(c *gin.Context) {
	h.list(c, models.TestimonialStatusApproved)
}

// ListPending handles GET /api/testimonials/pending
func (h *TestimonialHandler) ListPending(c *gin.Context) {
	h.list(c, models.TestimonialStatusPending)
}

func (h *TestimonialHandler) list(c *gin.Context, status models.TestimonialStatus) {
	items, err := h.services.Testimonial.List(c.Request.Context(), status)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	if items == nil {
		items = []*models.Testimonial{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"testimonials": items,
	})
}

// Approve handles POST /api/testimonials/approve/:id
func (h *TestimonialHandler) Approve(c *gin.Context) {
	t, err := h.services.Testimonial.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Testimonial approved",
		"testimonial": t,
	})
}

// Reject handles DELETE /api/testimonials/reject/:id
func (h *TestimonialHandler) Reject(c *gin.Context) {
	if err := h.services.Testimonial.Reject(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Testimonial rejected",
	})
}

// Edit handles PUT /api/testimonials/:id
func (h *TestimonialHandler) Edit(c *gin.Context) {
	var update models.TestimonialUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.services.Testimonial.Edit(c.Request.Context(), c.Param("id"), &update)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Testimonial updated",
		"testimonial": t,
	})
}

// DeleteVideo handles DELETE /api/testimonials/:id/video
func (h *TestimonialHandler) DeleteVideo(c *gin.Context) {
	t, err := h.services.Testimonial.DeleteVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Video removed",
		"testimonial": t,
	})
}

// DeleteText handles DELETE /api/testimonials/:id/text
func (h *TestimonialHandler) DeleteText(c *gin.Context) {
	t, err := h.services.Testimonial.DeleteText(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Text removed",
		"testimonial": t,
	})
}
