package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/service"
)

// maxFormBody caps JSON form submissions
const maxFormBody = 64 << 10

// OfferHandler handles the mailed form endpoints
type OfferHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewOfferHandler creates a new OfferHandler
func NewOfferHandler(services *service.Services, log zerolog.Logger) *OfferHandler {
	return &OfferHandler{
		services: services,
		log:      log.With().Str("handler", "offer").Logger(),
	}
}

// SubmitOffer handles POST /api/submit-offer
func (h *OfferHandler) SubmitOffer(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBody)

	var offer models.OfferSubmission
	if err := c.ShouldBindJSON(&offer); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.services.Offer.SubmitOffer(c.Request.Context(), &offer)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Offer submitted successfully",
		"receipt": receipt,
	})
}

// SubmitContact handles POST /api/contact
func (h *OfferHandler) SubmitContact(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBody)

	var contact models.ContactSubmission
	if err := c.ShouldBindJSON(&contact); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.services.Offer.SubmitContact(c.Request.Context(), &contact)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Message sent successfully",
		"receipt": receipt,
	})
}
