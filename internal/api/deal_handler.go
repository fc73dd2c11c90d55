package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/service"
)

// DealHandler handles deal location endpoints
type DealHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(services *service.Services, log zerolog.Logger) *DealHandler {
	return &DealHandler{
		services: services,
		log:      log.With().Str("handler", "deal").Logger(),
	}
}

// List handles GET /api/deals/locations
func (h *DealHandler) List(c *gin.Context) {
	locs, err := h.services.DealLocation.List(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	if locs == nil {
		locs = []*models.DealLocation{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"locations": locs,
	})
}

// Get handles GET /api/deals/locations/:id
func (h *DealHandler) Get(c *gin.Context) {
	loc, err := h.services.DealLocation.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"location": loc,
	})
}

// Add handles POST /api/deals/locations
func (h *DealHandler) Add(c *gin.Context) {
	var req models.DealLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body, lat and lng are required")
		return
	}

	loc, err := h.services.DealLocation.Add(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"location": loc,
	})
}

// UpdateName handles PUT /api/deals/locations/:id/name
func (h *DealHandler) UpdateName(c *gin.Context) {
	var req models.DealLocationNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	loc, err := h.services.DealLocation.UpdateName(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"location": loc,
	})
}

// Delete handles DELETE /api/deals/locations/:id
func (h *DealHandler) Delete(c *gin.Context) {
	if err := h.services.DealLocation.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Location deleted",
	})
}
