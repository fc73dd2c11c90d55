package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/auth"
)

// AdminHandler issues and checks admin sessions
type AdminHandler struct {
	auth *auth.Manager
	log  zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(manager *auth.Manager, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		auth: manager,
		log:  log.With().Str("handler", "admin").Logger(),
	}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "password is required")
		return
	}

	session, err := h.auth.Login(req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrLoginDisabled):
		h.log.Warn().Str("client_ip", c.ClientIP()).Msg("Admin login attempted but no password is configured")
		respondError(c, http.StatusUnauthorized, "Admin login is disabled")
		return
	case errors.Is(err, auth.ErrInvalidPassword):
		h.log.Warn().Str("client_ip", c.ClientIP()).Msg("Admin login failed")
		respondError(c, http.StatusUnauthorized, "Invalid password")
		return
	default:
		handleError(c, h.log, err)
		return
	}

	h.log.Info().Str("client_ip", c.ClientIP()).Msg("Admin logged in")
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	})
}

// Session handles GET /api/admin/session
func (h *AdminHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"valid":   true,
		"tokenId": c.GetString(adminTokenKey),
	})
}
