package api

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/auth"
	"github.com/leadsite-api/internal/config"
	"github.com/leadsite-api/internal/media"
	"github.com/leadsite-api/internal/metrics"
	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/service"
	"github.com/leadsite-api/internal/throttle"
	"github.com/leadsite-api/pkg/logger"
)

// healthCheckTimeout bounds the database ping made by /health
const healthCheckTimeout = 2 * time.Second

// HealthChecker is a backing store that can report its health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies are what the HTTP layer needs beyond the services
type Dependencies struct {
	Services  *service.Services
	Auth      *auth.Manager
	Limiter   throttle.Limiter
	Metrics   metrics.Provider
	Database  HealthChecker // nil for the JSON driver
	MediaRoot string
	Mailer    string
}

// NewRouter creates and configures the Gin router
func NewRouter(deps *Dependencies, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	if deps.Limiter == nil {
		deps.Limiter = throttle.Noop{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Noop()
	}

	router := gin.New()
	router.MaxMultipartMemory = 32 << 20

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(metricsMiddleware(deps.Metrics))
	router.Use(corsMiddleware(cfg.Server.CORSOrigin))

	// Handlers
	testimonialHandler := NewTestimonialHandler(deps.Services, cfg, log)
	dealHandler := NewDealHandler(deps.Services, log)
	offerHandler := NewOfferHandler(deps.Services, log)
	adminHandler := NewAdminHandler(deps.Auth, log)

	requireAdmin := adminMiddleware(deps.Auth)
	limitSubmissions := throttleMiddleware(deps.Limiter, "submit", deps.Metrics)
	limitLogins := throttleMiddleware(deps.Limiter, "login", deps.Metrics)

	// Health check
	router.GET("/health", healthCheck(deps.Mailer, deps.Database, log))
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Uploaded media, read-only. Unmoderated uploads are admin-only.
	if deps.MediaRoot != "" {
		approvedStatus := string(models.TestimonialStatusApproved)
		pendingStatus := string(models.TestimonialStatusPending)

		router.Static(media.URLPrefix+"/"+approvedStatus, filepath.Join(deps.MediaRoot, approvedStatus))

		pendingMedia := router.Group(media.URLPrefix+"/"+pendingStatus, adminMediaMiddleware(deps.Auth))
		pendingMedia.Static("/", filepath.Join(deps.MediaRoot, pendingStatus))
	}

	api := router.Group("/api")
	{
		// Form submissions
		api.POST("/submit-offer", limitSubmissions, offerHandler.SubmitOffer)
		api.POST("/contact", limitSubmissions, offerHandler.SubmitContact)

		// Testimonial endpoints
		testimonials := api.Group("/testimonials")
		{
			testimonials.POST("/upload", limitSubmissions, testimonialHandler.Upload)
			testimonials.GET("/approved", testimonialHandler.ListApproved)

			testimonials.GET("/pending", requireAdmin, testimonialHandler.ListPending)
			testimonials.POST("/approve/:id", requireAdmin, testimonialHandler.Approve)
			testimonials.DELETE("/reject/:id", requireAdmin, testimonialHandler.Reject)
			testimonials.PUT("/:id", requireAdmin, testimonialHandler.Edit)
			testimonials.DELETE("/:id/video", requireAdmin, testimonialHandler.DeleteVideo)
			testimonials.DELETE("/:id/text", requireAdmin, testimonialHandler.DeleteText)
		}

		// Deal map endpoints
		deals := api.Group("/deals/locations")
		{
			deals.GET("", dealHandler.List)
			deals.GET("/:id", dealHandler.Get)
			deals.POST("", requireAdmin, dealHandler.Add)
			deals.PUT("/:id/name", requireAdmin, dealHandler.UpdateName)
			deals.DELETE("/:id", requireAdmin, dealHandler.Delete)
		}

		// Admin session endpoints
		admin := api.Group("/admin")
		{
			admin.POST("/login", limitLogins, adminHandler.Login)
			admin.GET("/session", requireAdmin, adminHandler.Session)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Route not found")
	})

	return router
}

// NewHandler wraps the router with response compression
func NewHandler(router *gin.Engine) http.Handler {
	return gzhttp.GzipHandler(router)
}

// healthCheck returns the health status, pinging the database when one is configured
func healthCheck(mailProvider string, db HealthChecker, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
			"mailer":    mailProvider,
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()

			if err := db.HealthCheck(ctx); err != nil {
				log.Error().Err(err).Msg("Database health check failed")
				body["status"] = "unhealthy"
				body["database"] = "unreachable"
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
			body["database"] = "ok"
		}

		c.JSON(http.StatusOK, body)
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("path", c.Request.URL.Path).
					Msg("Panic recovered")
				respondError(c, http.StatusInternalServerError, "Internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
