package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leadsite-api/internal/auth"
	"github.com/leadsite-api/internal/metrics"
	"github.com/leadsite-api/internal/throttle"
)

// adminTokenKey holds the verified token id in the gin context
const adminTokenKey = "admin_token_id"

// metricsMiddleware records request counts and latency per route template
func metricsMiddleware(m metrics.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.IncRequestsTotal(route, c.Writer.Status())
		m.ObserveRequestDuration(route, time.Since(start))
	}
}

// adminMiddleware requires a valid "Authorization: Bearer <token>" header
func adminMiddleware(manager *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			respondError(c, http.StatusUnauthorized, "Admin authorization required")
			c.Abort()
			return
		}

		claims, err := manager.Verify(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Invalid or expired admin session")
			c.Abort()
			return
		}

		c.Set(adminTokenKey, claims.ID)
		c.Next()
	}
}

// adminMediaMiddleware is adminMiddleware that also accepts ?token=, since
// <video> elements cannot send an Authorization header.
func adminMediaMiddleware(manager *auth.Manager) gin.HandlerFunc {
	requireAdmin := adminMiddleware(manager)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token := c.Query("token"); token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}
		requireAdmin(c)
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// throttleMiddleware limits requests per client IP within scope
func throttleMiddleware(limiter throttle.Limiter, scope string, m metrics.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := limiter.Allow(scope + ":" + c.ClientIP())
		if !allowed {
			m.IncSubmissions(scope, "throttled")
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			respondError(c, http.StatusTooManyRequests, "Too many submissions, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
