package middleware

import (
	"net/http"
	"time"

	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
)

// KeyFunc extracts the rate limit key of a request
type KeyFunc func(c *gin.Context) string

// KeyByIP keys by client IP, honoring the engine's trusted proxies
func KeyByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// KeyByCompanyOrIP keys authenticated requests by company and the rest by IP
func KeyByCompanyOrIP(c *gin.Context) string {
	if companyID := c.GetString(JWTCompanyIDKey); companyID != "" {
		return "company:" + companyID
	}
	return KeyByIP(c)
}

// RateLimit limits requests per key with a sliding window counter. Responses
// carry X-RateLimit-* headers; over the limit the request is answered 429.
func RateLimit(limit int, window time.Duration, key KeyFunc) gin.HandlerFunc {
	limiter := httprate.NewRateLimiter(limit, window)
	return func(c *gin.Context) {
		if limiter.OnLimit(c.Writer, c.Request, key(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}

// AuthRateLimit is the per-IP limit on login and refresh
func AuthRateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return RateLimit(limit, window, func(c *gin.Context) string {
		return "auth:" + KeyByIP(c)
	})
}
