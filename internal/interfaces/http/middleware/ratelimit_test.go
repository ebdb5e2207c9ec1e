package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAuthRateLimit(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.POST("/login", AuthRateLimit(3, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		w := call("10.0.0.1")
		assert.Equal(t, http.StatusOK, w.Code, "attempt %d", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}

	w := call("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	info := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeRateLimited, info.Code)
	assert.NotEmpty(t, info.RequestID)

	// another client is unaffected
	assert.Equal(t, http.StatusOK, call("10.0.0.2").Code)
}

func TestRateLimit_KeyByCompany(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if company := c.GetHeader("X-Test-Company"); company != "" {
			c.Set(JWTCompanyIDKey, company)
		}
	})
	router.GET("/api", RateLimit(1, time.Minute, KeyByCompanyOrIP), func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(company string) int {
		req := httptest.NewRequest(http.MethodGet, "/api", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		req.Header.Set("X-Test-Company", company)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	// same IP, different tenant
	assert.Equal(t, http.StatusOK, call("b"))
	// unauthenticated falls back to the IP
	assert.Equal(t, http.StatusOK, call(""))
	assert.Equal(t, http.StatusTooManyRequests, call(""))
}
