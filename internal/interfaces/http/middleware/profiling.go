package middleware

import (
	"context"
	"strings"

	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling label keys attached to request goroutines.
const (
	ProfileLabelRoute    = "route"
	ProfileLabelMethod   = "method"
	ProfileLabelResource = "resource"
	ProfileLabelCompany  = "company_id"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled   bool
	SkipPaths []string
}

// DefaultProfilingConfig skips the health probe.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/health", "/ready"},
	}
}

// Profiling tags the rest of the chain with pprof labels so Pyroscope profiles
// can be filtered by route, method, resource and company. Run it after the
// JWT middleware to get the company label.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		telemetry.WithProfileLabels(c.Request.Context(), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		}, profileLabels(c)...)
	}
}

func profileLabels(c *gin.Context) []string {
	kv := []string{ProfileLabelMethod, c.Request.Method}
	if route := c.FullPath(); route != "" {
		kv = append(kv, ProfileLabelRoute, route)
		if res := resourceFromRoute(route); res != "" {
			kv = append(kv, ProfileLabelResource, res)
		}
	}
	if companyID := c.GetString(JWTCompanyIDKey); companyID != "" {
		kv = append(kv, ProfileLabelCompany, companyID)
	}
	return kv
}

// resourceFromRoute returns the first static segment after the /api/vN prefix,
// e.g. "/api/v1/invoices/:id/payments" -> "invoices".
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || (s[0] != 'v' && s[0] != 'V') {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
