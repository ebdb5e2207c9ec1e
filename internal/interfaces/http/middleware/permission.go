package middleware

import (
	"net/http"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
}

// tokenPrincipal is the caller as described by a validated access token.
// Tokens are only issued to active users and deactivation revokes them.
type tokenPrincipal struct {
	role identity.Role
}

func (p tokenPrincipal) GetRole() identity.Role { return p.role }
func (p tokenPrincipal) IsActive() bool         { return p.role.IsValid() }

// CurrentPrincipal returns the authenticated principal, or nil
func CurrentPrincipal(c *gin.Context) identity.Principal {
	claims := GetJWTClaims(c)
	if claims == nil {
		return nil
	}
	return tokenPrincipal{role: identity.Role(claims.Role)}
}

// CurrentRole returns the role claim of the authenticated user
func CurrentRole(c *gin.Context) identity.Role {
	claims := GetJWTClaims(c)
	if claims == nil {
		return ""
	}
	return identity.Role(claims.Role)
}

// RequirePermission lets the request through only when the caller's role grants p.
// Unauthenticated requests get 401, authenticated ones lacking p get 403.
func RequirePermission(p identity.Permission) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, p)
}

// RequireAnyPermission requires at least one of perms
func RequireAnyPermission(perms ...identity.Permission) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, perms...)
}

// RequireAnyPermissionWithConfig requires at least one of perms with custom config
func RequireAnyPermissionWithConfig(cfg PermissionConfig, perms ...identity.Permission) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		if principal == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		for _, p := range perms {
			if identity.Can(principal, p) {
				c.Next()
				return
			}
		}

		cfg.Logger.Warn("Permission denied",
			zap.String("user_id", c.GetString(JWTUserIDKey)),
			zap.String("role", principal.GetRole().String()),
			zap.Strings("required_any", permissionTokens(perms)),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "You do not have permission to perform this action", GetRequestID(c)))
	}
}

// HasPermission reports whether the caller's role grants p, for handlers that
// shape their response by permission
func HasPermission(c *gin.Context, p identity.Permission) bool {
	return identity.Can(CurrentPrincipal(c), p)
}

func permissionTokens(perms []identity.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.String()
	}
	return out
}
