package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harukisb/todo-tracking-api/internal/constants"
	apierrors "github.com/harukisb/todo-tracking-api/internal/errors"
	"github.com/harukisb/todo-tracking-api/internal/policy"
	"github.com/harukisb/todo-tracking-api/internal/services"
)

// RequireAuth validates the bearer token and stores the resolved identity in
// the request context. The binding lives only for this request.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			apierrors.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}

		actor, err := authService.VerifyToken(token)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIdentity, actor)
		c.Next()
	}
}

// RequireAdmin rejects non-admin identities. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := GetIdentity(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !policy.CanManageUsers(actor) {
			apierrors.Forbidden(c, "Admin privileges required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetIdentity retrieves the authenticated actor from the request context.
func GetIdentity(c *gin.Context) (policy.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return policy.Actor{}, false
	}

	actor, ok := value.(policy.Actor)
	if !ok {
		return policy.Actor{}, false
	}
	return actor, true
}
