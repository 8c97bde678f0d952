package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mediplace/lab-api/internal/handler"
	"github.com/mediplace/lab-api/internal/model"
	"github.com/mediplace/lab-api/pkg/auth"
)

const ContextActor = "actor"

type AuthMiddleware struct {
	tokens auth.TokenValidator
}

func NewAuthMiddleware(tokens auth.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate verifies the bearer token and sets the calling actor in
// the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		actor, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextActor, actor)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
func (m *AuthMiddleware) RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
			c.Abort()
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, handler.NewErrorResponse("role not allowed"))
		c.Abort()
	}
}

// ActorFromContext returns the authenticated actor set by Authenticate.
func ActorFromContext(c *gin.Context) (*model.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return nil, false
	}
	actor, ok := v.(*model.Actor)
	return actor, ok
}
