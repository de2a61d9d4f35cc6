package middleware

import (
	"net/http"
	"strings"

	"github.com/coopbus/ticketing-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActorContextKey is the key used to store actor information in Gin context
const ActorContextKey = "actor"

// ActorContext carries the authenticated operator and their tenant through a
// request. Tenant and actor resolution itself happens upstream; here the
// token is only validated and unpacked.
type ActorContext struct {
	ActorID  uuid.UUID `json:"actor_id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Roles    []string  `json:"roles"`
}

// AuthMiddleware creates a middleware that validates JWT tokens and exposes
// the actor context to handlers
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid authorization header format. Expected: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ActorContextKey, &ActorContext{
			ActorID:  claims.ActorID,
			TenantID: claims.TenantID,
			Roles:    claims.Roles,
		})
		c.Next()
	}
}

// GetActorContext retrieves the actor context from the Gin context
func GetActorContext(c *gin.Context) (*ActorContext, bool) {
	value, exists := c.Get(ActorContextKey)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*ActorContext)
	return actor, ok
}
