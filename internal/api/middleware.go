package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/disaster-relief/internal/access"
	"github.com/mr1hm/disaster-relief/internal/account"
	"github.com/mr1hm/disaster-relief/internal/models"
)

const (
	actorKey  = "actor"
	claimsKey = "claims"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	// EventSource cannot set headers.
	return c.Query("access_token")
}

// authenticate resolves the bearer token into the request's actor.
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		actor, claims, err := h.accounts.Authenticate(c.Request.Context(), raw)
		if err != nil {
			h.fail(c, err)
			c.Abort()
			return
		}

		c.Set(actorKey, actor)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// requireRole redirects actors of any other role to the dashboard
// dispatcher.
func requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := access.Require(actorFrom(c), role); err != nil {
			c.Redirect(http.StatusSeeOther, access.RouteDashboard)
			c.Abort()
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) access.Actor {
	actor, _ := c.MustGet(actorKey).(access.Actor)
	return actor
}

func claimsFrom(c *gin.Context) *account.Claims {
	claims, _ := c.MustGet(claimsKey).(*account.Claims)
	return claims
}
