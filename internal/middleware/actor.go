package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hiredeck/scheduling-api/internal/authz"
)

// ContextActorKey is the gin context key holding the resolved actor.
const ContextActorKey = "actor"

// Actor resolves the caller identity from the trusted gateway headers.
// Authentication happens upstream; these headers arrive pre-verified.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := authz.Actor{
			ID:             c.GetHeader("X-Actor-ID"),
			Role:           authz.Role(c.GetHeader("X-Actor-Role")),
			OrganizationID: c.GetHeader("X-Actor-Org"),
		}
		c.Set(ContextActorKey, actor)
		c.Next()
	}
}
