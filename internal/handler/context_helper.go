package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hiredeck/scheduling-api/internal/authz"
	"github.com/hiredeck/scheduling-api/internal/middleware"
)

func actorFromContext(c *gin.Context) authz.Actor {
	value, exists := c.Get(middleware.ContextActorKey)
	if !exists {
		return authz.Actor{}
	}
	actor, ok := value.(authz.Actor)
	if !ok {
		return authz.Actor{}
	}
	return actor
}
