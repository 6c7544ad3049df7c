package http

import (
	"sakkanal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that mounts its own routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what modules get to register on. V1 is anonymous and
// used by the qualification site; Admin already enforces a valid access
// token carrying the admin role.
type RouterContext struct {
	V1              *gin.RouterGroup
	Admin           *gin.RouterGroup
	AuthRateLimiter *httpkit.AuthRateLimiter
}
