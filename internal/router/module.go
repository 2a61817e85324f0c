package router

import "github.com/gin-gonic/gin"

// Module is one mountable feature area of the API. A module attaches its
// routes, plus any route-local middleware, onto the shared /api group.
type Module interface {
	Register(api *gin.RouterGroup)
}
