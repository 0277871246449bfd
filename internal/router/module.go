package router

import "github.com/gin-gonic/gin"

// Module mounts one feature's routes, with their own auth and rate limits, under /api.
type Module interface {
	Register(rg *gin.RouterGroup)
}
