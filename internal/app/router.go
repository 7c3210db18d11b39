package app

import (
	"github.com/gin-gonic/gin"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:    cfg.ServiceName,
		AllowOrigins:   cfg.AllowOrigins,
		AuthHandler:    handlerset.Auth,
		AuthMiddleware: mw.Auth,
		Student:        handlerset.Student,
		Assignment:     handlerset.Assignment,
		LMS:            handlerset.LMS,
		Milestone:      handlerset.Milestone,
		Career:         handlerset.Career,
	})
}
