package app

import (
	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/middleware"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, serviceset.Auth),
	}
}
