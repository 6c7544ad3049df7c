// Package auth provides admin sign-in.
package auth

import (
	"sakkanal_backend/internal/auth/handler"
	"sakkanal_backend/internal/auth/repository"
	"sakkanal_backend/internal/auth/service"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/db"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool db.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), cfg, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service for the operator CLI.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts sign-in with the stricter auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	ctx.Admin.GET("/me", m.handler.Me)
}

var _ apphttp.Module = (*Module)(nil)
