// Package scenarios provides the scenario catalog and qualification wizard
// bounded context module.
package scenarios

import (
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/internal/scenarios/handler"
	"sakkanal_backend/internal/scenarios/repository"
	"sakkanal_backend/internal/scenarios/service"
	"sakkanal_backend/platform/db"
	"sakkanal_backend/platform/logger"
)

// Module is the scenarios bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the scenarios module.
func NewModule(pool db.Pool, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scenarios"
}

// Service returns the service layer for lead capture and reports.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the public catalog and wizard routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/scenarios", m.handler.List)
	ctx.V1.POST("/scenarios/match", m.handler.Match)
	ctx.V1.POST("/qualification/steps/:step/validate", m.handler.ValidateStep)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
