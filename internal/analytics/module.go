// Package analytics provides the admin analytics bounded context module.
package analytics

import (
	"sakkanal_backend/internal/analytics/handler"
	"sakkanal_backend/internal/analytics/repository"
	"sakkanal_backend/internal/analytics/service"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/platform/db"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/observability"
	"sakkanal_backend/platform/validator"
)

// Module is the analytics bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the database-function aggregates behind the in-process
// fallback.
func NewModule(pool db.Pool, metrics *observability.Metrics, val *validator.Validator, log *logger.Logger) *Module {
	rows := repository.New(pool)
	source := service.NewFallbackAggregate(
		repository.NewRemote(pool),
		service.NewLocalAggregate(rows),
		metrics,
		log,
	)
	svc := service.New(source, rows, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// Service returns the analytics service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the analytics routes under the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/analytics"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
