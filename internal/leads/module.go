// Package leads provides the lead capture and admin lead management
// bounded context module.
package leads

import (
	"context"

	"sakkanal_backend/internal/events"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/internal/leads/handler"
	"sakkanal_backend/internal/leads/repository"
	"sakkanal_backend/internal/leads/service"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/db"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/observability"
	"sakkanal_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
	limiter       *httpkit.IPRateLimiter
}

// NewModule creates and initializes the leads module and subscribes it to
// report downloads.
func NewModule(pool db.Pool, scenarios service.ScenarioReader, eventBus events.Bus, metrics *observability.Metrics, cfg config.LeadCaptureConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), scenarios, eventBus, metrics, cfg, log)

	eventBus.Subscribe(events.ReportDownloaded{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.ReportDownloaded)
		if !ok {
			return nil
		}
		return svc.HandleReportDownloaded(ctx, e)
	}))

	return &Module{
		handler:       handler.New(svc, val),
		publicHandler: handler.NewPublicHandler(svc, val),
		service:       svc,
		limiter:       httpkit.NewPerMinuteLimiter(cfg.GetLeadRateLimitPerMinute(), log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetActionTracker wires the telemetry tracker used by lead actions.
func (m *Module) SetActionTracker(tracker service.ActionTracker) {
	m.service.SetActionTracker(tracker)
}

// RegisterRoutes mounts the public form and the admin lead routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/leads", m.limiter.RateLimit(), m.publicHandler.Capture)
	m.handler.RegisterRoutes(ctx.Admin.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
