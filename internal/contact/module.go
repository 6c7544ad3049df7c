// Package contact provides the public contact form module.
package contact

import (
	"sakkanal_backend/internal/contact/handler"
	"sakkanal_backend/internal/contact/service"
	"sakkanal_backend/internal/events"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	limiter *httpkit.IPRateLimiter
}

func NewModule(eventBus events.Bus, cfg config.LeadCaptureConfig, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{
		handler: handler.New(service.New(eventBus, cfg, log), val),
		limiter: httpkit.NewPerMinuteLimiter(cfg.GetLeadRateLimitPerMinute(), log),
	}
}

func (m *Module) Name() string {
	return "contact"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/contact", m.limiter.RateLimit(), m.handler.Submit)
}

var _ apphttp.Module = (*Module)(nil)
