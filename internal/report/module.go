// Package report provides the downloadable recommendation report module.
package report

import (
	"sakkanal_backend/internal/events"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/internal/pdf"
	"sakkanal_backend/internal/report/document"
	"sakkanal_backend/internal/report/handler"
	"sakkanal_backend/internal/report/service"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"
)

// Rendering and PDF conversion are expensive; keep anonymous callers modest.
const reportsPerMinute = 20

// Module is the report bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	limiter *httpkit.IPRateLimiter
}

// NewModule wires the report generator. converter and archive are optional.
func NewModule(scenarios service.ScenarioReader, converter pdf.Converter, archive *service.Archive, eventBus events.Bus, cfg config.ReportConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(scenarios, document.NewGenerator(cfg.GetAppBaseURL()), converter, archive, eventBus, log)
	return &Module{
		handler: handler.New(svc, val),
		limiter: httpkit.NewPerMinuteLimiter(reportsPerMinute, log),
	}
}

func (m *Module) Name() string {
	return "report"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/reports", m.limiter.RateLimit(), m.handler.Generate)
}

var _ apphttp.Module = (*Module)(nil)
