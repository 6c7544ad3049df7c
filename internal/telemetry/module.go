// Package telemetry records anonymous page visits, visitor events and
// application events.
package telemetry

import (
	"context"

	"sakkanal_backend/internal/events"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/internal/telemetry/handler"
	"sakkanal_backend/internal/telemetry/repository"
	"sakkanal_backend/internal/telemetry/service"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/db"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/observability"
	"sakkanal_backend/platform/validator"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Page loads arrive in bursts on navigation, so the budget is looser than
// the lead form.
const (
	telemetryRate  = rate.Limit(5)
	telemetryBurst = 30
)

// Module is the telemetry bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	events  *service.Events
	limiter *httpkit.IPRateLimiter
}

// NewModule wires the tracker and event services. A nil redis client keeps
// page state in process memory.
func NewModule(pool db.Pool, rdb redis.Cmdable, eventBus events.Bus, metrics *observability.Metrics, cfg config.TelemetryConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)

	var store service.StateStore
	if rdb != nil {
		store = service.NewRedisStateStore(rdb, cfg.GetTrackerStateTTL())
	} else {
		store = service.NewMemoryStateStore(cfg.GetTrackerStateTTL())
	}

	tracker := service.NewTracker(repo, store, metrics, log)
	eventSvc := service.NewEvents(repo, log)

	eventBus.Subscribe(events.LeadStatusChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadStatusChanged)
		if !ok {
			return nil
		}
		return eventSvc.HandleLeadStatusChanged(ctx, e)
	}))
	eventBus.Subscribe(events.ReportDownloaded{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.ReportDownloaded)
		if !ok {
			return nil
		}
		return eventSvc.HandleReportDownloaded(ctx, e)
	}))

	return &Module{
		handler: handler.New(tracker, eventSvc, val),
		events:  eventSvc,
		limiter: httpkit.NewIPRateLimiter(telemetryRate, telemetryBurst, log),
	}
}

func (m *Module) Name() string {
	return "telemetry"
}

// Events exposes the app event recorder, which also serves as the leads
// module's action tracker.
func (m *Module) Events() *service.Events {
	return m.events
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.V1.Group("/telemetry")
	rg.Use(m.limiter.RateLimit())
	m.handler.RegisterRoutes(rg)
}

var _ apphttp.Module = (*Module)(nil)
