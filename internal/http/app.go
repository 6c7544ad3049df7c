// Package http wires domain modules into the gin engine.
package http

import (
	"context"

	"sakkanal_backend/internal/events"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/observability"
)

type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
	config.MetricsConfig
}

// HealthChecker backs /api/health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is filled in by cmd/api and handed to router.New.
type App struct {
	Config   RouterConfig
	Logger   *logger.Logger
	Health   HealthChecker
	EventBus events.Bus
	// Metrics is optional; nil disables /metrics and request instrumentation.
	Metrics *observability.Metrics
	Modules []Module
}
