// Package search provides admin full-text search over captured leads.
package search

import (
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/internal/search/handler"
	"sakkanal_backend/internal/search/repository"
	"sakkanal_backend/internal/search/service"
	"sakkanal_backend/platform/db"
	"sakkanal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool db.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "search"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/search"))
}

var _ apphttp.Module = (*Module)(nil)
