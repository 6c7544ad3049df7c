// Package exports lets admins download captured leads as CSV for the sales
// team's spreadsheets and CRM imports.
package exports

import (
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/platform/db"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"
)

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

func NewModule(pool db.Pool, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(NewRepository(pool), val, log)}
}

func (m *Module) Name() string {
	return "exports"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/exports/leads.csv", m.handler.ExportLeadsCSV)
}

var _ apphttp.Module = (*Module)(nil)
