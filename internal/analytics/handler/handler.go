package handler

import (
	"net/http"

	"sakkanal_backend/internal/analytics/aggregate"
	"sakkanal_backend/internal/analytics/service"
	"sakkanal_backend/internal/analytics/transport"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler serves the admin analytics endpoints.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/conversion-rate", h.ConversionRate)
	rg.GET("/hot-leads", h.HotLeads)
	rg.GET("/funnel", h.Funnel)
	rg.GET("/lead-sources", h.LeadSources)
	rg.GET("/trends", h.MonthlyTrends)
	rg.GET("/time-series", h.TimeSeries)
	rg.GET("/visits", h.VisitStats)
	rg.GET("/traffic-sources", h.TrafficSources)
}

func (h *Handler) Dashboard(c *gin.Context) {
	result, err := h.svc.Dashboard(c.Request.Context(), rangeOf(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ConversionRate(c *gin.Context) {
	result, err := h.svc.ConversionRate(c.Request.Context(), rangeOf(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) HotLeads(c *gin.Context) {
	var req transport.HotLeadsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.HotLeads(c.Request.Context(), req.Limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Funnel(c *gin.Context) {
	result, err := h.svc.Funnel(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) LeadSources(c *gin.Context) {
	result, err := h.svc.LeadSources(c.Request.Context(), rangeOf(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) MonthlyTrends(c *gin.Context) {
	result, err := h.svc.MonthlyTrends(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) TimeSeries(c *gin.Context) {
	var req transport.TimeSeriesQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.TimeSeries(c.Request.Context(), req.Granularity, req.Days)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) VisitStats(c *gin.Context) {
	result, err := h.svc.VisitStats(c.Request.Context(), rangeOf(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) TrafficSources(c *gin.Context) {
	result, err := h.svc.TrafficSources(c.Request.Context(), rangeOf(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// rangeOf reads ?range=; anything unknown is the default window.
func rangeOf(c *gin.Context) aggregate.Range {
	var q transport.RangeQuery
	_ = c.ShouldBindQuery(&q)
	return aggregate.ParseRange(q.Range)
}
