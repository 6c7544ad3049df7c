package handler

import (
	"net/http"

	"sakkanal_backend/internal/telemetry/service"
	"sakkanal_backend/internal/telemetry/transport"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler serves the public telemetry endpoints. Every accepted request
// answers 202; storage failures only show up as recorded=false.
type Handler struct {
	tracker *service.Tracker
	events  *service.Events
	val     *validator.Validator
}

func New(tracker *service.Tracker, events *service.Events, val *validator.Validator) *Handler {
	return &Handler{tracker: tracker, events: events, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/page-visits", h.PageVisit)
	rg.POST("/navigation", h.Navigation)
	rg.POST("/events", h.CustomEvent)
	rg.POST("/app-events", h.AppEvent)
	rg.POST("/page-views", h.PageView)
}

// PageVisit records the current page once per visitor.
// POST /api/v1/telemetry/page-visits
func (h *Handler) PageVisit(c *gin.Context) {
	var req transport.PageVisitRequest
	if !h.bind(c, &req) {
		return
	}
	if req.VisitorID == "" {
		req.VisitorID = c.GetHeader(transport.HeaderVisitorID)
	}
	if req.UserAgent == "" {
		req.UserAgent = c.Request.UserAgent()
	}
	if req.Referrer == "" {
		req.Referrer = c.Request.Referer()
	}

	result := h.tracker.TrackPageView(c.Request.Context(), service.PageVisitInput{
		VisitorID: req.VisitorID,
		PagePath:  req.PagePath,
		UserAgent: req.UserAgent,
		Referrer:  req.Referrer,
	})
	httpkit.Accepted(c, transport.TrackResponse{
		Recorded:       result.Recorded,
		AlreadyTracked: !result.Recorded && result.State == service.PageTracked,
		VisitorID:      result.VisitorID,
	})
}

// Navigation resets the visitor's page state on client-side route changes.
func (h *Handler) Navigation(c *gin.Context) {
	req := transport.NavigationRequest{VisitorID: c.GetHeader(transport.HeaderVisitorID)}
	if req.VisitorID == "" && !h.bind(c, &req) {
		return
	}
	h.tracker.Navigate(c.Request.Context(), req.VisitorID)
	httpkit.Accepted(c, transport.TrackResponse{Recorded: true, VisitorID: req.VisitorID})
}

func (h *Handler) CustomEvent(c *gin.Context) {
	var req transport.CustomEventRequest
	if !h.bind(c, &req) {
		return
	}
	if req.VisitorID == "" {
		req.VisitorID = c.GetHeader(transport.HeaderVisitorID)
	}

	result := h.events.TrackCustomEvent(c.Request.Context(), service.CustomEventInput{
		EventName:  req.EventName,
		VisitorID:  req.VisitorID,
		PagePath:   req.PagePath,
		Properties: req.Properties,
	})
	httpkit.Accepted(c, transport.TrackResponse{Recorded: result.Recorded, VisitorID: result.VisitorID})
}

func (h *Handler) AppEvent(c *gin.Context) {
	var req transport.AppEventRequest
	if !h.bind(c, &req) {
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.GetHeader(transport.HeaderSessionID)
	}

	result := h.events.TrackEvent(c.Request.Context(), service.AppEventInput{
		EventName: req.EventName,
		Category:  req.Category,
		LeadID:    req.LeadID,
		SessionID: req.SessionID,
		Metadata:  req.Metadata,
	})
	httpkit.Accepted(c, transport.TrackResponse{Recorded: result.Recorded, SessionID: result.SessionID})
}

func (h *Handler) PageView(c *gin.Context) {
	var req transport.PageViewRequest
	if !h.bind(c, &req) {
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.GetHeader(transport.HeaderSessionID)
	}

	result := h.events.TrackPageView(c.Request.Context(), service.PageViewInput{
		PagePath:  req.PagePath,
		SessionID: req.SessionID,
		Referrer:  req.Referrer,
	})
	httpkit.Accepted(c, transport.TrackResponse{Recorded: result.Recorded, SessionID: result.SessionID})
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}
