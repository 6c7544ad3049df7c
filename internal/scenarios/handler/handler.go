package handler

import (
	"net/http"
	"strconv"

	"sakkanal_backend/internal/scenarios/service"
	"sakkanal_backend/internal/scenarios/transport"
	"sakkanal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the scenario catalog and wizard.
type Handler struct {
	svc *service.Service
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidStep    = "invalid wizard step"
)

// New creates a new scenarios handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List returns the catalog.
// GET /api/v1/scenarios
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Match ranks the catalog against the submitted answers.
// POST /api/v1/scenarios/match
func (h *Handler) Match(c *gin.Context) {
	var req transport.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Match(c.Request.Context(), req.Answers)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ValidateStep checks whether the wizard may leave a step.
// POST /api/v1/qualification/steps/:step/validate
func (h *Handler) ValidateStep(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidStep, nil)
		return
	}

	var req transport.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.ValidateStep(step, req.Answers)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
