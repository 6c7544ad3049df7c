package handler

import (
	"net/http"

	"sakkanal_backend/internal/leads/service"
	"sakkanal_backend/internal/leads/transport"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated lead form.
type PublicHandler struct {
	svc *service.Service
	val *validator.Validator
}

// NewPublicHandler creates the public lead capture handler.
func NewPublicHandler(svc *service.Service, val *validator.Validator) *PublicHandler {
	return &PublicHandler{svc: svc, val: val}
}

// Capture stores a lead submitted at the end of the qualification wizard.
// POST /api/v1/leads
func (h *PublicHandler) Capture(c *gin.Context) {
	var req transport.CaptureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Capture(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}
