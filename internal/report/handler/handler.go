package handler

import (
	"net/http"

	"sakkanal_backend/internal/report/service"
	"sakkanal_backend/internal/report/transport"
	telemetry "sakkanal_backend/internal/telemetry/transport"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Generate returns the report as an attachment.
// POST /api/v1/reports?format=html|pdf
func (h *Handler) Generate(c *gin.Context) {
	var query transport.FormatQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	var req transport.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	for _, v := range []any{query, req} {
		if err := h.val.Struct(v); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
			return
		}
	}

	caller := service.Caller{
		VisitorID: c.GetHeader(telemetry.HeaderVisitorID),
		SessionID: c.GetHeader(telemetry.HeaderSessionID),
	}
	result, err := h.svc.Generate(c.Request.Context(), req, query.Format, caller)
	if httpkit.HandleError(c, err) {
		return
	}

	if result.DownloadURL != "" {
		c.Header(transport.HeaderReportURL, result.DownloadURL)
	}
	httpkit.SetAttachment(c, result.Document.FileName)
	c.Data(http.StatusOK, result.Document.ContentType, result.Document.Body)
}
