package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sakkanal_backend/internal/events"
	"sakkanal_backend/internal/report/document"
	"sakkanal_backend/internal/report/service"
	"sakkanal_backend/internal/scenarios/matching"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type scenarioStub struct{ sc matching.Scenario }

func (s scenarioStub) Get(context.Context, uuid.UUID) (matching.Scenario, error) { return s.sc, nil }

var scenario = matching.Scenario{ID: uuid.New(), Name: "Pack Premium", EstimatedSavings: 20, EquipmentLifespan: 12}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewWithWriter("test", io.Discard)
	svc := service.New(scenarioStub{scenario}, document.NewGenerator("http://localhost:5173"), nil, nil, events.NewInMemoryBus(log), log)

	r := gin.New()
	r.POST("/api/v1/reports", New(svc, validator.New()).Generate)
	return r
}

func post(r *gin.Engine, url string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerate_HTMLAttachment(t *testing.T) {
	w := post(newRouter(), "/api/v1/reports", map[string]any{
		"scenarioId": scenario.ID,
		"answers":    map[string]any{"siteType": "commerce", "electricityBill": 150000},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment; filename=pack-premium-") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type %q", w.Header().Get("Content-Type"))
	}
	if w.Header().Get("X-Report-URL") != "" {
		t.Fatal("expected no report url without archive")
	}
}

func TestGenerate_PDFUnavailable(t *testing.T) {
	w := post(newRouter(), "/api/v1/reports?format=pdf", map[string]any{"scenarioId": scenario.ID})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGenerate_RejectsUnknownFormat(t *testing.T) {
	w := post(newRouter(), "/api/v1/reports?format=docx", map[string]any{"scenarioId": scenario.ID})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGenerate_InvalidClientEmail(t *testing.T) {
	w := post(newRouter(), "/api/v1/reports", map[string]any{
		"scenarioId": scenario.ID,
		"client":     map[string]any{"email": "not-an-email"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
