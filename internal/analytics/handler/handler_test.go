package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sakkanal_backend/internal/analytics/aggregate"
	"sakkanal_backend/internal/analytics/service"
	"sakkanal_backend/internal/analytics/transport"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type emptyRows struct{}

func (emptyRows) LeadStatuses(context.Context) ([]string, error) { return []string{"new"}, nil }
func (emptyRows) LeadStatusesSince(context.Context, time.Time) ([]string, error) {
	return []string{"new"}, nil
}
func (emptyRows) Leads(context.Context, time.Time, time.Time) ([]aggregate.LeadSnapshot, error) {
	return nil, nil
}
func (emptyRows) OpenLeads(context.Context, int) ([]aggregate.LeadSnapshot, error) { return nil, nil }
func (emptyRows) InteractionSummaries(context.Context, []uuid.UUID) (map[uuid.UUID]aggregate.InteractionSummary, error) {
	return nil, nil
}
func (emptyRows) InteractionTypeCounts(context.Context, time.Time) ([]aggregate.TypeCount, error) {
	return nil, nil
}
func (emptyRows) Visits(context.Context, time.Time) ([]aggregate.Visit, error) { return nil, nil }
func (emptyRows) UniqueVisitorCount(context.Context, time.Time) (int, error)   { return 0, nil }

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	rows := emptyRows{}
	svc := service.New(service.NewLocalAggregate(rows), rows, logger.NewWithWriter("test", io.Discard))
	r := gin.New()
	New(svc, validator.New()).RegisterRoutes(r.Group("/analytics"))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestDashboard_UnknownRangeDefaultsTo30Days(t *testing.T) {
	w := get(newRouter(), "/analytics/dashboard?range=forever")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp transport.DashboardResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Range != "30d" {
		t.Fatalf("expected 30d, got %q", resp.Range)
	}
	if resp.Funnel[0].Percentage != 100 {
		t.Fatalf("unexpected funnel %+v", resp.Funnel)
	}
}

func TestHotLeads_LimitBounds(t *testing.T) {
	r := newRouter()
	if w := get(r, "/analytics/hot-leads?limit=500"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit 500, got %d", w.Code)
	}
	if w := get(r, "/analytics/hot-leads?limit=abc"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric limit, got %d", w.Code)
	}
	if w := get(r, "/analytics/hot-leads?limit=5"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestTimeSeries_Granularity(t *testing.T) {
	r := newRouter()
	if w := get(r, "/analytics/time-series?granularity=hour"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	w := get(r, "/analytics/time-series?granularity=week&days=14")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp transport.TrendsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Granularity != "week" {
		t.Fatalf("expected week, got %q", resp.Granularity)
	}
}
