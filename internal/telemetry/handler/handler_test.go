package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sakkanal_backend/internal/telemetry/repository"
	"sakkanal_backend/internal/telemetry/service"
	"sakkanal_backend/internal/telemetry/transport"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type stubRepo struct {
	err    error
	visits int
}

func (s *stubRepo) InsertPageVisit(context.Context, repository.PageVisit) error {
	if s.err != nil {
		return s.err
	}
	s.visits++
	return nil
}
func (s *stubRepo) UpsertUniqueVisitor(context.Context, string) error               { return s.err }
func (s *stubRepo) InsertCustomEvent(context.Context, repository.CustomEvent) error { return s.err }
func (s *stubRepo) InsertAppEvent(context.Context, repository.AppEvent) error       { return s.err }
func (s *stubRepo) InsertPageView(context.Context, repository.PageView) error       { return s.err }

func newRouter(repo *stubRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewWithWriter("test", io.Discard)
	tracker := service.NewTracker(repo, service.NewMemoryStateStore(time.Hour), nil, log)
	h := New(tracker, service.NewEvents(repo, log), validator.New())

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1/telemetry"))
	return r
}

func post(r *gin.Engine, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) transport.TrackResponse {
	t.Helper()
	var resp transport.TrackResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestPageVisit_AcceptedOncePerPage(t *testing.T) {
	repo := &stubRepo{}
	r := newRouter(repo)
	headers := map[string]string{transport.HeaderVisitorID: "visitor_1_abcdefghi"}

	w := post(r, "/api/v1/telemetry/page-visits", map[string]string{"pagePath": "/"}, headers)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	first := decode(t, w)
	if !first.Recorded || first.VisitorID != "visitor_1_abcdefghi" {
		t.Fatalf("unexpected response %+v", first)
	}

	second := decode(t, post(r, "/api/v1/telemetry/page-visits", map[string]string{"pagePath": "/"}, headers))
	if second.Recorded || !second.AlreadyTracked {
		t.Fatalf("expected already tracked, got %+v", second)
	}

	post(r, "/api/v1/telemetry/navigation", map[string]string{}, headers)
	third := decode(t, post(r, "/api/v1/telemetry/page-visits", map[string]string{"pagePath": "/"}, headers))
	if !third.Recorded || repo.visits != 2 {
		t.Fatalf("expected a new visit after navigation, got %+v (visits=%d)", third, repo.visits)
	}
}

func TestPageVisit_StorageFailureStillAccepted(t *testing.T) {
	r := newRouter(&stubRepo{err: errors.New("db down")})

	w := post(r, "/api/v1/telemetry/page-visits", map[string]string{"pagePath": "/"}, nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp.Recorded || resp.VisitorID == "" {
		t.Fatalf("expected recorded=false with generated visitor id, got %+v", resp)
	}
}

func TestPageVisit_MissingPathRejected(t *testing.T) {
	w := post(newRouter(&stubRepo{}), "/api/v1/telemetry/page-visits", map[string]string{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAppEvent_UsesSessionHeader(t *testing.T) {
	w := post(newRouter(&stubRepo{}), "/api/v1/telemetry/app-events",
		map[string]any{"eventName": "wizard_completed"},
		map[string]string{transport.HeaderSessionID: "session_1_abcdefghi"})
	resp := decode(t, w)
	if w.Code != http.StatusAccepted || !resp.Recorded || resp.SessionID != "session_1_abcdefghi" {
		t.Fatalf("unexpected response %d %+v", w.Code, resp)
	}
}

func TestNavigation_RequiresVisitor(t *testing.T) {
	w := post(newRouter(&stubRepo{}), "/api/v1/telemetry/navigation", map[string]string{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
