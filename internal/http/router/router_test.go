package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/observability"

	"github.com/gin-gonic/gin"
)

type testConfig struct{}

func (testConfig) GetHTTPAddr() string        { return ":0" }
func (testConfig) GetCORSAllowAll() bool      { return false }
func (testConfig) GetCORSOrigins() []string   { return []string{"http://localhost:5173"} }
func (testConfig) GetCORSAllowCreds() bool    { return true }
func (testConfig) GetJWTAccessSecret() string { return "secret" }
func (testConfig) GetMetricsEnabled() bool    { return true }

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }
func (echoModule) RegisterRoutes(rc *apphttp.RouterContext) {
	rc.V1.GET("/echo", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	rc.Admin.GET("/secret", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func newApp(health apphttp.HealthChecker) *apphttp.App {
	gin.SetMode(gin.TestMode)
	return &apphttp.App{
		Config:  testConfig{},
		Logger:  logger.NewWithWriter("test", io.Discard),
		Health:  health,
		Metrics: observability.NewMetrics(),
		Modules: []apphttp.Module{echoModule{}},
	}
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter_PublicAndAdminGroups(t *testing.T) {
	engine := New(newApp(pinger{}))

	if w := serve(engine, http.MethodGet, "/api/v1/echo"); w.Code != http.StatusOK {
		t.Fatalf("public route: expected 200, got %d", w.Code)
	}
	if w := serve(engine, http.MethodGet, "/api/v1/admin/secret"); w.Code != http.StatusUnauthorized {
		t.Fatalf("admin route without token: expected 401, got %d", w.Code)
	}
	if w := serve(engine, http.MethodGet, "/metrics"); w.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", w.Code)
	}
}

func TestRouter_HealthReportsDatabase(t *testing.T) {
	if w := serve(New(newApp(pinger{})), http.MethodGet, "/api/health"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := serve(New(newApp(pinger{err: errors.New("down")})), http.MethodGet, "/api/health"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
