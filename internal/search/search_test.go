package search

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sakkanal_backend/internal/search/handler"
	"sakkanal_backend/internal/search/repository"
	"sakkanal_backend/internal/search/service"
	"sakkanal_backend/internal/search/transport"
	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
)

type fakeSearcher struct {
	results []repository.SearchResult
	err     error

	query  string
	digits string
	status *string
	limit  int
}

func (f *fakeSearcher) SearchLeads(_ context.Context, query, digits string, status *string, limit int) ([]repository.SearchResult, error) {
	f.query, f.digits, f.status, f.limit = query, digits, status, limit
	return f.results, f.err
}

func newSearchRouter(repo *fakeSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.New(service.New(repo), validator.New())
	r := gin.New()
	h.RegisterRoutes(r.Group("/admin/search"))
	return r
}

func TestSearchLeads_MapsResults(t *testing.T) {
	id := uuid.New()
	created := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	repo := &fakeSearcher{results: []repository.SearchResult{{
		ID:           id,
		Title:        "Boulangerie Fall",
		Subtitle:     "Moussa Fall • +221776543210",
		Preview:      "moussa@example.sn",
		Status:       "contacted",
		MatchedField: "company",
		Score:        0.6,
		CreatedAt:    created,
		Total:        3,
	}}}

	w := httptest.NewRecorder()
	newSearchRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/search?q=boulangerie&status=contacted", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp transport.SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Total != 3 || len(resp.Items) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	item := resp.Items[0]
	if item.Link != "/admin/leads/"+id.String() || item.MatchedField != "company" {
		t.Fatalf("unexpected item %+v", item)
	}
	if math.Abs(float64(item.Score)-0.6) > 0.0001 {
		t.Fatalf("unexpected score %v", item.Score)
	}

	if repo.query != "boulangerie" || repo.digits != "" || repo.limit != 10 {
		t.Fatalf("unexpected search input q=%q digits=%q limit=%d", repo.query, repo.digits, repo.limit)
	}
	if repo.status == nil || *repo.status != "contacted" {
		t.Fatalf("expected status filter contacted, got %v", repo.status)
	}
}

func TestSearchLeads_PhoneFragmentPassesDigits(t *testing.T) {
	repo := &fakeSearcher{}

	w := httptest.NewRecorder()
	newSearchRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/search?q=77+654+32&limit=5", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if repo.digits != "7765432" || repo.status != nil || repo.limit != 5 {
		t.Fatalf("unexpected search input digits=%q status=%v limit=%d", repo.digits, repo.status, repo.limit)
	}
	if body := w.Body.String(); body != `{"items":[],"total":0}` {
		t.Fatalf("expected empty result set, got %s", body)
	}
}

func TestSearchLeads_RejectsShortQuery(t *testing.T) {
	repo := &fakeSearcher{}

	w := httptest.NewRecorder()
	newSearchRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/search?q=a", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if repo.query != "" {
		t.Fatal("short queries must not reach the repository")
	}
}

func TestSearchLeads_RejectsUnknownStatus(t *testing.T) {
	w := httptest.NewRecorder()
	newSearchRouter(&fakeSearcher{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/search?q=fall&status=lost", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSearchLeads_RepositoryFailureIsInternal(t *testing.T) {
	repo := &fakeSearcher{err: errors.New("connection reset")}

	w := httptest.NewRecorder()
	newSearchRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/search?q=fall", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection reset") {
		t.Fatalf("driver error leaked: %s", w.Body.String())
	}
}

func TestRepositorySearchLeads(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	id := uuid.New()
	created := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"id", "title", "subtitle", "preview", "status", "matched_field", "score", "created_at", "total",
	}).AddRow(id, "Hôtel Teranga", "Awa Diop", "awa@example.sn", "new", "notes", float32(0.3), created, int64(1))

	mock.ExpectQuery(`FROM matching m`).
		WithArgs("teranga", "", (*string)(nil), 10).
		WillReturnRows(rows)

	results, err := repository.New(mock).SearchLeads(context.Background(), "teranga", "", nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID != id {
		t.Fatalf("unexpected results %+v", results)
	}
	if results[0].MatchedField != "notes" || results[0].Total != 1 {
		t.Fatalf("unexpected result %+v", results[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
