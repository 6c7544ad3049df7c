package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"sakkanal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
)

var since = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func expectationsMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRemoteConversionRate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT total_leads, converted_leads, conversion_rate FROM get_salesperson_stats\(NULL, \$1\)`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"total_leads", "converted_leads", "conversion_rate"}).
			AddRow(int64(12), int64(3), 25.0))

	stats, err := NewRemote(mock).ConversionRate(context.Background(), since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalLeads != 12 || stats.ConvertedLeads != 3 || stats.ConversionRate != 25 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	expectationsMet(t, mock)
}

func TestRemoteConversionRate_MissingFunctionIsUnavailable(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`get_salesperson_stats`).
		WithArgs(since).
		WillReturnError(&pgconn.PgError{Code: "42883", Message: "function get_salesperson_stats does not exist"})

	_, err := NewRemote(mock).ConversionRate(context.Background(), since)
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestRemoteHotLeads(t *testing.T) {
	mock := newMock(t)
	id := uuid.New()
	last := since.Add(48 * time.Hour)
	mock.ExpectQuery(`FROM get_hot_leads\(\$1\)`).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"lead_id", "company_name", "contact_name", "email", "phone", "status", "score", "last_interaction"}).
			AddRow(id, "Sonatel", "Awa", "awa@example.sn", "+221771234567", "new", 95, &last).
			AddRow(uuid.New(), "SDE", "Moussa", "moussa@example.sn", "+221761234567", "contacted", 40, (*time.Time)(nil)))

	leads, err := NewRemote(mock).HotLeads(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(leads))
	}
	if leads[0].LeadID != id || leads[0].Score != 95 {
		t.Fatalf("unexpected first lead %+v", leads[0])
	}
	if leads[0].LastInteraction == nil || leads[1].LastInteraction != nil {
		t.Fatalf("last interaction not carried through: %v, %v", leads[0].LastInteraction, leads[1].LastInteraction)
	}
}

func TestRemoteHotLeads_SyntaxErrorIsNotUnavailable(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`get_hot_leads`).
		WithArgs(10).
		WillReturnError(&pgconn.PgError{Code: "42601", Message: "syntax error"})

	_, err := NewRemote(mock).HotLeads(context.Background(), 10)
	if err == nil || apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected a hard error, got %v", err)
	}
}

func TestRemoteTimeSeries(t *testing.T) {
	mock := newMock(t)
	to := since.AddDate(0, 0, 30)
	mock.ExpectQuery(`FROM get_time_series_data\(\$1::date, \$2::date, \$3\)`).
		WithArgs("2026-02-01", "2026-03-03", "week").
		WillReturnRows(pgxmock.NewRows([]string{"period", "new_leads", "contacted", "qualified", "converted"}).
			AddRow("2026-02-02", int64(4), int64(1), int64(1), int64(0)))

	series, err := NewRemote(mock).TimeSeries(context.Background(), since, to, "week")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 1 || series[0].Period != "2026-02-02" || series[0].NewLeads != 4 {
		t.Fatalf("unexpected series %+v", series)
	}
	expectationsMet(t, mock)
}

func TestIsUnavailable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"undefined table", &pgconn.PgError{Code: "42P01"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"division by zero", &pgconn.PgError{Code: "22012"}, false},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"plain", errors.New("cannot scan NULL into *string"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isUnavailable(tc.err); got != tc.want {
				t.Fatalf("isUnavailable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestLeadStatusesSince(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT status FROM leads WHERE created_at >= \$1`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("new").AddRow("converted"))

	statuses, err := New(mock).LeadStatusesSince(context.Background(), since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(statuses, []string{"new", "converted"}) {
		t.Fatalf("unexpected statuses %v", statuses)
	}
}

func TestOpenLeads(t *testing.T) {
	mock := newMock(t)
	id := uuid.New()
	budget := 2_000_000.0
	mock.ExpectQuery(`FROM leads\s+WHERE status IN \('new', 'contacted'\)\s+ORDER BY created_at DESC\s+LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "company_name", "contact_name", "email", "phone", "status", "electricity_bill", "budget", "created_at"}).
			AddRow(id, "Sonatel", "Awa", "awa@example.sn", "+221771234567", "new", 300_000.0, &budget, since))

	leads, err := New(mock).OpenLeads(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 1 || leads[0].ID != id {
		t.Fatalf("unexpected leads %+v", leads)
	}
	if leads[0].Budget == nil || *leads[0].Budget != budget {
		t.Fatalf("unexpected budget %v", leads[0].Budget)
	}
}

func TestInteractionSummaries(t *testing.T) {
	mock := newMock(t)
	a, b := uuid.New(), uuid.New()
	mock.ExpectQuery(`FROM lead_interactions\s+WHERE lead_id = ANY\(\$1\)\s+GROUP BY lead_id`).
		WithArgs([]uuid.UUID{a, b}).
		WillReturnRows(pgxmock.NewRows([]string{"lead_id", "count", "max"}).AddRow(a, int64(3), since))

	summaries, err := New(mock).InteractionSummaries(context.Background(), []uuid.UUID{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summaries[a].Count != 3 {
		t.Fatalf("expected 3 interactions, got %d", summaries[a].Count)
	}
	if _, ok := summaries[b]; ok {
		t.Fatal("lead without interactions must have no summary")
	}
}

func TestInteractionSummaries_NoLeadsSkipsQuery(t *testing.T) {
	mock := newMock(t)
	summaries, err := New(mock).InteractionSummaries(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected no summaries, got %v", summaries)
	}
	expectationsMet(t, mock)
}

func TestVisitsAndUniqueVisitors(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT page_path, COALESCE\(referrer, ''\), created_at\s+FROM page_visits`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"page_path", "referrer", "created_at"}).
			AddRow("/", "https://google.com", since).
			AddRow("/sakkanal", "", since))
	mock.ExpectQuery(`SELECT count\(\*\) FROM unique_visitors WHERE last_visit >= \$1`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	repo := New(mock)
	visits, err := repo.Visits(context.Background(), since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visits) != 2 {
		t.Fatalf("expected 2 visits, got %d", len(visits))
	}

	count, err := repo.UniqueVisitorCount(context.Background(), since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unique visitors, got %d", count)
	}
	expectationsMet(t, mock)
}
