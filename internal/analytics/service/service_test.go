package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"sakkanal_backend/internal/analytics/aggregate"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/observability"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func discard() *logger.Logger { return logger.NewWithWriter("test", io.Discard) }

type stubSource struct {
	err   error
	calls int
	stats aggregate.ConversionStats
}

func (s *stubSource) ConversionRate(context.Context, time.Time) (aggregate.ConversionStats, error) {
	s.calls++
	return s.stats, s.err
}
func (s *stubSource) HotLeads(context.Context, int) ([]aggregate.HotLead, error) {
	s.calls++
	return []aggregate.HotLead{{CompanyName: "stub"}}, s.err
}
func (s *stubSource) MonthlyTrends(context.Context, time.Time) ([]aggregate.TrendPoint, error) {
	s.calls++
	return []aggregate.TrendPoint{{Period: "2026-03"}}, s.err
}
func (s *stubSource) TimeSeries(context.Context, time.Time, time.Time, aggregate.Granularity) ([]aggregate.TrendPoint, error) {
	s.calls++
	return nil, s.err
}

type stubRows struct {
	statuses []string
	leads    []aggregate.LeadSnapshot
	visits   []aggregate.Visit
	unique   int
	types    []aggregate.TypeCount
	failOn   string
}

func (r *stubRows) fail(op string) error {
	if r.failOn == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (r *stubRows) LeadStatuses(context.Context) ([]string, error) {
	return r.statuses, r.fail("statuses")
}
func (r *stubRows) LeadStatusesSince(context.Context, time.Time) ([]string, error) {
	return r.statuses, r.fail("statuses")
}
func (r *stubRows) Leads(_ context.Context, from, to time.Time) ([]aggregate.LeadSnapshot, error) {
	return r.leads, r.fail("leads")
}
func (r *stubRows) OpenLeads(_ context.Context, limit int) ([]aggregate.LeadSnapshot, error) {
	if len(r.leads) > limit {
		return r.leads[:limit], r.fail("open")
	}
	return r.leads, r.fail("open")
}
func (r *stubRows) InteractionSummaries(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]aggregate.InteractionSummary, error) {
	out := map[uuid.UUID]aggregate.InteractionSummary{}
	for _, id := range ids {
		out[id] = aggregate.InteractionSummary{Count: 1}
	}
	return out, r.fail("summaries")
}
func (r *stubRows) InteractionTypeCounts(context.Context, time.Time) ([]aggregate.TypeCount, error) {
	return r.types, r.fail("types")
}
func (r *stubRows) Visits(context.Context, time.Time) ([]aggregate.Visit, error) {
	return r.visits, r.fail("visits")
}
func (r *stubRows) UniqueVisitorCount(context.Context, time.Time) (int, error) {
	return r.unique, r.fail("unique")
}

func TestFallback_OnlyUnavailableDegrades(t *testing.T) {
	metrics := observability.NewMetrics()
	primary := &stubSource{err: apperr.Unavailable("get_salesperson_stats unavailable", errors.New("42883"))}
	fallback := &stubSource{stats: aggregate.ConversionStats{TotalLeads: 4, ConvertedLeads: 1, ConversionRate: 25}}
	src := NewFallbackAggregate(primary, fallback, metrics, discard())

	stats, err := src.ConversionRate(context.Background(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.ConversionRate != 25 || fallback.calls != 1 || primary.calls != 1 {
		t.Fatalf("expected one primary and one fallback call, got %d/%d", primary.calls, fallback.calls)
	}
	n, err := testutil.GatherAndCount(metrics.Registry(), "analytics_fallback_total")
	if err != nil || n != 1 {
		t.Fatalf("expected one fallback series, got %d (%v)", n, err)
	}
}

func TestFallback_ProgrammingErrorsAreNotMasked(t *testing.T) {
	primary := &stubSource{err: errors.New("cannot scan NULL into int")}
	fallback := &stubSource{}
	src := NewFallbackAggregate(primary, fallback, nil, discard())

	if _, err := src.HotLeads(context.Background(), 10); err == nil {
		t.Fatal("expected primary error to be returned")
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback must not run, ran %d times", fallback.calls)
	}
}

func TestFallback_FallbackErrorIsReturned(t *testing.T) {
	primary := &stubSource{err: apperr.Unavailable("offline", errors.New("dial"))}
	fallback := &stubSource{err: errors.New("leads table locked")}
	src := NewFallbackAggregate(primary, fallback, nil, discard())

	_, err := src.MonthlyTrends(context.Background(), testNow)
	if err == nil || err.Error() != "leads table locked" {
		t.Fatalf("expected fallback error, got %v", err)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("expected exactly one call each, got %d/%d", primary.calls, fallback.calls)
	}
}

func TestLocalAggregate_HotLeads(t *testing.T) {
	older := aggregate.LeadSnapshot{ID: uuid.New(), CompanyName: "old", ElectricityBill: 600000, CreatedAt: testNow.Add(-300 * time.Hour)}
	newer := aggregate.LeadSnapshot{ID: uuid.New(), CompanyName: "new", ElectricityBill: 100000, CreatedAt: testNow.Add(-time.Hour)}
	local := NewLocalAggregate(&stubRows{leads: []aggregate.LeadSnapshot{newer, older}})
	local.now = func() time.Time { return testNow }

	ranked, err := local.HotLeads(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// older: 30+5+10+5 = 50, newer: 10+5+10+20 = 45
	if ranked[0].CompanyName != "old" || ranked[0].Score != 50 || ranked[1].Score != 45 {
		t.Fatalf("unexpected ranking %+v", ranked)
	}
}

func TestLocalAggregate_ConversionRate(t *testing.T) {
	local := NewLocalAggregate(&stubRows{statuses: []string{"converted", "new", "new", "new"}})
	stats, err := local.ConversionRate(context.Background(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.ConversionRate != 25 {
		t.Fatalf("expected 25%%, got %v", stats.ConversionRate)
	}
}

func newTestService(rows *stubRows, source AggregateSource) *Service {
	svc := New(source, rows, discard())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestDashboard_LoadsEveryPanel(t *testing.T) {
	rows := &stubRows{
		statuses: []string{"new", "converted"},
		visits:   []aggregate.Visit{{PagePath: "/", Referrer: "https://google.com", CreatedAt: testNow}},
		unique:   1,
		types:    []aggregate.TypeCount{{Type: "quote_request", Count: 2}},
	}
	svc := newTestService(rows, &stubSource{stats: aggregate.ConversionStats{TotalLeads: 2, ConvertedLeads: 1, ConversionRate: 50}})

	resp, err := svc.Dashboard(context.Background(), aggregate.Range7Days)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Range != "7d" || resp.ConversionRate.ConversionRate != 50 {
		t.Fatalf("unexpected conversion panel %+v", resp.ConversionRate)
	}
	if len(resp.Funnel) != 4 || resp.Funnel[0].Percentage != 50 {
		t.Fatalf("unexpected funnel %+v", resp.Funnel)
	}
	if len(resp.LeadSources) != 1 || resp.LeadSources[0].Source != "Demande Devis" {
		t.Fatalf("unexpected lead sources %+v", resp.LeadSources)
	}
	if resp.VisitStats.TotalVisits != 1 || len(resp.TrafficSources) != 1 || resp.TrafficSources[0].Source != "Google" {
		t.Fatalf("unexpected visit panels %+v %+v", resp.VisitStats, resp.TrafficSources)
	}
	if len(resp.HotLeads) != 1 || len(resp.MonthlyTrends) != 1 {
		t.Fatal("expected source-backed panels to be filled")
	}
}

func TestDashboard_AnyPanelFailureFailsAll(t *testing.T) {
	svc := newTestService(&stubRows{failOn: "visits"}, &stubSource{})
	if _, err := svc.Dashboard(context.Background(), aggregate.Range30Days); err == nil {
		t.Fatal("expected dashboard error")
	}
}

func TestTimeSeries_RejectsUnknownGranularity(t *testing.T) {
	svc := newTestService(&stubRows{}, &stubSource{})
	_, err := svc.TimeSeries(context.Background(), "hour", 7)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHotLeads_DefaultLimit(t *testing.T) {
	src := &stubSource{}
	svc := newTestService(&stubRows{}, src)
	if _, err := svc.HotLeads(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected one source call, got %d", src.calls)
	}
}
