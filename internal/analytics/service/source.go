package service

import (
	"context"
	"time"

	"sakkanal_backend/internal/analytics/aggregate"
	"sakkanal_backend/internal/analytics/repository"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/observability"

	"github.com/google/uuid"
)

// AggregateSource computes the aggregates that have both a database-function
// and an in-process implementation.
type AggregateSource interface {
	ConversionRate(ctx context.Context, since time.Time) (aggregate.ConversionStats, error)
	HotLeads(ctx context.Context, limit int) ([]aggregate.HotLead, error)
	MonthlyTrends(ctx context.Context, now time.Time) ([]aggregate.TrendPoint, error)
	TimeSeries(ctx context.Context, from, to time.Time, g aggregate.Granularity) ([]aggregate.TrendPoint, error)
}

var _ AggregateSource = (*repository.Remote)(nil)

// LocalAggregate computes every aggregate from raw rows.
type LocalAggregate struct {
	rows repository.Rows
	now  func() time.Time
}

// NewLocalAggregate creates the in-process aggregate source.
func NewLocalAggregate(rows repository.Rows) *LocalAggregate {
	return &LocalAggregate{rows: rows, now: time.Now}
}

func (l *LocalAggregate) ConversionRate(ctx context.Context, since time.Time) (aggregate.ConversionStats, error) {
	statuses, err := l.rows.LeadStatusesSince(ctx, since)
	if err != nil {
		return aggregate.ConversionStats{}, err
	}
	return aggregate.Conversion(statuses), nil
}

// HotLeads scores the newest limit open leads. Interaction counts are read in
// one grouped query.
func (l *LocalAggregate) HotLeads(ctx context.Context, limit int) ([]aggregate.HotLead, error) {
	leads, err := l.rows.OpenLeads(ctx, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(leads))
	for _, lead := range leads {
		ids = append(ids, lead.ID)
	}
	summaries, err := l.rows.InteractionSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	return aggregate.RankHotLeads(leads, summaries, l.now()), nil
}

// MonthlyTrends groups every lead by month and keeps the last six.
func (l *LocalAggregate) MonthlyTrends(ctx context.Context, now time.Time) ([]aggregate.TrendPoint, error) {
	leads, err := l.rows.Leads(ctx, time.Time{}, now)
	if err != nil {
		return nil, err
	}
	return aggregate.MonthlyTrends(leads), nil
}

func (l *LocalAggregate) TimeSeries(ctx context.Context, from, to time.Time, g aggregate.Granularity) ([]aggregate.TrendPoint, error) {
	leads, err := l.rows.Leads(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return aggregate.TimeSeries(leads, from, to, g), nil
}

// FallbackAggregate tries primary first and calls fallback exactly once when
// primary reports apperr.KindUnavailable. Other errors are returned as is.
type FallbackAggregate struct {
	primary  AggregateSource
	fallback AggregateSource
	metrics  *observability.Metrics
	log      *logger.Logger
}

// NewFallbackAggregate wraps primary with fallback.
func NewFallbackAggregate(primary, fallback AggregateSource, metrics *observability.Metrics, log *logger.Logger) *FallbackAggregate {
	return &FallbackAggregate{primary: primary, fallback: fallback, metrics: metrics, log: log}
}

func (f *FallbackAggregate) ConversionRate(ctx context.Context, since time.Time) (aggregate.ConversionStats, error) {
	return withFallback(f, "conversion_rate",
		func() (aggregate.ConversionStats, error) { return f.primary.ConversionRate(ctx, since) },
		func() (aggregate.ConversionStats, error) { return f.fallback.ConversionRate(ctx, since) })
}

func (f *FallbackAggregate) HotLeads(ctx context.Context, limit int) ([]aggregate.HotLead, error) {
	return withFallback(f, "hot_leads",
		func() ([]aggregate.HotLead, error) { return f.primary.HotLeads(ctx, limit) },
		func() ([]aggregate.HotLead, error) { return f.fallback.HotLeads(ctx, limit) })
}

func (f *FallbackAggregate) MonthlyTrends(ctx context.Context, now time.Time) ([]aggregate.TrendPoint, error) {
	return withFallback(f, "monthly_trends",
		func() ([]aggregate.TrendPoint, error) { return f.primary.MonthlyTrends(ctx, now) },
		func() ([]aggregate.TrendPoint, error) { return f.fallback.MonthlyTrends(ctx, now) })
}

func (f *FallbackAggregate) TimeSeries(ctx context.Context, from, to time.Time, g aggregate.Granularity) ([]aggregate.TrendPoint, error) {
	return withFallback(f, "time_series",
		func() ([]aggregate.TrendPoint, error) { return f.primary.TimeSeries(ctx, from, to, g) },
		func() ([]aggregate.TrendPoint, error) { return f.fallback.TimeSeries(ctx, from, to, g) })
}

func withFallback[T any](f *FallbackAggregate, operation string, primary, fallback func() (T, error)) (T, error) {
	result, err := primary()
	if err == nil || !apperr.Is(err, apperr.KindUnavailable) {
		return result, err
	}
	f.log.AggregateFallback(operation, err)
	f.metrics.AggregateFallback(operation)
	return fallback()
}
