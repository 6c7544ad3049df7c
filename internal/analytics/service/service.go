package service

import (
	"context"
	"time"

	"sakkanal_backend/internal/analytics/aggregate"
	"sakkanal_backend/internal/analytics/repository"
	"sakkanal_backend/internal/analytics/transport"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultHotLeadLimit   = 10
	DefaultTimeSeriesDays = 30
)

// Service answers the admin analytics queries.
type Service struct {
	source AggregateSource
	rows   repository.Rows
	now    func() time.Time
	log    *logger.Logger
}

// New creates the analytics service. source serves the aggregates with a
// remote implementation; rows serve the always-local ones.
func New(source AggregateSource, rows repository.Rows, log *logger.Logger) *Service {
	return &Service{source: source, rows: rows, now: time.Now, log: log}
}

func (s *Service) ConversionRate(ctx context.Context, r aggregate.Range) (transport.ConversionRateResponse, error) {
	stats, err := s.source.ConversionRate(ctx, r.Since(s.now()))
	if err != nil {
		return transport.ConversionRateResponse{}, err
	}
	return transport.ConversionRateResponse{Range: string(r), ConversionStats: stats}, nil
}

func (s *Service) HotLeads(ctx context.Context, limit int) (transport.HotLeadsResponse, error) {
	if limit <= 0 {
		limit = DefaultHotLeadLimit
	}
	leads, err := s.source.HotLeads(ctx, limit)
	if err != nil {
		return transport.HotLeadsResponse{}, err
	}
	return transport.HotLeadsResponse{Items: leads}, nil
}

// Funnel covers every lead regardless of range.
func (s *Service) Funnel(ctx context.Context) (transport.FunnelResponse, error) {
	statuses, err := s.rows.LeadStatuses(ctx)
	if err != nil {
		return transport.FunnelResponse{}, err
	}
	return transport.FunnelResponse{Stages: aggregate.Funnel(statuses)}, nil
}

func (s *Service) LeadSources(ctx context.Context, r aggregate.Range) (transport.SourcesResponse, error) {
	counts, err := s.rows.InteractionTypeCounts(ctx, r.Since(s.now()))
	if err != nil {
		return transport.SourcesResponse{}, err
	}
	return transport.SourcesResponse{Range: string(r), Items: aggregate.LeadSources(counts)}, nil
}

func (s *Service) MonthlyTrends(ctx context.Context) (transport.TrendsResponse, error) {
	points, err := s.source.MonthlyTrends(ctx, s.now())
	if err != nil {
		return transport.TrendsResponse{}, err
	}
	return transport.TrendsResponse{Granularity: string(aggregate.GranularityMonth), Items: points}, nil
}

// TimeSeries buckets the leads of the last days by granularity.
func (s *Service) TimeSeries(ctx context.Context, granularity string, days int) (transport.TrendsResponse, error) {
	g, err := aggregate.ParseGranularity(granularity)
	if err != nil {
		return transport.TrendsResponse{}, apperr.Validation(err.Error())
	}
	if days <= 0 {
		days = DefaultTimeSeriesDays
	}
	to := s.now()
	points, err := s.source.TimeSeries(ctx, to.AddDate(0, 0, -days), to, g)
	if err != nil {
		return transport.TrendsResponse{}, err
	}
	return transport.TrendsResponse{Granularity: string(g), Items: points}, nil
}

func (s *Service) VisitStats(ctx context.Context, r aggregate.Range) (transport.VisitStatsResponse, error) {
	stats, err := s.visitStats(ctx, r)
	if err != nil {
		return transport.VisitStatsResponse{}, err
	}
	return transport.VisitStatsResponse{Range: string(r), VisitStats: stats}, nil
}

func (s *Service) TrafficSources(ctx context.Context, r aggregate.Range) (transport.SourcesResponse, error) {
	visits, err := s.rows.Visits(ctx, r.Since(s.now()))
	if err != nil {
		return transport.SourcesResponse{}, err
	}
	return transport.SourcesResponse{Range: string(r), Items: aggregate.TrafficSources(visits)}, nil
}

// Dashboard loads every panel concurrently. The first failing panel fails
// the whole dashboard and cancels the others.
func (s *Service) Dashboard(ctx context.Context, r aggregate.Range) (transport.DashboardResponse, error) {
	now := s.now()
	since := r.Since(now)
	resp := transport.DashboardResponse{Range: string(r)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.ConversionRate, err = s.source.ConversionRate(ctx, since)
		return err
	})
	g.Go(func() (err error) {
		resp.HotLeads, err = s.source.HotLeads(ctx, DefaultHotLeadLimit)
		return err
	})
	g.Go(func() error {
		statuses, err := s.rows.LeadStatuses(ctx)
		if err != nil {
			return err
		}
		resp.Funnel = aggregate.Funnel(statuses)
		return nil
	})
	g.Go(func() error {
		counts, err := s.rows.InteractionTypeCounts(ctx, since)
		if err != nil {
			return err
		}
		resp.LeadSources = aggregate.LeadSources(counts)
		return nil
	})
	g.Go(func() (err error) {
		resp.MonthlyTrends, err = s.source.MonthlyTrends(ctx, now)
		return err
	})
	g.Go(func() error {
		visits, err := s.rows.Visits(ctx, since)
		if err != nil {
			return err
		}
		unique, err := s.rows.UniqueVisitorCount(ctx, since)
		if err != nil {
			return err
		}
		resp.VisitStats = aggregate.ComputeVisitStats(visits, unique, r)
		resp.TrafficSources = aggregate.TrafficSources(visits)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Error("dashboard load failed", "range", r, "error", err)
		return transport.DashboardResponse{}, err
	}
	return resp, nil
}

func (s *Service) visitStats(ctx context.Context, r aggregate.Range) (aggregate.VisitStats, error) {
	since := r.Since(s.now())
	visits, err := s.rows.Visits(ctx, since)
	if err != nil {
		return aggregate.VisitStats{}, err
	}
	unique, err := s.rows.UniqueVisitorCount(ctx, since)
	if err != nil {
		return aggregate.VisitStats{}, err
	}
	return aggregate.ComputeVisitStats(visits, unique, r), nil
}
