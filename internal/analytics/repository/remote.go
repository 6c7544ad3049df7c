package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"sakkanal_backend/internal/analytics/aggregate"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUndefinedFunction = "42883"
	pgUndefinedTable    = "42P01"
)

// Remote computes aggregates with the database functions get_salesperson_stats,
// get_hot_leads and get_time_series_data. The functions are optional: when
// they are missing or the database cannot answer, errors come back as
// apperr.KindUnavailable.
type Remote struct {
	pool db.Pool
}

// NewRemote creates the database-function aggregate source.
func NewRemote(pool db.Pool) *Remote {
	return &Remote{pool: pool}
}

func (r *Remote) ConversionRate(ctx context.Context, since time.Time) (aggregate.ConversionStats, error) {
	var total, converted int64
	var rate float64
	err := r.pool.QueryRow(ctx,
		`SELECT total_leads, converted_leads, conversion_rate FROM get_salesperson_stats(NULL, $1)`, since,
	).Scan(&total, &converted, &rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return aggregate.ConversionStats{}, nil
	}
	if err != nil {
		return aggregate.ConversionStats{}, classify("get_salesperson_stats", err)
	}
	return aggregate.ConversionStats{TotalLeads: int(total), ConvertedLeads: int(converted), ConversionRate: rate}, nil
}

func (r *Remote) HotLeads(ctx context.Context, limit int) ([]aggregate.HotLead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT lead_id, company_name, contact_name, email, phone, status, score, last_interaction
		FROM get_hot_leads($1)`, limit)
	if err != nil {
		return nil, classify("get_hot_leads", err)
	}
	defer rows.Close()

	out := make([]aggregate.HotLead, 0, limit)
	for rows.Next() {
		var h aggregate.HotLead
		if err := rows.Scan(&h.LeadID, &h.CompanyName, &h.ContactName, &h.Email, &h.Phone, &h.Status, &h.Score, &h.LastInteraction); err != nil {
			return nil, fmt.Errorf("scan hot lead: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("get_hot_leads", err)
	}
	return out, nil
}

// MonthlyTrends asks for the six months ending at now.
func (r *Remote) MonthlyTrends(ctx context.Context, now time.Time) ([]aggregate.TrendPoint, error) {
	return r.TimeSeries(ctx, now.AddDate(0, -aggregate.MonthlyTrendWindow, 0), now, aggregate.GranularityMonth)
}

func (r *Remote) TimeSeries(ctx context.Context, from, to time.Time, g aggregate.Granularity) ([]aggregate.TrendPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT period, new_leads, contacted, qualified, converted
		FROM get_time_series_data($1::date, $2::date, $3)`,
		from.UTC().Format(time.DateOnly), to.UTC().Format(time.DateOnly), string(g))
	if err != nil {
		return nil, classify("get_time_series_data", err)
	}
	defer rows.Close()

	out := []aggregate.TrendPoint{}
	for rows.Next() {
		var p aggregate.TrendPoint
		var newLeads, contacted, qualified, converted int64
		if err := rows.Scan(&p.Period, &newLeads, &contacted, &qualified, &converted); err != nil {
			return nil, fmt.Errorf("scan time series: %w", err)
		}
		p.NewLeads, p.Contacted, p.Qualified, p.Converted = int(newLeads), int(contacted), int(qualified), int(converted)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("get_time_series_data", err)
	}
	return out, nil
}

// classify marks the failures that mean "the aggregate cannot be computed
// remotely right now" as unavailable. Anything else, such as scan or syntax
// errors, is a bug and is returned wrapped but unclassified.
func classify(function string, err error) error {
	if isUnavailable(err) {
		return apperr.Unavailable(function+" unavailable", err).WithOp("analytics.remote")
	}
	return fmt.Errorf("%s: %w", function, err)
}

func isUnavailable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUndefinedFunction, pgErr.Code == pgUndefinedTable:
			return true
		case strings.HasPrefix(pgErr.Code, "08"), // connection exception
			strings.HasPrefix(pgErr.Code, "53"), // insufficient resources
			strings.HasPrefix(pgErr.Code, "57"): // operator intervention
			return true
		}
		return false
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded)
}
