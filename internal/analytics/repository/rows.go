package repository

import (
	"context"
	"fmt"
	"time"

	"sakkanal_backend/internal/analytics/aggregate"
	"sakkanal_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const snapshotColumns = `id, company_name, contact_name, email, phone, status,
	electricity_bill, budget, created_at`

// Repo implements Rows on PostgreSQL.
type Repo struct {
	pool db.Pool
}

// New creates a new analytics row reader.
func New(pool db.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Rows = (*Repo)(nil)

func (r *Repo) LeadStatuses(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT status FROM leads`)
	if err != nil {
		return nil, fmt.Errorf("query lead statuses: %w", err)
	}
	statuses, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan lead statuses: %w", err)
	}
	return statuses, nil
}

func (r *Repo) LeadStatusesSince(ctx context.Context, since time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT status FROM leads WHERE created_at >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("query lead statuses since: %w", err)
	}
	statuses, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan lead statuses since: %w", err)
	}
	return statuses, nil
}

func (r *Repo) Leads(ctx context.Context, from, to time.Time) ([]aggregate.LeadSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM leads
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	return collectSnapshots(rows)
}

func (r *Repo) OpenLeads(ctx context.Context, limit int) ([]aggregate.LeadSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM leads
		WHERE status IN ('new', 'contacted')
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query open leads: %w", err)
	}
	return collectSnapshots(rows)
}

func (r *Repo) InteractionSummaries(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID]aggregate.InteractionSummary, error) {
	out := make(map[uuid.UUID]aggregate.InteractionSummary, len(leadIDs))
	if len(leadIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT lead_id, count(*), max(created_at)
		FROM lead_interactions
		WHERE lead_id = ANY($1)
		GROUP BY lead_id`, leadIDs)
	if err != nil {
		return nil, fmt.Errorf("query interaction summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     uuid.UUID
			count  int64
			lastAt time.Time
		)
		if err := rows.Scan(&id, &count, &lastAt); err != nil {
			return nil, fmt.Errorf("scan interaction summary: %w", err)
		}
		out[id] = aggregate.InteractionSummary{Count: int(count), LastAt: &lastAt}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interaction summaries: %w", err)
	}
	return out, nil
}

func (r *Repo) InteractionTypeCounts(ctx context.Context, since time.Time) ([]aggregate.TypeCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT interaction_type, count(*)
		FROM lead_interactions
		WHERE created_at >= $1
		GROUP BY interaction_type`, since)
	if err != nil {
		return nil, fmt.Errorf("query interaction types: %w", err)
	}
	defer rows.Close()

	var out []aggregate.TypeCount
	for rows.Next() {
		var (
			kind  string
			count int64
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scan interaction type: %w", err)
		}
		out = append(out, aggregate.TypeCount{Type: kind, Count: int(count)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interaction types: %w", err)
	}
	return out, nil
}

func (r *Repo) Visits(ctx context.Context, since time.Time) ([]aggregate.Visit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT page_path, COALESCE(referrer, ''), created_at
		FROM page_visits
		WHERE created_at >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("query page visits: %w", err)
	}
	defer rows.Close()

	var out []aggregate.Visit
	for rows.Next() {
		var v aggregate.Visit
		if err := rows.Scan(&v.PagePath, &v.Referrer, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan page visit: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate page visits: %w", err)
	}
	return out, nil
}

func (r *Repo) UniqueVisitorCount(ctx context.Context, since time.Time) (int, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM unique_visitors WHERE last_visit >= $1`, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unique visitors: %w", err)
	}
	return int(count), nil
}

func collectSnapshots(rows pgx.Rows) ([]aggregate.LeadSnapshot, error) {
	defer rows.Close()

	var out []aggregate.LeadSnapshot
	for rows.Next() {
		var l aggregate.LeadSnapshot
		if err := rows.Scan(&l.ID, &l.CompanyName, &l.ContactName, &l.Email, &l.Phone, &l.Status,
			&l.ElectricityBill, &l.Budget, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead snapshot: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lead snapshots: %w", err)
	}
	return out, nil
}
