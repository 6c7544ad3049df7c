package exports

import (
	"context"
	"fmt"
	"time"

	"sakkanal_backend/platform/db"

	"github.com/google/uuid"
)

// LeadRow is one lead flattened for spreadsheet export.
type LeadRow struct {
	ID               uuid.UUID
	CreatedAt        time.Time
	CompanyName      string
	ContactName      string
	Email            string
	Phone            string
	SiteType         string
	ElectricityBill  float64
	Budget           *float64
	Status           string
	Scenarios        string
	InteractionCount int
	LastInteraction  *time.Time
}

// ExportFilter bounds an export by creation time and optional status.
type ExportFilter struct {
	From   time.Time
	To     time.Time
	Status *string
	Limit  int
}

// Repository provides data access for export operations.
type Repository struct {
	pool db.Pool
}

func NewRepository(pool db.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListLeadRows returns leads created in [From, To], newest first, with their
// recommended scenario names joined and interaction totals.
func (r *Repository) ListLeadRows(ctx context.Context, f ExportFilter) ([]LeadRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.created_at, l.company_name, l.contact_name, l.email, l.phone,
			l.site_type, l.electricity_bill, l.budget, l.status,
			COALESCE((SELECT string_agg(s->>'name', ' | ')
				FROM jsonb_array_elements(l.recommended_scenarios) s), '') AS scenarios,
			(SELECT count(*) FROM lead_interactions i WHERE i.lead_id = l.id) AS interaction_count,
			(SELECT max(i.created_at) FROM lead_interactions i WHERE i.lead_id = l.id) AS last_interaction
		FROM leads l
		WHERE l.created_at >= $1 AND l.created_at <= $2
			AND ($3::text IS NULL OR l.status = $3)
		ORDER BY l.created_at DESC
		LIMIT $4`,
		f.From, f.To, f.Status, f.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list export leads: %w", err)
	}
	defer rows.Close()

	result := make([]LeadRow, 0)
	for rows.Next() {
		var row LeadRow
		if err := rows.Scan(
			&row.ID, &row.CreatedAt, &row.CompanyName, &row.ContactName, &row.Email, &row.Phone,
			&row.SiteType, &row.ElectricityBill, &row.Budget, &row.Status,
			&row.Scenarios, &row.InteractionCount, &row.LastInteraction,
		); err != nil {
			return nil, fmt.Errorf("scan export lead: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export leads: %w", err)
	}
	return result, nil
}
