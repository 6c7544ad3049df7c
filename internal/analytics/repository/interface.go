package repository

import (
	"context"
	"time"

	"sakkanal_backend/internal/analytics/aggregate"

	"github.com/google/uuid"
)

// Rows reads the raw lead, interaction and visit rows the dashboard
// aggregates in process.
type Rows interface {
	// LeadStatuses returns the status of every lead.
	LeadStatuses(ctx context.Context) ([]string, error)
	// LeadStatusesSince returns the status of leads created at or after since.
	LeadStatusesSince(ctx context.Context, since time.Time) ([]string, error)
	// Leads returns leads created in [from, to] oldest first. A zero from
	// reads from the beginning.
	Leads(ctx context.Context, from, to time.Time) ([]aggregate.LeadSnapshot, error)
	// OpenLeads returns up to limit new or contacted leads, newest first.
	OpenLeads(ctx context.Context, limit int) ([]aggregate.LeadSnapshot, error)
	InteractionSummaries(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID]aggregate.InteractionSummary, error)
	InteractionTypeCounts(ctx context.Context, since time.Time) ([]aggregate.TypeCount, error)
	Visits(ctx context.Context, since time.Time) ([]aggregate.Visit, error)
	UniqueVisitorCount(ctx context.Context, since time.Time) (int, error)
}
