package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"sakkanal_backend/platform/db"
)

// Repo implements Repository on PostgreSQL.
type Repo struct {
	pool db.Pool
}

// New creates a new telemetry repository.
func New(pool db.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) InsertPageVisit(ctx context.Context, visit PageVisit) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO page_visits (page_path, visitor_id, user_agent, referrer)
		VALUES ($1, $2, $3, $4)`,
		visit.PagePath, visit.VisitorID, visit.UserAgent, visit.Referrer)
	if err != nil {
		return fmt.Errorf("insert page visit: %w", err)
	}
	return nil
}

func (r *Repo) UpsertUniqueVisitor(ctx context.Context, visitorID string) error {
	if _, err := r.pool.Exec(ctx, `SELECT upsert_unique_visitor($1)`, visitorID); err != nil {
		return fmt.Errorf("upsert unique visitor: %w", err)
	}
	return nil
}

func (r *Repo) InsertCustomEvent(ctx context.Context, event CustomEvent) error {
	var properties []byte
	if len(event.Properties) > 0 {
		properties = event.Properties
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO custom_events (event_name, visitor_id, properties, page_path)
		VALUES ($1, $2, $3, $4)`,
		event.EventName, event.VisitorID, properties, event.PagePath)
	if err != nil {
		return fmt.Errorf("insert custom event: %w", err)
	}
	return nil
}

func (r *Repo) InsertAppEvent(ctx context.Context, event AppEvent) error {
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode event metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO events (event_name, event_category, lead_id, user_id, metadata)
		VALUES ($1, $2, $3, $4, $5)`,
		event.EventName, event.Category, event.LeadID, event.UserID, encoded)
	if err != nil {
		return fmt.Errorf("insert app event: %w", err)
	}
	return nil
}

func (r *Repo) InsertPageView(ctx context.Context, view PageView) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO page_views (page_path, user_id, session_id, referrer)
		VALUES ($1, $2, $3, $4)`,
		view.PagePath, view.UserID, view.SessionID, view.Referrer)
	if err != nil {
		return fmt.Errorf("insert page view: %w", err)
	}
	return nil
}
