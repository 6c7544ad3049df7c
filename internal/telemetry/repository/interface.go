package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// PageVisit is an anonymous visit of one page by one visitor.
type PageVisit struct {
	PagePath  string
	VisitorID string
	UserAgent *string
	Referrer  *string
}

// CustomEvent is a named visitor event with free-form properties.
type CustomEvent struct {
	EventName  string
	VisitorID  string
	Properties json.RawMessage
	PagePath   *string
}

// AppEvent is an application event, optionally tied to a lead or an admin.
type AppEvent struct {
	EventName string
	Category  string
	LeadID    *uuid.UUID
	UserID    *uuid.UUID
	Metadata  map[string]any
}

// PageView is a page seen during a session.
type PageView struct {
	PagePath  string
	UserID    *uuid.UUID
	SessionID string
	Referrer  *string
}

// Repository appends telemetry rows. Rows are never updated except the
// unique visitor counter.
type Repository interface {
	InsertPageVisit(ctx context.Context, visit PageVisit) error
	// UpsertUniqueVisitor bumps visit_count and last_visit, creating the row
	// on first sight.
	UpsertUniqueVisitor(ctx context.Context, visitorID string) error
	InsertCustomEvent(ctx context.Context, event CustomEvent) error
	InsertAppEvent(ctx context.Context, event AppEvent) error
	InsertPageView(ctx context.Context, view PageView) error
}
