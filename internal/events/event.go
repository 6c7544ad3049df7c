// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"sakkanal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Lead Domain Events
// =============================================================================

// ScenarioRef identifies a recommended scenario inside lead events.
type ScenarioRef struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

// LeadCaptured is published after a lead and its first interaction are committed.
type LeadCaptured struct {
	BaseEvent
	LeadID          uuid.UUID     `json:"leadId"`
	CompanyName     string        `json:"companyName"`
	ContactName     string        `json:"contactName"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	SiteType        string        `json:"siteType"`
	MonthlyBill     *float64      `json:"monthlyBill,omitempty"`
	Budget          *float64      `json:"budget,omitempty"`
	InteractionType string        `json:"interactionType"`
	Scenarios       []ScenarioRef `json:"scenarios"`
}

func (e LeadCaptured) EventName() string { return "leads.captured" }

// LeadStatusChanged is published when an admin moves a lead through the pipeline.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ChangedBy uuid.UUID `json:"changedBy"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status_changed" }

// =============================================================================
// Contact & Report Events
// =============================================================================

// ContactRequested is published when a visitor submits the contact form.
type ContactRequested struct {
	BaseEvent
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (e ContactRequested) EventName() string { return "contact.requested" }

// ReportDownloaded is published when a recommendation report is generated
// for a known lead. Email is the address the requester typed and is not
// verified against the lead.
type ReportDownloaded struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	Email     string    `json:"email,omitempty"`
	Format    string    `json:"format"`
	FileName  string    `json:"fileName"`
	VisitorID string    `json:"visitorId,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
}

func (e ReportDownloaded) EventName() string { return "report.downloaded" }

