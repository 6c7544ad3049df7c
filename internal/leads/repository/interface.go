package repository

import (
	"context"
	"encoding/json"
	"time"

	"sakkanal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// ScenarioRef is one entry of a lead's recommended scenarios.
type ScenarioRef struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

// Lead is a persisted lead row.
type Lead struct {
	ID                   uuid.UUID
	CompanyName          string
	ContactName          string
	Email                string
	Phone                string
	SiteType             string
	ElectricityBill      float64
	InstallationPower    *float64
	ZonesToMonitor       []string
	SpecificNeeds        []string
	MeasurementPoints    *int
	Budget               *float64
	QuestionnaireData    json.RawMessage
	RecommendedScenarios []ScenarioRef
	Status               domain.Status
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Interaction is an immutable event attached to a lead.
type Interaction struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Type      domain.InteractionType
	Notes     string
	CreatedAt time.Time
}

// CreateLeadParams contains a new lead and the interaction that opened it.
type CreateLeadParams struct {
	CompanyName          string
	ContactName          string
	Email                string
	Phone                string
	SiteType             string
	ElectricityBill      float64
	InstallationPower    *float64
	ZonesToMonitor       []string
	SpecificNeeds        []string
	MeasurementPoints    *int
	Budget               *float64
	QuestionnaireData    json.RawMessage
	RecommendedScenarios []ScenarioRef
	InteractionType      domain.InteractionType
	InteractionNote      string
}

// ListParams filters the admin lead list.
type ListParams struct {
	Status *domain.Status
}

// Repository persists leads and their interactions.
type Repository interface {
	// CreateWithInteraction writes both rows atomically.
	CreateWithInteraction(ctx context.Context, params CreateLeadParams) (Lead, Interaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, error)
	// ListInteractions returns interactions grouped by lead, newest first.
	ListInteractions(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]Interaction, error)
	// UpdateStatus sets the status and returns the updated lead with its previous status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (Lead, domain.Status, error)
	AddInteraction(ctx context.Context, leadID uuid.UUID, kind domain.InteractionType, note string) (Interaction, error)
}
