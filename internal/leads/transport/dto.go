package transport

import (
	"encoding/json"
	"time"

	"sakkanal_backend/internal/scenarios/matching"

	"github.com/google/uuid"
)

// ContactInfo is the contact block of the lead form.
type ContactInfo struct {
	CompanyName string `json:"companyName" validate:"required,min=1,max=200"`
	ContactName string `json:"contactName" validate:"required,min=1,max=200"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Phone       string `json:"phone" validate:"required,min=6,max=30"`
}

// CaptureLeadRequest is submitted at the end of the wizard.
type CaptureLeadRequest struct {
	Contact         ContactInfo      `json:"contact"`
	Answers         matching.Answers `json:"answers"`
	ScenarioID      uuid.UUID        `json:"scenarioId" validate:"required"`
	InteractionType string           `json:"interactionType" validate:"omitempty,oneof=contact_request quote_request pdf_download"`
}

// CaptureLeadResponse identifies the created rows.
type CaptureLeadResponse struct {
	LeadID        uuid.UUID `json:"leadId"`
	InteractionID uuid.UUID `json:"interactionId"`
	Status        string    `json:"status"`
}

// ListLeadsRequest filters the admin list.
type ListLeadsRequest struct {
	Status string `form:"status" validate:"omitempty,oneof=new contacted qualified converted"`
}

// UpdateLeadStatusRequest moves a lead to any status.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified converted"`
}

// LeadActionRequest records a click in the admin lead view.
type LeadActionRequest struct {
	Action   string         `json:"action" validate:"required,oneof=view_lead_details click_email click_phone"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ScenarioRef is a recommended scenario on a lead.
type ScenarioRef struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

// InteractionResponse is one lead interaction.
type InteractionResponse struct {
	ID              uuid.UUID `json:"id"`
	InteractionType string    `json:"interactionType"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
}

// LeadResponse is the admin view of a lead.
type LeadResponse struct {
	ID                   uuid.UUID             `json:"id"`
	CompanyName          string                `json:"companyName"`
	ContactName          string                `json:"contactName"`
	Email                string                `json:"email"`
	Phone                string                `json:"phone"`
	SiteType             string                `json:"siteType"`
	ElectricityBill      float64               `json:"electricityBill"`
	InstallationPower    *float64              `json:"installationPower"`
	ZonesToMonitor       []string              `json:"zonesToMonitor"`
	SpecificNeeds        []string              `json:"specificNeeds"`
	MeasurementPoints    *int                  `json:"measurementPoints"`
	Budget               *float64              `json:"budget"`
	QuestionnaireData    json.RawMessage       `json:"questionnaireData"`
	RecommendedScenarios []ScenarioRef         `json:"recommendedScenarios"`
	Status               string                `json:"status"`
	Interactions         []InteractionResponse `json:"interactions"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// LeadStats counts the listed leads per status.
type LeadStats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Contacted int `json:"contacted"`
	Qualified int `json:"qualified"`
	Converted int `json:"converted"`
}

// LeadListResponse is the admin lead list.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Stats LeadStats      `json:"stats"`
}

// LeadActionResponse acknowledges a tracked admin action.
type LeadActionResponse struct {
	Recorded bool `json:"recorded"`
}
