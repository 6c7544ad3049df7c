package transport

import (
	"sakkanal_backend/internal/scenarios/matching"

	"github.com/google/uuid"
)

// HeaderReportURL carries the presigned download link of the archived copy.
const HeaderReportURL = "X-Report-URL"

type ClientInfo struct {
	CompanyName string `json:"companyName" validate:"max=200"`
	ContactName string `json:"contactName" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	Phone       string `json:"phone" validate:"max=50"`
}

type GenerateReportRequest struct {
	ScenarioID uuid.UUID        `json:"scenarioId" validate:"required"`
	Answers    matching.Answers `json:"answers"`
	Client     *ClientInfo      `json:"client"`
	LeadID     *uuid.UUID       `json:"leadId"`
}

type FormatQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=html pdf"`
}
