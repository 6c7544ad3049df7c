package repository

import (
	"context"

	"sakkanal_backend/internal/scenarios/matching"

	"github.com/google/uuid"
)

// UpsertParams contains the catalog fields an operator seed may set.
type UpsertParams struct {
	Name              string
	Category          matching.Category
	SiteTypes         []string
	MinBudget         float64
	MaxBudget         *float64
	EstimatedSavings  float64
	EquipmentLifespan int
	Description       string
}

// Repository reads the scenario catalog. Upsert exists for the operator CLI;
// the HTTP surface never writes scenarios.
type Repository interface {
	List(ctx context.Context) ([]matching.Scenario, error)
	GetByID(ctx context.Context, id uuid.UUID) (matching.Scenario, error)
	Upsert(ctx context.Context, params UpsertParams) (matching.Scenario, error)
}
