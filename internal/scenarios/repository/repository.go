package repository

import (
	"context"
	"errors"
	"fmt"

	"sakkanal_backend/internal/scenarios/matching"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const scenarioNotFoundMessage = "scenario not found"

const scenarioColumns = `id, name, category, site_types, min_budget, max_budget,
	estimated_savings, equipment_lifespan, description`

// Repo implements the scenario repository.
type Repo struct {
	pool db.Pool
}

// New creates a new scenario repository.
func New(pool db.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List returns the catalog ordered by category then creation order. That
// order is the tie-break order of matching.Match.
func (r *Repo) List(ctx context.Context) ([]matching.Scenario, error) {
	query := `SELECT ` + scenarioColumns + `
		FROM scenarios
		ORDER BY category ASC, created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	items := make([]matching.Scenario, 0)
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		items = append(items, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	return items, nil
}

// GetByID returns one scenario.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (matching.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE id = $1`

	sc, err := scanScenario(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return matching.Scenario{}, apperr.NotFound(scenarioNotFoundMessage)
		}
		return matching.Scenario{}, fmt.Errorf("get scenario: %w", err)
	}
	return sc, nil
}

// Upsert inserts a scenario or refreshes the one with the same name.
func (r *Repo) Upsert(ctx context.Context, params UpsertParams) (matching.Scenario, error) {
	query := `
		INSERT INTO scenarios (name, category, site_types, min_budget, max_budget,
			estimated_savings, equipment_lifespan, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO UPDATE SET
			category = EXCLUDED.category,
			site_types = EXCLUDED.site_types,
			min_budget = EXCLUDED.min_budget,
			max_budget = EXCLUDED.max_budget,
			estimated_savings = EXCLUDED.estimated_savings,
			equipment_lifespan = EXCLUDED.equipment_lifespan,
			description = EXCLUDED.description,
			updated_at = now()
		RETURNING ` + scenarioColumns

	sc, err := scanScenario(r.pool.QueryRow(ctx, query,
		params.Name, string(params.Category), params.SiteTypes, params.MinBudget, params.MaxBudget,
		params.EstimatedSavings, params.EquipmentLifespan, params.Description,
	))
	if err != nil {
		return matching.Scenario{}, fmt.Errorf("upsert scenario: %w", err)
	}
	return sc, nil
}

func scanScenario(row pgx.Row) (matching.Scenario, error) {
	var sc matching.Scenario
	var category string
	if err := row.Scan(
		&sc.ID, &sc.Name, &category, &sc.SiteTypes, &sc.MinBudget, &sc.MaxBudget,
		&sc.EstimatedSavings, &sc.EquipmentLifespan, &sc.Description,
	); err != nil {
		return matching.Scenario{}, err
	}
	sc.Category = matching.Category(category)
	return sc, nil
}
