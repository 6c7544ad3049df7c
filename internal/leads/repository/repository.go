package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sakkanal_backend/internal/leads/domain"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	leadNotFoundMessage = "lead not found"

	pgForeignKeyViolation = "23503"
)

const leadColumns = `id, company_name, contact_name, email, phone, site_type,
	electricity_bill, installation_power, zones_to_monitor, specific_needs,
	measurement_points, budget, questionnaire_data, recommended_scenarios,
	status, created_at, updated_at`

const interactionColumns = `id, lead_id, interaction_type, notes, created_at`

// Repo implements the leads repository.
type Repo struct {
	pool db.Pool
}

// New creates a new leads repository.
func New(pool db.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateWithInteraction inserts the lead and its first interaction in one
// transaction so a lead never exists without the request that created it.
func (r *Repo) CreateWithInteraction(ctx context.Context, params CreateLeadParams) (Lead, Interaction, error) {
	scenarios, err := json.Marshal(nonNilRefs(params.RecommendedScenarios))
	if err != nil {
		return Lead{}, Interaction{}, fmt.Errorf("encode recommended scenarios: %w", err)
	}
	questionnaire := params.QuestionnaireData
	if len(questionnaire) == 0 {
		questionnaire = json.RawMessage(`{}`)
	}

	var lead Lead
	var interaction Interaction
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		leadQuery := `
			INSERT INTO leads (
				company_name, contact_name, email, phone, site_type,
				electricity_bill, installation_power, zones_to_monitor, specific_needs,
				measurement_points, budget, questionnaire_data, recommended_scenarios, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 'new')
			RETURNING ` + leadColumns

		var scanErr error
		lead, scanErr = scanLead(tx.QueryRow(ctx, leadQuery,
			params.CompanyName, params.ContactName, params.Email, params.Phone, params.SiteType,
			params.ElectricityBill, params.InstallationPower, nonNilStrings(params.ZonesToMonitor), nonNilStrings(params.SpecificNeeds),
			params.MeasurementPoints, params.Budget, []byte(questionnaire), scenarios,
		))
		if scanErr != nil {
			return fmt.Errorf("insert lead: %w", scanErr)
		}

		interactionQuery := `
			INSERT INTO lead_interactions (lead_id, interaction_type, notes)
			VALUES ($1, $2, $3)
			RETURNING ` + interactionColumns

		interaction, scanErr = scanInteraction(tx.QueryRow(ctx, interactionQuery,
			lead.ID, string(params.InteractionType), params.InteractionNote,
		))
		if scanErr != nil {
			return fmt.Errorf("insert lead interaction: %w", scanErr)
		}
		return nil
	})
	if err != nil {
		return Lead{}, Interaction{}, err
	}
	return lead, interaction, nil
}

// GetByID returns one lead.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// List returns leads newest first, optionally filtered by status.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Lead, error) {
	var status *string
	if params.Status != nil {
		s := string(*params.Status)
		status = &s
	}

	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		items = append(items, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return items, nil
}

// ListInteractions loads the interactions of many leads in one query.
func (r *Repo) ListInteractions(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]Interaction, error) {
	out := make(map[uuid.UUID][]Interaction, len(leadIDs))
	if len(leadIDs) == 0 {
		return out, nil
	}

	query := `SELECT ` + interactionColumns + `
		FROM lead_interactions
		WHERE lead_id = ANY($1)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, leadIDs)
	if err != nil {
		return nil, fmt.Errorf("list lead interactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		it, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead interaction: %w", err)
		}
		out[it.LeadID] = append(out[it.LeadID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lead interactions: %w", err)
	}
	return out, nil
}

// UpdateStatus moves a lead to status and refreshes updated_at.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (Lead, domain.Status, error) {
	query := `
		WITH prev AS (
			SELECT id, status FROM leads WHERE id = $1 FOR UPDATE
		)
		UPDATE leads l
		SET status = $2, updated_at = now()
		FROM prev
		WHERE l.id = prev.id
		RETURNING l.id, l.company_name, l.contact_name, l.email, l.phone, l.site_type,
			l.electricity_bill, l.installation_power, l.zones_to_monitor, l.specific_needs,
			l.measurement_points, l.budget, l.questionnaire_data, l.recommended_scenarios,
			l.status, l.created_at, l.updated_at, prev.status`

	var lead Lead
	var status0, previous string
	var scenarios []byte
	err := r.pool.QueryRow(ctx, query, id, string(status)).Scan(
		&lead.ID, &lead.CompanyName, &lead.ContactName, &lead.Email, &lead.Phone, &lead.SiteType,
		&lead.ElectricityBill, &lead.InstallationPower, &lead.ZonesToMonitor, &lead.SpecificNeeds,
		&lead.MeasurementPoints, &lead.Budget, &lead.QuestionnaireData, &scenarios,
		&status0, &lead.CreatedAt, &lead.UpdatedAt, &previous,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, "", apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, "", fmt.Errorf("update lead status: %w", err)
	}
	if err := decodeRefs(scenarios, &lead.RecommendedScenarios); err != nil {
		return Lead{}, "", err
	}
	lead.Status = domain.Status(status0)
	return lead, domain.Status(previous), nil
}

// AddInteraction appends an interaction to an existing lead.
func (r *Repo) AddInteraction(ctx context.Context, leadID uuid.UUID, kind domain.InteractionType, note string) (Interaction, error) {
	query := `
		INSERT INTO lead_interactions (lead_id, interaction_type, notes)
		VALUES ($1, $2, $3)
		RETURNING ` + interactionColumns

	it, err := scanInteraction(r.pool.QueryRow(ctx, query, leadID, string(kind), note))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return Interaction{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Interaction{}, fmt.Errorf("add lead interaction: %w", err)
	}
	return it, nil
}

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	var status string
	var scenarios []byte
	if err := row.Scan(
		&lead.ID, &lead.CompanyName, &lead.ContactName, &lead.Email, &lead.Phone, &lead.SiteType,
		&lead.ElectricityBill, &lead.InstallationPower, &lead.ZonesToMonitor, &lead.SpecificNeeds,
		&lead.MeasurementPoints, &lead.Budget, &lead.QuestionnaireData, &scenarios,
		&status, &lead.CreatedAt, &lead.UpdatedAt,
	); err != nil {
		return Lead{}, err
	}
	if err := decodeRefs(scenarios, &lead.RecommendedScenarios); err != nil {
		return Lead{}, err
	}
	lead.Status = domain.Status(status)
	return lead, nil
}

func scanInteraction(row pgx.Row) (Interaction, error) {
	var it Interaction
	var kind string
	if err := row.Scan(&it.ID, &it.LeadID, &kind, &it.Notes, &it.CreatedAt); err != nil {
		return Interaction{}, err
	}
	it.Type = domain.InteractionType(kind)
	return it, nil
}

func decodeRefs(raw []byte, dst *[]ScenarioRef) error {
	*dst = []ScenarioRef{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode recommended scenarios: %w", err)
	}
	return nil
}

func nonNilRefs(refs []ScenarioRef) []ScenarioRef {
	if refs == nil {
		return []ScenarioRef{}
	}
	return refs
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
