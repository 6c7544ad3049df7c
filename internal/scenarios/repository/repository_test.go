package repository

import (
	"context"
	"slices"
	"testing"

	"sakkanal_backend/internal/scenarios/matching"
	"sakkanal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

var scenarioCols = []string{
	"id", "name", "category", "site_types", "min_budget", "max_budget",
	"estimated_savings", "equipment_lifespan", "description",
}

func ptr[T any](v T) *T { return &v }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestList_OrdersByCategoryThenCreation(t *testing.T) {
	mock := newMock(t)

	ecoID, premID := uuid.New(), uuid.New()
	mock.ExpectQuery(`FROM scenarios\s+ORDER BY category ASC, created_at ASC`).
		WillReturnRows(pgxmock.NewRows(scenarioCols).
			AddRow(ecoID, "Essentiel", "economique", []string{"commerce"}, 0.0, ptr(2_000_000.0), 15.0, 5, "Compteurs de base").
			AddRow(premID, "Intégral", "premium", []string{"usine", "data_center"}, 10_000_000.0, (*float64)(nil), 35.0, 10, "IA prédictive"))

	items, err := New(mock).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(items))
	}
	if items[0].Category != matching.CategoryEconomique {
		t.Fatalf("expected economique first, got %q", items[0].Category)
	}
	if items[0].MaxBudget == nil || *items[0].MaxBudget != 2_000_000 {
		t.Fatalf("unexpected max budget %v", items[0].MaxBudget)
	}
	if items[1].MaxBudget != nil {
		t.Fatalf("expected open-ended budget, got %v", *items[1].MaxBudget)
	}
	if !slices.Equal(items[1].SiteTypes, []string{"usine", "data_center"}) {
		t.Fatalf("unexpected site types %v", items[1].SiteTypes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	mock := newMock(t)

	id := uuid.New()
	mock.ExpectQuery(`FROM scenarios WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := New(mock).GetByID(context.Background(), id)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpsert_ConflictOnName(t *testing.T) {
	mock := newMock(t)

	id := uuid.New()
	params := UpsertParams{
		Name:              "Pack Bureau",
		Category:          matching.CategoryStandard,
		SiteTypes:         []string{"bureau"},
		MinBudget:         1_000_000,
		MaxBudget:         ptr(10_000_000.0),
		EstimatedSavings:  25,
		EquipmentLifespan: 5,
		Description:       "Suivi temps réel",
	}
	mock.ExpectQuery(`INSERT INTO scenarios .* ON CONFLICT \(name\) DO UPDATE`).
		WithArgs(params.Name, "standard", params.SiteTypes, params.MinBudget, params.MaxBudget,
			params.EstimatedSavings, params.EquipmentLifespan, params.Description).
		WillReturnRows(pgxmock.NewRows(scenarioCols).
			AddRow(id, params.Name, "standard", params.SiteTypes, params.MinBudget, params.MaxBudget,
				params.EstimatedSavings, params.EquipmentLifespan, params.Description))

	sc, err := New(mock).Upsert(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.ID != id || sc.Category != matching.CategoryStandard {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
