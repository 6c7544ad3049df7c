package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"sakkanal_backend/internal/scenarios/matching"
	"sakkanal_backend/internal/scenarios/repository"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	items []matching.Scenario
	err   error
}

func (f *fakeRepo) List(context.Context) ([]matching.Scenario, error) { return f.items, f.err }

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (matching.Scenario, error) {
	for _, sc := range f.items {
		if sc.ID == id {
			return sc, nil
		}
	}
	return matching.Scenario{}, apperr.NotFound("scenario not found")
}

func (f *fakeRepo) Upsert(context.Context, repository.UpsertParams) (matching.Scenario, error) {
	return matching.Scenario{}, errors.New("not used")
}

func newService(repo repository.Repository) *Service {
	return New(repo, logger.NewWithWriter("test", io.Discard))
}

func TestMatch_AddsSavingsProjection(t *testing.T) {
	maxBudget := 10_000_000.0
	repo := &fakeRepo{items: []matching.Scenario{{
		ID:                uuid.New(),
		Name:              "Pack Bureau Standard",
		Category:          matching.CategoryStandard,
		SiteTypes:         []string{"bureau"},
		MinBudget:         1_000_000,
		MaxBudget:         &maxBudget,
		EstimatedSavings:  25,
		EquipmentLifespan: 5,
	}}}
	budget := 2_000_000.0

	resp, err := newService(repo).Match(context.Background(), matching.Answers{
		SiteType:        "bureau",
		ElectricityBill: 300_000,
		Budget:          &budget,
		SpecificNeeds:   []string{matching.NeedRemoteControl},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(resp.Results))
	}
	got := resp.Results[0]
	if got.Score != 85 || got.Savings.Lifetime != 4_500_000 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestMatch_PropagatesRepositoryError(t *testing.T) {
	_, err := newService(&fakeRepo{err: errors.New("db down")}).Match(context.Background(), matching.Answers{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestValidateStep(t *testing.T) {
	svc := newService(&fakeRepo{})

	resp, err := svc.ValidateStep(2, matching.Answers{SiteType: "bureau"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Valid || resp.Blocked != 2 {
		t.Fatalf("expected block at step 2, got %+v", resp)
	}

	if _, err := svc.ValidateStep(9, matching.Answers{}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for unknown step, got %v", err)
	}
}
