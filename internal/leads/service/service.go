package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sakkanal_backend/internal/events"
	"sakkanal_backend/internal/leads/domain"
	"sakkanal_backend/internal/leads/repository"
	"sakkanal_backend/internal/leads/transport"
	"sakkanal_backend/internal/scenarios/matching"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/observability"
	"sakkanal_backend/platform/phone"
	"sakkanal_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ScenarioReader resolves the scenario a lead was captured for.
type ScenarioReader interface {
	Get(ctx context.Context, id uuid.UUID) (matching.Scenario, error)
}

// ActionTracker records admin clicks on a lead as telemetry events.
type ActionTracker interface {
	TrackLeadAction(ctx context.Context, action string, leadID, userID uuid.UUID, metadata map[string]any) error
}

// Service coordinates lead capture and admin lead management.
type Service struct {
	repo      repository.Repository
	scenarios ScenarioReader
	tracker   ActionTracker
	eventBus  events.Bus
	metrics   *observability.Metrics
	region    string
	log       *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, scenarios ScenarioReader, eventBus events.Bus, metrics *observability.Metrics, cfg config.LeadCaptureConfig, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		scenarios: scenarios,
		eventBus:  eventBus,
		metrics:   metrics,
		region:    cfg.GetPhoneDefaultRegion(),
		log:       log,
	}
}

// SetActionTracker injects the telemetry tracker after construction.
func (s *Service) SetActionTracker(tracker ActionTracker) {
	s.tracker = tracker
}

// Capture persists a lead with its opening interaction in one transaction and
// publishes LeadCaptured once both rows are committed.
func (s *Service) Capture(ctx context.Context, req transport.CaptureLeadRequest) (transport.CaptureLeadResponse, error) {
	if err := matching.ValidateComplete(req.Answers); err != nil {
		verr := apperr.Validation(err.Error())
		var stepErr *matching.StepError
		if errors.As(err, &stepErr) {
			verr = verr.WithDetails(map[string]int{"blockedAtStep": stepErr.Step})
		}
		return transport.CaptureLeadResponse{}, verr
	}

	kind := domain.InteractionType(req.InteractionType)
	if kind == "" {
		kind = domain.InteractionContactRequest
	}
	if !kind.CaptureInteraction() {
		return transport.CaptureLeadResponse{}, apperr.Validation("unsupported interaction type")
	}

	scenario, err := s.scenarios.Get(ctx, req.ScenarioID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.CaptureLeadResponse{}, apperr.Validation("unknown scenario")
		}
		return transport.CaptureLeadResponse{}, err
	}

	snapshot, err := json.Marshal(req.Answers)
	if err != nil {
		return transport.CaptureLeadResponse{}, fmt.Errorf("encode questionnaire: %w", err)
	}

	ref := repository.ScenarioRef{ID: scenario.ID, Name: scenario.Name, Category: string(scenario.Category)}
	params := repository.CreateLeadParams{
		CompanyName:          sanitize.Line(req.Contact.CompanyName),
		ContactName:          sanitize.Line(req.Contact.ContactName),
		Email:                sanitize.Line(req.Contact.Email),
		Phone:                phone.NormalizeE164(req.Contact.Phone, s.region),
		SiteType:             sanitize.Line(req.Answers.SiteType),
		ElectricityBill:      req.Answers.ElectricityBill,
		InstallationPower:    positive(req.Answers.InstallationPower),
		ZonesToMonitor:       sanitize.Lines(req.Answers.ZonesToMonitor),
		SpecificNeeds:        sanitize.Lines(req.Answers.SpecificNeeds),
		MeasurementPoints:    req.Answers.MeasurementPoints,
		Budget:               req.Answers.Budget,
		QuestionnaireData:    snapshot,
		RecommendedScenarios: []repository.ScenarioRef{ref},
		InteractionType:      kind,
		InteractionNote:      "Demande pour " + scenario.Name,
	}
	if params.CompanyName == "" || params.ContactName == "" {
		return transport.CaptureLeadResponse{}, apperr.Validation("contact name and company are required")
	}

	lead, interaction, err := s.repo.CreateWithInteraction(ctx, params)
	if err != nil {
		return transport.CaptureLeadResponse{}, err
	}

	s.metrics.LeadCaptured(string(kind))
	s.eventBus.Publish(ctx, events.LeadCaptured{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          lead.ID,
		CompanyName:     lead.CompanyName,
		ContactName:     lead.ContactName,
		Email:           lead.Email,
		Phone:           lead.Phone,
		SiteType:        lead.SiteType,
		MonthlyBill:     &lead.ElectricityBill,
		Budget:          lead.Budget,
		InteractionType: string(kind),
		Scenarios:       []events.ScenarioRef{{ID: ref.ID, Name: ref.Name, Category: ref.Category}},
	})

	s.log.Info("lead captured", "leadId", lead.ID, "scenario", scenario.Name, "interactionType", kind)
	return transport.CaptureLeadResponse{
		LeadID:        lead.ID,
		InteractionID: interaction.ID,
		Status:        string(lead.Status),
	}, nil
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}
