package service

import (
	"context"
	"strings"

	"sakkanal_backend/internal/events"
	"sakkanal_backend/internal/leads/domain"
	"sakkanal_backend/internal/leads/repository"
	"sakkanal_backend/internal/leads/transport"
	"sakkanal_backend/platform/apperr"

	"github.com/google/uuid"
)

// List returns leads newest first with their interactions and per-status counts.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	var params repository.ListParams
	if req.Status != "" {
		status := domain.Status(req.Status)
		if !status.Valid() {
			return transport.LeadListResponse{}, apperr.Validation("invalid status filter")
		}
		params.Status = &status
	}

	leads, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	ids := make([]uuid.UUID, 0, len(leads))
	for _, l := range leads {
		ids = append(ids, l.ID)
	}
	interactions, err := s.repo.ListInteractions(ctx, ids)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, l := range leads {
		items = append(items, toLeadResponse(l, interactions[l.ID]))
	}
	return transport.LeadListResponse{Items: items, Stats: countStatuses(leads)}, nil
}

// Get returns one lead with its interactions.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	interactions, err := s.repo.ListInteractions(ctx, []uuid.UUID{id})
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead, interactions[id]), nil
}

// UpdateStatus moves a lead to any status. Statuses are unordered; the
// change is always published so conversions are tracked.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req transport.UpdateLeadStatusRequest) (transport.LeadResponse, error) {
	status := domain.Status(req.Status)
	if !status.Valid() {
		return transport.LeadResponse{}, apperr.Validation("invalid status")
	}

	lead, previous, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.eventBus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		OldStatus: string(previous),
		NewStatus: string(lead.Status),
		ChangedBy: actorID,
	})
	s.log.Info("lead status updated", "leadId", lead.ID, "from", previous, "to", lead.Status)

	interactions, err := s.repo.ListInteractions(ctx, []uuid.UUID{id})
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead, interactions[id]), nil
}

// RecordAction tracks an admin click on a lead. The lead must exist.
func (s *Service) RecordAction(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req transport.LeadActionRequest) (transport.LeadActionResponse, error) {
	action := domain.AdminAction(req.Action)
	switch action {
	case domain.ActionViewDetails, domain.ActionClickEmail, domain.ActionClickPhone:
	default:
		return transport.LeadActionResponse{}, apperr.Validation("unsupported lead action")
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return transport.LeadActionResponse{}, err
	}
	if s.tracker == nil {
		return transport.LeadActionResponse{Recorded: false}, nil
	}
	if err := s.tracker.TrackLeadAction(ctx, string(action), id, actorID, req.Metadata); err != nil {
		s.log.Warn("lead action not recorded", "leadId", id, "action", action, "error", err)
		return transport.LeadActionResponse{Recorded: false}, nil
	}
	return transport.LeadActionResponse{Recorded: true}, nil
}

// HandleReportDownloaded appends a pdf_download interaction to the lead named
// by the event. The requester's email must match the lead's, otherwise any
// caller holding a lead id could raise its engagement score.
func (s *Service) HandleReportDownloaded(ctx context.Context, e events.ReportDownloaded) error {
	if e.LeadID == uuid.Nil {
		return nil
	}
	lead, err := s.repo.GetByID(ctx, e.LeadID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.Warn("report download for unknown lead ignored", "leadId", e.LeadID)
			return nil
		}
		return err
	}
	if e.Email == "" || !strings.EqualFold(strings.TrimSpace(lead.Email), strings.TrimSpace(e.Email)) {
		s.log.Warn("report download ignored, email does not match lead", "leadId", e.LeadID)
		return nil
	}

	note := "Rapport " + e.FileName
	if _, err := s.repo.AddInteraction(ctx, e.LeadID, domain.InteractionPDFDownload, note); err != nil {
		s.log.Error("report download interaction not recorded", "leadId", e.LeadID, "error", err)
		return err
	}
	return nil
}

func countStatuses(leads []repository.Lead) transport.LeadStats {
	stats := transport.LeadStats{Total: len(leads)}
	for _, l := range leads {
		switch l.Status {
		case domain.StatusNew:
			stats.New++
		case domain.StatusContacted:
			stats.Contacted++
		case domain.StatusQualified:
			stats.Qualified++
		case domain.StatusConverted:
			stats.Converted++
		}
	}
	return stats
}

func toLeadResponse(l repository.Lead, interactions []repository.Interaction) transport.LeadResponse {
	refs := make([]transport.ScenarioRef, 0, len(l.RecommendedScenarios))
	for _, r := range l.RecommendedScenarios {
		refs = append(refs, transport.ScenarioRef{ID: r.ID, Name: r.Name, Category: r.Category})
	}
	items := make([]transport.InteractionResponse, 0, len(interactions))
	for _, i := range interactions {
		items = append(items, transport.InteractionResponse{
			ID:              i.ID,
			InteractionType: string(i.Type),
			Notes:           i.Notes,
			CreatedAt:       i.CreatedAt,
		})
	}
	return transport.LeadResponse{
		ID:                   l.ID,
		CompanyName:          l.CompanyName,
		ContactName:          l.ContactName,
		Email:                l.Email,
		Phone:                l.Phone,
		SiteType:             l.SiteType,
		ElectricityBill:      l.ElectricityBill,
		InstallationPower:    l.InstallationPower,
		ZonesToMonitor:       l.ZonesToMonitor,
		SpecificNeeds:        l.SpecificNeeds,
		MeasurementPoints:    l.MeasurementPoints,
		Budget:               l.Budget,
		QuestionnaireData:    l.QuestionnaireData,
		RecommendedScenarios: refs,
		Status:               string(l.Status),
		Interactions:         items,
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
}
