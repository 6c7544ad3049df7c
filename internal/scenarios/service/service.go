package service

import (
	"context"
	"errors"

	"sakkanal_backend/internal/scenarios/matching"
	"sakkanal_backend/internal/scenarios/repository"
	"sakkanal_backend/internal/scenarios/transport"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides catalog reads and the matching flow.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new scenarios service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns the whole catalog in tie-break order.
func (s *Service) List(ctx context.Context) (transport.ScenarioListResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return transport.ScenarioListResponse{}, err
	}
	out := make([]transport.ScenarioResponse, 0, len(items))
	for _, sc := range items {
		out = append(out, transport.ToScenarioResponse(sc))
	}
	return transport.ScenarioListResponse{Items: out}, nil
}

// Get returns a single scenario for other modules (lead capture, reports).
func (s *Service) Get(ctx context.Context, id uuid.UUID) (matching.Scenario, error) {
	return s.repo.GetByID(ctx, id)
}

// Match ranks the catalog against answers and adds the savings projection
// of every returned scenario.
func (s *Service) Match(ctx context.Context, answers matching.Answers) (transport.MatchResponse, error) {
	catalog, err := s.repo.List(ctx)
	if err != nil {
		return transport.MatchResponse{}, err
	}

	ranked := matching.Match(catalog, answers)
	results := make([]transport.MatchResult, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, transport.MatchResult{
			Scenario:    transport.ToScenarioResponse(r.Scenario),
			Score:       r.Score,
			MatchReason: r.Reason(),
			Savings:     matching.Project(answers.ElectricityBill, r.Scenario),
		})
	}

	s.log.Debug("scenarios matched", "siteType", answers.SiteType, "candidates", len(catalog), "returned", len(results))
	return transport.MatchResponse{Results: results}, nil
}

// ValidateStep reports whether the wizard may leave step. An unknown step is
// a bad request; a blocked step is a normal, successful answer.
func (s *Service) ValidateStep(step int, answers matching.Answers) (transport.StepValidationResponse, error) {
	err := matching.ValidateStep(step, answers)
	if errors.Is(err, matching.ErrUnknownStep) {
		return transport.StepValidationResponse{}, apperr.BadRequest(err.Error())
	}

	resp := transport.StepValidationResponse{Step: step, Valid: err == nil}
	var stepErr *matching.StepError
	if errors.As(err, &stepErr) {
		resp.Blocked = stepErr.Step
		resp.Message = stepErr.Err.Error()
	}
	return resp, nil
}
