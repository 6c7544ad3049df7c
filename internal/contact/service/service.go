// Package service handles contact form submissions. Nothing is stored; the
// request is handed to the notification subscribers through the event bus.
package service

import (
	"context"

	"sakkanal_backend/internal/contact/transport"
	"sakkanal_backend/internal/events"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/phone"
	"sakkanal_backend/platform/sanitize"
)

type Service struct {
	eventBus events.Bus
	region   string
	log      *logger.Logger
}

func New(eventBus events.Bus, cfg config.LeadCaptureConfig, log *logger.Logger) *Service {
	return &Service{eventBus: eventBus, region: cfg.GetPhoneDefaultRegion(), log: log}
}

func (s *Service) Submit(ctx context.Context, req transport.ContactRequest) (transport.ContactResponse, error) {
	event := events.ContactRequested{
		BaseEvent: events.NewBaseEvent(),
		Name:      sanitize.Line(req.Name),
		Email:     sanitize.Line(req.Email),
		Company:   sanitize.Line(req.Company),
		Subject:   sanitize.Line(req.Subject),
		Message:   sanitize.Text(req.Message),
	}
	if req.Phone != "" {
		event.Phone = phone.NormalizeE164(sanitize.Line(req.Phone), s.region)
	}
	if event.Name == "" || event.Message == "" {
		return transport.ContactResponse{}, apperr.Validation("name and message must contain text")
	}

	s.eventBus.Publish(ctx, event)
	s.log.Info("contact request received", "subject", event.Subject)
	return transport.ContactResponse{Received: true}, nil
}
