// Package notification reacts to lead and contact events: it pushes them to
// connected admin dashboards over SSE and notifies the sales team by e-mail.
// Domain modules publish events and never talk to e-mail or SSE directly.
package notification

import (
	"context"
	"strings"

	"sakkanal_backend/internal/email"
	"sakkanal_backend/internal/events"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/internal/notification/sse"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Module implements http.Module and events.Handler.
type Module struct {
	dispatcher Dispatcher
	sse        *sse.Service
	baseURL    string
	log        *logger.Logger
}

func New(dispatcher Dispatcher, hub *sse.Service, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		dispatcher: dispatcher,
		sse:        hub,
		baseURL:    strings.TrimRight(cfg.GetAppBaseURL(), "/"),
		log:        log,
	}
}

func (m *Module) Name() string { return "notification" }

// RegisterRoutes exposes the admin live feed.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/leads/stream", m.sse.Handler(identityUserID))
}

// SSE returns the live feed hub.
func (m *Module) SSE() *sse.Service { return m.sse }

func identityUserID(c *gin.Context) (uuid.UUID, bool) {
	id := httpkit.GetIdentity(c)
	if !id.IsAuthenticated() {
		return uuid.Nil, false
	}
	return id.UserID(), true
}

// RegisterHandlers subscribes to the events the sales team cares about.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), m)
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), m)
	bus.Subscribe(events.ContactRequested{}.EventName(), m)
	bus.Subscribe(events.ReportDownloaded{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCaptured:
		return m.handleLeadCaptured(ctx, e)
	case events.LeadStatusChanged:
		m.handleLeadStatusChanged(e)
		return nil
	case events.ContactRequested:
		return m.handleContactRequested(ctx, e)
	case events.ReportDownloaded:
		m.handleReportDownloaded(e)
		return nil
	default:
		return nil
	}
}

func (m *Module) handleLeadCaptured(ctx context.Context, e events.LeadCaptured) error {
	names := make([]string, 0, len(e.Scenarios))
	for _, s := range e.Scenarios {
		names = append(names, s.Name)
	}

	m.sse.Broadcast(sse.Event{
		Type:    sse.EventLeadCaptured,
		ID:      e.ID,
		LeadID:  e.LeadID,
		Message: displayName(e.CompanyName, e.ContactName),
		Data: map[string]any{
			"interactionType": e.InteractionType,
			"siteType":        e.SiteType,
			"scenarios":       names,
		},
	})

	err := m.dispatcher.NotifyLead(ctx, email.LeadNotification{
		LeadID:          e.LeadID.String(),
		CompanyName:     e.CompanyName,
		ContactName:     e.ContactName,
		Email:           e.Email,
		Phone:           e.Phone,
		SiteType:        e.SiteType,
		MonthlyBill:     e.MonthlyBill,
		Budget:          e.Budget,
		InteractionType: e.InteractionType,
		Scenarios:       names,
		DashboardURL:    m.leadURL(e.LeadID),
	})
	if err != nil {
		m.log.Error("failed to dispatch lead notification", "leadId", e.LeadID, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleLeadStatusChanged(e events.LeadStatusChanged) {
	m.sse.Broadcast(sse.Event{
		Type:   sse.EventLeadStatusChanged,
		ID:     e.ID,
		LeadID: e.LeadID,
		Data: map[string]any{
			"oldStatus": e.OldStatus,
			"newStatus": e.NewStatus,
			"changedBy": e.ChangedBy,
		},
	})
}

func (m *Module) handleContactRequested(ctx context.Context, e events.ContactRequested) error {
	m.sse.Broadcast(sse.Event{
		Type:    sse.EventContactRequested,
		ID:      e.ID,
		Message: displayName(e.Company, e.Name),
		Data:    map[string]any{"subject": e.Subject, "email": e.Email},
	})

	err := m.dispatcher.NotifyContact(ctx, email.ContactMessage{
		Name:    e.Name,
		Email:   e.Email,
		Phone:   e.Phone,
		Company: e.Company,
		Subject: e.Subject,
		Message: e.Message,
	})
	if err != nil {
		m.log.Error("failed to dispatch contact message", "email", e.Email, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleReportDownloaded(e events.ReportDownloaded) {
	m.sse.Broadcast(sse.Event{
		Type:   sse.EventReportDownloaded,
		ID:     e.ID,
		LeadID: e.LeadID,
		Data:   map[string]any{"format": e.Format, "fileName": e.FileName},
	})
}

func (m *Module) leadURL(id uuid.UUID) string {
	if m.baseURL == "" {
		return ""
	}
	return m.baseURL + "/admin/leads/" + id.String()
}

func displayName(company, person string) string {
	if company != "" {
		return company
	}
	return person
}

var (
	_ apphttp.Module = (*Module)(nil)
	_ events.Handler = (*Module)(nil)
)
