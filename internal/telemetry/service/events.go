package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sakkanal_backend/internal/events"
	"sakkanal_backend/internal/telemetry/repository"
	"sakkanal_backend/platform/logger"

	"github.com/google/uuid"
)

const defaultCategory = "general"

var errNotRecorded = errors.New("telemetry event not recorded")

// App event names and categories written by the typed helpers.
const (
	EventLeadStatusChange = "lead_status_change"
	EventPDFDownload      = "pdf_download"
	EventFeatureUsed      = "feature_used"

	CategoryLeadAction = "lead_action"
	CategoryConversion = "conversion"
	CategoryEngagement = "engagement"
	CategoryProduct    = "product"
)

// CustomEventInput is a visitor event with free-form properties.
type CustomEventInput struct {
	EventName  string
	VisitorID  string
	PagePath   string
	Properties map[string]any
}

// AppEventInput is an application event. SessionID is generated when empty.
type AppEventInput struct {
	EventName string
	Category  string
	LeadID    *uuid.UUID
	UserID    *uuid.UUID
	SessionID string
	Metadata  map[string]any
}

// PageViewInput is a page seen during a session.
type PageViewInput struct {
	PagePath  string
	SessionID string
	UserID    *uuid.UUID
	Referrer  string
}

// EventResult carries the ids the client should reuse on its next call.
type EventResult struct {
	VisitorID string
	SessionID string
	Recorded  bool
}

// Events records custom events, app events and session page views.
// Storage failures are logged and reported as not recorded.
type Events struct {
	repo repository.Repository
	log  *logger.Logger
	now  func() time.Time
}

func NewEvents(repo repository.Repository, log *logger.Logger) *Events {
	return &Events{repo: repo, log: log, now: time.Now}
}

func (s *Events) TrackCustomEvent(ctx context.Context, in CustomEventInput) EventResult {
	if in.VisitorID == "" {
		in.VisitorID = NewVisitorID(s.now())
	}
	result := EventResult{VisitorID: in.VisitorID}

	props := in.Properties
	if props == nil {
		props = map[string]any{}
	}
	raw, err := json.Marshal(props)
	if err != nil {
		s.log.TelemetryFailure("custom_event", in.VisitorID, err)
		return result
	}

	event := repository.CustomEvent{
		EventName:  in.EventName,
		VisitorID:  in.VisitorID,
		Properties: raw,
		PagePath:   optional(in.PagePath),
	}
	if err := s.repo.InsertCustomEvent(ctx, event); err != nil {
		s.log.TelemetryFailure("custom_event", in.VisitorID, err)
		return result
	}
	result.Recorded = true
	return result
}

// TrackEvent stores an app event. The metadata is enriched with the session
// id and an RFC 3339 timestamp.
func (s *Events) TrackEvent(ctx context.Context, in AppEventInput) EventResult {
	now := s.now()
	if in.SessionID == "" {
		in.SessionID = NewSessionID(now)
	}
	if in.Category == "" {
		in.Category = defaultCategory
	}
	result := EventResult{SessionID: in.SessionID}

	metadata := make(map[string]any, len(in.Metadata)+2)
	for k, v := range in.Metadata {
		metadata[k] = v
	}
	metadata["session_id"] = in.SessionID
	metadata["timestamp"] = now.UTC().Format(time.RFC3339)

	event := repository.AppEvent{
		EventName: in.EventName,
		Category:  in.Category,
		LeadID:    in.LeadID,
		UserID:    in.UserID,
		Metadata:  metadata,
	}
	if err := s.repo.InsertAppEvent(ctx, event); err != nil {
		s.log.TelemetryFailure("app_event", in.SessionID, err)
		return result
	}
	result.Recorded = true
	return result
}

func (s *Events) TrackPageView(ctx context.Context, in PageViewInput) EventResult {
	if in.SessionID == "" {
		in.SessionID = NewSessionID(s.now())
	}
	result := EventResult{SessionID: in.SessionID}

	view := repository.PageView{
		PagePath:  in.PagePath,
		UserID:    in.UserID,
		SessionID: in.SessionID,
		Referrer:  optional(in.Referrer),
	}
	if err := s.repo.InsertPageView(ctx, view); err != nil {
		s.log.TelemetryFailure("page_view", in.SessionID, err)
		return result
	}
	result.Recorded = true
	return result
}

// TrackLeadAction records an admin action on a lead. It returns an error so
// the leads module can report whether the action was stored.
func (s *Events) TrackLeadAction(ctx context.Context, action string, leadID, userID uuid.UUID, metadata map[string]any) error {
	in := AppEventInput{
		EventName: action,
		Category:  CategoryLeadAction,
		LeadID:    &leadID,
		Metadata:  metadata,
	}
	if userID != uuid.Nil {
		in.UserID = &userID
	}
	if !s.TrackEvent(ctx, in).Recorded {
		return errNotRecorded
	}
	return nil
}

func (s *Events) TrackConversion(ctx context.Context, leadID uuid.UUID, from, to string, userID *uuid.UUID) EventResult {
	return s.TrackEvent(ctx, AppEventInput{
		EventName: EventLeadStatusChange,
		Category:  CategoryConversion,
		LeadID:    &leadID,
		UserID:    userID,
		Metadata:  map[string]any{"from_status": from, "to_status": to},
	})
}

func (s *Events) TrackPDFDownload(ctx context.Context, leadID *uuid.UUID, pdfType, sessionID string) EventResult {
	return s.TrackEvent(ctx, AppEventInput{
		EventName: EventPDFDownload,
		Category:  CategoryEngagement,
		LeadID:    leadID,
		SessionID: sessionID,
		Metadata:  map[string]any{"pdf_type": pdfType},
	})
}

func (s *Events) TrackFeatureUsage(ctx context.Context, feature string, userID *uuid.UUID, metadata map[string]any) EventResult {
	enriched := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		enriched[k] = v
	}
	enriched["feature_name"] = feature
	return s.TrackEvent(ctx, AppEventInput{
		EventName: EventFeatureUsed,
		Category:  CategoryProduct,
		UserID:    userID,
		Metadata:  enriched,
	})
}

// HandleLeadStatusChanged records a conversion event for every status change.
func (s *Events) HandleLeadStatusChanged(ctx context.Context, e events.LeadStatusChanged) error {
	var actor *uuid.UUID
	if e.ChangedBy != uuid.Nil {
		actor = &e.ChangedBy
	}
	s.TrackConversion(ctx, e.LeadID, e.OldStatus, e.NewStatus, actor)
	return nil
}

// HandleReportDownloaded records a pdf download engagement event.
func (s *Events) HandleReportDownloaded(ctx context.Context, e events.ReportDownloaded) error {
	var lead *uuid.UUID
	if e.LeadID != uuid.Nil {
		lead = &e.LeadID
	}
	s.TrackPDFDownload(ctx, lead, e.Format, e.SessionID)
	return nil
}
