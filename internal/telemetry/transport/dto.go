package transport

import "github.com/google/uuid"

// Visitor and session ids may also arrive in these headers.
const (
	HeaderVisitorID = "X-Visitor-ID"
	HeaderSessionID = "X-Session-ID"
)

type PageVisitRequest struct {
	VisitorID string `json:"visitorId" validate:"omitempty,max=100"`
	PagePath  string `json:"pagePath" validate:"required,max=500"`
	UserAgent string `json:"userAgent" validate:"max=500"`
	Referrer  string `json:"referrer" validate:"max=2000"`
}

type NavigationRequest struct {
	VisitorID string `json:"visitorId" validate:"required,max=100"`
}

type CustomEventRequest struct {
	EventName  string         `json:"eventName" validate:"required,max=100"`
	VisitorID  string         `json:"visitorId" validate:"omitempty,max=100"`
	PagePath   string         `json:"pagePath" validate:"max=500"`
	Properties map[string]any `json:"properties"`
}

type AppEventRequest struct {
	EventName string         `json:"eventName" validate:"required,max=100"`
	Category  string         `json:"category" validate:"max=50"`
	LeadID    *uuid.UUID     `json:"leadId"`
	SessionID string         `json:"sessionId" validate:"omitempty,max=100"`
	Metadata  map[string]any `json:"metadata"`
}

type PageViewRequest struct {
	PagePath  string `json:"pagePath" validate:"required,max=500"`
	SessionID string `json:"sessionId" validate:"omitempty,max=100"`
	Referrer  string `json:"referrer" validate:"max=2000"`
}

// TrackResponse is returned with 202 by every telemetry endpoint.
type TrackResponse struct {
	Recorded       bool   `json:"recorded"`
	AlreadyTracked bool   `json:"alreadyTracked,omitempty"`
	VisitorID      string `json:"visitorId,omitempty"`
	SessionID      string `json:"sessionId,omitempty"`
}
