// Package email sends the sales team's notification e-mails.
package email

import (
	"context"
	"fmt"

	"sakkanal_backend/platform/config"
)

// LeadNotification tells the sales team a lead came in.
type LeadNotification struct {
	LeadID          string   `json:"leadId"`
	CompanyName     string   `json:"companyName"`
	ContactName     string   `json:"contactName"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	SiteType        string   `json:"siteType"`
	MonthlyBill     *float64 `json:"monthlyBill,omitempty"`
	Budget          *float64 `json:"budget,omitempty"`
	InteractionType string   `json:"interactionType"`
	Scenarios       []string `json:"scenarios"`
	DashboardURL    string   `json:"dashboardUrl"`
}

// ContactMessage is a contact form submission forwarded to sales.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type Sender interface {
	SendLeadNotification(ctx context.Context, toEmail string, lead LeadNotification) error
	SendContactMessage(ctx context.Context, toEmail string, msg ContactMessage) error
}

// NoopSender drops every message. Used when e-mail is disabled.
type NoopSender struct{}

func (NoopSender) SendLeadNotification(context.Context, string, LeadNotification) error { return nil }
func (NoopSender) SendContactMessage(context.Context, string, ContactMessage) error     { return nil }

// NewSender returns an SMTP sender, or NoopSender when e-mail is disabled.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	if cfg.GetSMTPHost() == "" || cfg.GetEmailFromAddress() == "" {
		return nil, fmt.Errorf("smtp host and from address are required when email is enabled")
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
