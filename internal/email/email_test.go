package email

import (
	"context"
	"strings"
	"testing"
)

type stubConfig struct {
	enabled bool
	host    string
	from    string
}

func (c stubConfig) GetEmailEnabled() bool       { return c.enabled }
func (c stubConfig) GetSMTPHost() string         { return c.host }
func (c stubConfig) GetSMTPPort() int            { return 587 }
func (c stubConfig) GetSMTPUsername() string     { return "" }
func (c stubConfig) GetSMTPPassword() string     { return "" }
func (c stubConfig) GetEmailFromName() string    { return "Sakkanal" }
func (c stubConfig) GetEmailFromAddress() string { return c.from }
func (c stubConfig) GetSalesNotifyEmail() string { return "sales@sakkanal.sn" }

func TestNewSender_DisabledReturnsNoop(t *testing.T) {
	sender, err := NewSender(stubConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(NoopSender); !ok {
		t.Fatalf("expected NoopSender, got %T", sender)
	}
	if err := sender.SendContactMessage(context.Background(), "x@y.z", ContactMessage{}); err != nil {
		t.Fatalf("noop sender must not fail: %v", err)
	}
}

func TestNewSender_EnabledRequiresHost(t *testing.T) {
	if _, err := NewSender(stubConfig{enabled: true, from: "noreply@sakkanal.sn"}); err == nil {
		t.Fatal("expected error without SMTP host")
	}

	sender, err := NewSender(stubConfig{enabled: true, host: "smtp.local", from: "noreply@sakkanal.sn"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(*SMTPSender); !ok {
		t.Fatalf("expected *SMTPSender, got %T", sender)
	}
}

func TestRenderLeadNotification(t *testing.T) {
	bill := 450000.0
	subject, html, err := renderLeadNotification(LeadNotification{
		CompanyName:     "Dakar Textiles",
		ContactName:     "Awa Ndiaye",
		Email:           "awa@dakartextiles.sn",
		Phone:           "+221771234567",
		SiteType:        "usine",
		MonthlyBill:     &bill,
		InteractionType: "quote_request",
		Scenarios:       []string{"Solaire 50 kWc"},
		DashboardURL:    "https://app.sakkanal.sn/leads/1",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if subject != "Nouveau lead : Dakar Textiles" {
		t.Fatalf("unexpected subject %q", subject)
	}
	for _, want := range []string{"Demande de devis", "Awa Ndiaye", "Solaire 50 kWc", "FCFA", "https://app.sakkanal.sn/leads/1"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
	if strings.Contains(html, "Budget") {
		t.Fatal("budget row must be omitted when no budget is set")
	}
}

func TestRenderLeadNotification_FallsBackToContactName(t *testing.T) {
	subject, _, err := renderLeadNotification(LeadNotification{ContactName: "Moussa Diop", InteractionType: "custom"})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if subject != "Nouveau lead : Moussa Diop" {
		t.Fatalf("unexpected subject %q", subject)
	}
}

func TestRenderContactMessage_EscapesInput(t *testing.T) {
	subject, html, err := renderContactMessage(ContactMessage{
		Name:    "Fatou",
		Email:   "fatou@example.sn",
		Subject: "Partenariat",
		Message: "<script>alert(1)</script>",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if subject != "Message de contact : Partenariat" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("message body must be escaped")
	}
	if strings.Contains(html, "Entreprise") {
		t.Fatal("company row must be omitted when empty")
	}
}
