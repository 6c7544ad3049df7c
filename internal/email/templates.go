package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"sakkanal_backend/platform/format"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"fcfa": format.FCFA,
	"join": strings.Join,
}

type baseEmailData struct {
	Title    string
	Heading  string
	CTALabel string
	CTAURL   string
}

type leadNotificationEmailData struct {
	baseEmailData
	Lead             LeadNotification
	InteractionLabel string
}

type contactMessageEmailData struct {
	baseEmailData
	Msg ContactMessage
}

var interactionLabels = map[string]string{
	"contact_request": "Demande de contact",
	"quote_request":   "Demande de devis",
	"pdf_download":    "Téléchargement du rapport",
}

func interactionLabel(kind string) string {
	if label, ok := interactionLabels[kind]; ok {
		return label
	}
	return kind
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").Funcs(templateFuncs).ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderLeadNotification(lead LeadNotification) (string, string, error) {
	name := lead.CompanyName
	if name == "" {
		name = lead.ContactName
	}
	html, err := renderEmailTemplate("lead_notification.html", leadNotificationEmailData{
		baseEmailData: baseEmailData{
			Title:    "Nouveau lead",
			Heading:  "Un nouveau lead vient d'arriver",
			CTALabel: "Ouvrir dans le tableau de bord",
			CTAURL:   lead.DashboardURL,
		},
		Lead:             lead,
		InteractionLabel: interactionLabel(lead.InteractionType),
	})
	return fmt.Sprintf(subjectLeadNotificationFmt, name), html, err
}

func renderContactMessage(msg ContactMessage) (string, string, error) {
	html, err := renderEmailTemplate("contact_message.html", contactMessageEmailData{
		baseEmailData: baseEmailData{
			Title:   "Message de contact",
			Heading: "Nouveau message depuis le formulaire de contact",
		},
		Msg: msg,
	})
	return fmt.Sprintf(subjectContactMessageFmt, msg.Subject), html, err
}
