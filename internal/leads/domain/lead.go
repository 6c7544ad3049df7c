// Package domain holds the lead vocabulary shared by the leads layers.
package domain

// Status is the pipeline position of a lead. Any status may follow any other;
// the order below is only the display order of the funnel.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
)

// FunnelOrder is the fixed display order of the statuses.
var FunnelOrder = []Status{StatusNew, StatusContacted, StatusQualified, StatusConverted}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted:
		return true
	}
	return false
}

// InteractionType classifies a lead interaction.
type InteractionType string

const (
	InteractionPDFDownload    InteractionType = "pdf_download"
	InteractionContactRequest InteractionType = "contact_request"
	InteractionQuoteRequest   InteractionType = "quote_request"
	InteractionPhoneCall      InteractionType = "phone_call"
	InteractionEmailSent      InteractionType = "email_sent"
)

// CaptureInteraction reports whether t may open a lead from the public form.
func (t InteractionType) CaptureInteraction() bool {
	switch t {
	case InteractionPDFDownload, InteractionContactRequest, InteractionQuoteRequest:
		return true
	}
	return false
}

// AdminAction is a tracked click in the admin lead view.
type AdminAction string

const (
	ActionViewDetails AdminAction = "view_lead_details"
	ActionClickEmail  AdminAction = "click_email"
	ActionClickPhone  AdminAction = "click_phone"
)
