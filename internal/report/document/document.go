// Package document renders the recommendation report a visitor downloads
// at the end of the qualification wizard.
package document

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"sakkanal_backend/internal/scenarios/matching"
	"sakkanal_backend/platform/format"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"fcfa":   format.FCFA,
	"number": format.Number,
	"join":   strings.Join,
}).ParseFS(templateFS, "templates/report.html"))

// Output formats.
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

const fileTimeLayout = "20060102-150405"

// Client identifies who the report was prepared for. Every field is optional.
type Client struct {
	CompanyName string
	ContactName string
	Email       string
	Phone       string
}

// Input is everything a report shows.
type Input struct {
	Client      Client
	Answers     matching.Answers
	Scenario    matching.Scenario
	GeneratedAt time.Time
}

// Document is a rendered report.
type Document struct {
	FileName    string
	ContentType string
	Body        []byte
}

// Generator renders reports. ContactURL is encoded in the QR code.
type Generator struct {
	contactURL string
}

// NewGenerator builds a generator whose QR code points to <baseURL>/contact.
func NewGenerator(baseURL string) *Generator {
	return &Generator{contactURL: strings.TrimRight(baseURL, "/") + "/contact"}
}

type reportData struct {
	Client      Client
	HasClient   bool
	Answers     matching.Answers
	SiteType    string
	Scenario    matching.Scenario
	Projection  matching.Projection
	GeneratedAt string
	QRCode      template.URL
	ContactURL  string
}

// Generate renders the HTML report. The projection keeps full precision;
// amounts are rounded only when printed.
func (g *Generator) Generate(in Input) (Document, error) {
	qr, err := QRDataURI(g.contactURL)
	if err != nil {
		return Document{}, err
	}

	data := reportData{
		Client:      in.Client,
		HasClient:   in.Client != (Client{}),
		Answers:     in.Answers,
		SiteType:    SiteTypeLabel(in.Answers.SiteType),
		Scenario:    in.Scenario,
		Projection:  matching.Project(in.Answers.ElectricityBill, in.Scenario),
		GeneratedAt: in.GeneratedAt.Format("02/01/2006 15:04"),
		QRCode:      qr,
		ContactURL:  g.contactURL,
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return Document{}, fmt.Errorf("render report: %w", err)
	}

	return Document{
		FileName:    FileName(in.Scenario.Name, in.GeneratedAt, FormatHTML),
		ContentType: "text/html; charset=utf-8",
		Body:        buf.Bytes(),
	}, nil
}

// FileName is <slug(scenario)>-<YYYYMMDD-HHMMSS>.<ext>.
func FileName(scenarioName string, at time.Time, ext string) string {
	return fmt.Sprintf("%s-%s.%s", Slug(scenarioName), at.Format(fileTimeLayout), ext)
}

var siteTypeLabels = map[string]string{
	"bureau":      "Bureau",
	"immeuble":    "Immeuble",
	"usine":       "Usine",
	"commerce":    "Commerce",
	"data_center": "Data Center",
	"autre":       "Autre",
}

// SiteTypeLabel returns the display label of a wizard site type, or the raw
// value for unknown types.
func SiteTypeLabel(siteType string) string {
	if label, ok := siteTypeLabels[siteType]; ok {
		return label
	}
	return siteType
}
