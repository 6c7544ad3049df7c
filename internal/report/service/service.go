// Package service generates recommendation reports and archives them.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sakkanal_backend/internal/adapters/storage"
	"sakkanal_backend/internal/events"
	"sakkanal_backend/internal/pdf"
	"sakkanal_backend/internal/report/document"
	"sakkanal_backend/internal/report/transport"
	"sakkanal_backend/internal/scenarios/matching"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ScenarioReader loads the scenario a report is about.
type ScenarioReader interface {
	Get(ctx context.Context, id uuid.UUID) (matching.Scenario, error)
}

// Archive stores generated documents. Optional.
type Archive struct {
	Storage storage.StorageService
	Bucket  string
}

// Caller identifies the anonymous visitor asking for a report.
type Caller struct {
	VisitorID string
	SessionID string
}

// Result is a generated document plus the archived copy's link, if any.
type Result struct {
	Document    document.Document
	DownloadURL string
}

type Service struct {
	scenarios ScenarioReader
	generator *document.Generator
	converter pdf.Converter
	archive   *Archive
	eventBus  events.Bus
	log       *logger.Logger
	now       func() time.Time
}

// New creates the report service. A nil converter disables PDF output and a
// nil archive skips archiving.
func New(scenarios ScenarioReader, generator *document.Generator, converter pdf.Converter, archive *Archive, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		scenarios: scenarios,
		generator: generator,
		converter: converter,
		archive:   archive,
		eventBus:  eventBus,
		log:       log,
		now:       time.Now,
	}
}

// PDFEnabled reports whether PDF output is available.
func (s *Service) PDFEnabled() bool {
	return s.converter != nil
}

func (s *Service) Generate(ctx context.Context, req transport.GenerateReportRequest, format string, caller Caller) (Result, error) {
	if format == "" {
		format = document.FormatHTML
	}
	if format == document.FormatPDF && !s.PDFEnabled() {
		return Result{}, apperr.Validation("pdf export is not available")
	}

	scenario, err := s.scenarios.Get(ctx, req.ScenarioID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Result{}, apperr.Validation("unknown scenario")
		}
		return Result{}, err
	}

	generatedAt := s.now()
	doc, err := s.generator.Generate(document.Input{
		Client:      clientOf(req.Client),
		Answers:     req.Answers,
		Scenario:    scenario,
		GeneratedAt: generatedAt,
	})
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "render report", err).WithOp("report.generate")
	}

	if format == document.FormatPDF {
		body, err := s.converter.ConvertHTML(ctx, doc.Body, pdf.ReportOpts())
		if err != nil {
			return Result{}, apperr.Unavailable("pdf conversion failed", err).WithOp("report.generate")
		}
		doc = document.Document{
			FileName:    document.FileName(scenario.Name, generatedAt, document.FormatPDF),
			ContentType: "application/pdf",
			Body:        body,
		}
	}

	result := Result{Document: doc}
	result.DownloadURL = s.archiveDocument(ctx, doc, scenario.ID, generatedAt)

	if req.LeadID != nil && *req.LeadID != uuid.Nil {
		var email string
		if req.Client != nil {
			email = strings.TrimSpace(req.Client.Email)
		}
		s.eventBus.Publish(ctx, events.ReportDownloaded{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    *req.LeadID,
			Email:     email,
			Format:    format,
			FileName:  doc.FileName,
			VisitorID: caller.VisitorID,
			SessionID: caller.SessionID,
		})
	}

	s.log.Info("report generated",
		"scenario_id", scenario.ID,
		"format", format,
		"file_name", doc.FileName,
		"archived", result.DownloadURL != "",
	)
	return result, nil
}

// archiveDocument stores doc under reports/YYYY/MM and returns a presigned
// URL. Archive failures are logged; the caller still gets the document.
func (s *Service) archiveDocument(ctx context.Context, doc document.Document, scenarioID uuid.UUID, at time.Time) string {
	if s.archive == nil || s.archive.Storage == nil {
		return ""
	}

	key, err := s.archive.Storage.Put(ctx, s.archive.Bucket, storage.Object{
		Folder:      fmt.Sprintf("reports/%s", at.UTC().Format("2006/01")),
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		Body:        doc.Body,
		Metadata:    map[string]string{"scenario-id": scenarioID.String()},
	})
	if err != nil {
		s.log.Error("report archive failed", "file_name", doc.FileName, "error", err)
		return ""
	}

	link, err := s.archive.Storage.PresignGet(ctx, s.archive.Bucket, key)
	if err != nil {
		s.log.Error("report presign failed", "file_key", key, "error", err)
		return ""
	}
	return link.URL
}

func clientOf(info *transport.ClientInfo) document.Client {
	if info == nil {
		return document.Client{}
	}
	return document.Client{
		CompanyName: sanitize.Line(info.CompanyName),
		ContactName: sanitize.Line(info.ContactName),
		Email:       sanitize.Line(info.Email),
		Phone:       sanitize.Line(info.Phone),
	}
}
