package service

import (
	"context"
	"time"

	"sakkanal_backend/internal/telemetry/repository"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/observability"
)

const directReferrer = "direct"

// PageVisitInput is one page load reported by a visitor.
type PageVisitInput struct {
	VisitorID string
	PagePath  string
	UserAgent string
	Referrer  string
}

// PageVisitResult tells the caller what happened to a page load.
type PageVisitResult struct {
	VisitorID string
	Recorded  bool
	State     PageState
}

// Tracker records each visitor's page loads at most once per page. It is
// built once per process and shared by every request.
//
// For a visitor, a page moves untracked -> tracked once its visit row is
// stored. Reporting a different path is a navigation and resets the state
// first; Navigate resets it explicitly.
type Tracker struct {
	repo    repository.Repository
	store   StateStore
	metrics *observability.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewTracker creates a page tracker.
func NewTracker(repo repository.Repository, store StateStore, metrics *observability.Metrics, log *logger.Logger) *Tracker {
	return &Tracker{repo: repo, store: store, metrics: metrics, log: log, now: time.Now}
}

// State reports whether path is already tracked for the visitor.
func (t *Tracker) State(ctx context.Context, visitorID, path string) PageState {
	tracked, err := t.store.TrackedPath(ctx, visitorID)
	if err != nil {
		t.log.TelemetryFailure("page_state", visitorID, err)
		return PageUntracked
	}
	if tracked != "" && tracked == path {
		return PageTracked
	}
	return PageUntracked
}

// TrackPageView stores a page visit unless the page is already tracked for
// the visitor. A missing visitor id is generated. Failures are logged and
// reported as not recorded; they never reach the caller as errors.
func (t *Tracker) TrackPageView(ctx context.Context, in PageVisitInput) PageVisitResult {
	if in.VisitorID == "" {
		in.VisitorID = NewVisitorID(t.now())
	}
	result := PageVisitResult{VisitorID: in.VisitorID}

	tracked, err := t.store.TrackedPath(ctx, in.VisitorID)
	if err != nil {
		t.log.TelemetryFailure("page_state", in.VisitorID, err)
	}
	if tracked != "" && tracked == in.PagePath {
		result.State = PageTracked
		return result
	}
	if tracked != "" {
		t.Navigate(ctx, in.VisitorID)
	}

	referrer := in.Referrer
	if referrer == "" {
		referrer = directReferrer
	}
	visit := repository.PageVisit{
		PagePath:  in.PagePath,
		VisitorID: in.VisitorID,
		UserAgent: optional(in.UserAgent),
		Referrer:  &referrer,
	}
	if err := t.repo.InsertPageVisit(ctx, visit); err != nil {
		t.log.TelemetryFailure("page_visit", in.VisitorID, err)
		t.metrics.PageVisit(false)
		return result
	}

	// The visit is stored from here on; later failures only get logged.
	if err := t.store.MarkTracked(ctx, in.VisitorID, in.PagePath); err != nil {
		t.log.TelemetryFailure("page_state", in.VisitorID, err)
	}
	if err := t.repo.UpsertUniqueVisitor(ctx, in.VisitorID); err != nil {
		t.log.TelemetryFailure("unique_visitor", in.VisitorID, err)
	}

	t.metrics.PageVisit(true)
	result.Recorded = true
	result.State = PageTracked
	return result
}

// Navigate resets the visitor's page state so the next page load is tracked.
func (t *Tracker) Navigate(ctx context.Context, visitorID string) {
	if err := t.store.Reset(ctx, visitorID); err != nil {
		t.log.TelemetryFailure("page_state", visitorID, err)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
