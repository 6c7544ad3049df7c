package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
)

func ptr[T any](v T) *T { return &v }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestInsertPageVisit(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO page_visits \(page_path, visitor_id, user_agent, referrer\)`).
		WithArgs("/sakkanal", "visitor_1_abc", ptr("Mozilla/5.0"), ptr("direct")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := New(mock).InsertPageVisit(context.Background(), PageVisit{
		PagePath:  "/sakkanal",
		VisitorID: "visitor_1_abc",
		UserAgent: ptr("Mozilla/5.0"),
		Referrer:  ptr("direct"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpsertUniqueVisitor_WrapsError(t *testing.T) {
	mock := newMock(t)
	boom := errors.New("function upsert_unique_visitor does not exist")
	mock.ExpectExec(`SELECT upsert_unique_visitor\(\$1\)`).
		WithArgs("visitor_1_abc").
		WillReturnError(boom)

	err := New(mock).UpsertUniqueVisitor(context.Background(), "visitor_1_abc")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestInsertAppEvent_EncodesMetadata(t *testing.T) {
	mock := newMock(t)
	leadID := uuid.New()
	metadata := map[string]any{"from_status": "new", "to_status": "converted"}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		t.Fatal(err)
	}

	mock.ExpectExec(`INSERT INTO events \(event_name, event_category, lead_id, user_id, metadata\)`).
		WithArgs("lead_status_change", "conversion", &leadID, (*uuid.UUID)(nil), encoded).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = New(mock).InsertAppEvent(context.Background(), AppEvent{
		EventName: "lead_status_change",
		Category:  "conversion",
		LeadID:    &leadID,
		Metadata:  metadata,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestInsertCustomEvent_NilPropertiesStoredAsNull(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO custom_events`).
		WithArgs("cta_click", "visitor_1_abc", []byte(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := New(mock).InsertCustomEvent(context.Background(), CustomEvent{EventName: "cta_click", VisitorID: "visitor_1_abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
