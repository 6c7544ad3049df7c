package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestHandler_StreamsBroadcastEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := New(nil)
	userID := uuid.New()

	r := gin.New()
	r.GET("/stream", svc.Handler(func(*gin.Context) (uuid.UUID, bool) { return userID, true }))

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(w, req)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for svc.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never connected")
		}
		time.Sleep(5 * time.Millisecond)
	}

	leadID, eventID := uuid.New(), uuid.New()
	svc.Broadcast(Event{ID: eventID, Type: EventLeadCaptured, LeadID: leadID, Message: "Boulangerie du Port"})
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event:connected") || !strings.Contains(body, "event:lead_captured") {
		t.Fatalf("missing events in stream:\n%s", body)
	}
	if !strings.Contains(body, leadID.String()) {
		t.Fatalf("lead id missing from stream:\n%s", body)
	}
	if !strings.Contains(body, "id:"+eventID.String()) {
		t.Fatalf("event id missing from stream:\n%s", body)
	}
	if svc.ClientCount() != 0 {
		t.Fatalf("client not removed after disconnect")
	}
}

func TestHandler_RejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := New(nil)
	r := gin.New()
	r.GET("/stream", svc.Handler(func(*gin.Context) (uuid.UUID, bool) { return uuid.Nil, false }))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
