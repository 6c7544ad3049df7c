package domain

import "testing"

func TestStatusValid(t *testing.T) {
	for _, s := range FunnelOrder {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if Status("lost").Valid() {
		t.Fatal("unknown status accepted")
	}
}

func TestCaptureInteraction(t *testing.T) {
	if !InteractionQuoteRequest.CaptureInteraction() {
		t.Fatal("quote_request must open a lead")
	}
	if InteractionPhoneCall.CaptureInteraction() {
		t.Fatal("phone_call is an admin-side interaction")
	}
}
