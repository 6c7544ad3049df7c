package storage

import (
	"testing"

	"github.com/google/uuid"
)

func TestObjectKey(t *testing.T) {
	id := uuid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301")
	got := ObjectKey("reports/2026/05", "pack-confort-20260504-120000.pdf", id)
	want := "reports/2026/05/pack-confort-20260504-120000_3f2504e0.pdf"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestIsAllowedContentType(t *testing.T) {
	cases := map[string]bool{
		"text/html; charset=utf-8": true,
		"APPLICATION/PDF":          true,
		"image/png":                false,
		"":                         false,
	}
	for ct, want := range cases {
		if got := IsAllowedContentType(ct); got != want {
			t.Fatalf("%q: expected %v, got %v", ct, want, got)
		}
	}
}

func TestCheckObject(t *testing.T) {
	pdf := Object{FileName: "r.pdf", ContentType: "application/pdf", Body: make([]byte, 101)}

	if err := checkObject(Object{FileName: "r.pdf", ContentType: "application/pdf"}, 100); err == nil {
		t.Fatal("expected error for empty document")
	}
	if err := checkObject(pdf, 100); err == nil {
		t.Fatal("expected error above limit")
	}
	if err := checkObject(pdf, 0); err != nil {
		t.Fatalf("zero limit must be unbounded: %v", err)
	}
	if err := checkObject(Object{FileName: "r.png", ContentType: "image/png", Body: []byte{1}}, 0); err == nil {
		t.Fatal("expected error for image upload")
	}
}
