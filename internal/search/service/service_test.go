package service

import "testing"

func TestPhoneDigits(t *testing.T) {
	cases := map[string]string{
		"+221 77 123 45 67": "221771234567",
		"77-123":            "77123",
		"123":               "",
		"fall 7712":         "",
		"(33) 822.10":       "3382210",
	}
	for in, want := range cases {
		if got := phoneDigits(in); got != want {
			t.Fatalf("phoneDigits(%q) = %q, want %q", in, got, want)
		}
	}
}
