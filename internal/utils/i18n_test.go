package utils

import "testing"

func TestT(t *testing.T) {
	if got := T("no", "health.ok"); got != "ok" {
		t.Fatalf("T(no) = %q, want ok", got)
	}
	// Unsupported locales fall back to English.
	if got := T("fr", "health.ok"); got != "ok" {
		t.Fatalf("T(fr) = %q, want English fallback", got)
	}
	// Unknown keys come back verbatim rather than empty.
	if got := T("en", "nope.missing"); got != "nope.missing" {
		t.Fatalf("T unknown key = %q, want key echoed", got)
	}
}
