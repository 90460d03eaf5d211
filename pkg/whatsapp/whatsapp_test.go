package whatsapp

import (
	"strings"
	"testing"
)

func TestLinkStripsNonDigits(t *testing.T) {
	got := Link("+225 07 08 09 10", "Hello")
	if !strings.HasPrefix(got, "https://wa.me/22507080910?text=") {
		t.Fatalf("unexpected link %q", got)
	}
}

func TestLinkWithoutMessage(t *testing.T) {
	if got := Link("+2250000000000", ""); got != "https://wa.me/2250000000000" {
		t.Fatalf("unexpected link %q", got)
	}
}

func TestLinkEncodesMessage(t *testing.T) {
	got := Link("2250000000000", "Bonjour, je suis intéressé par: Café")
	if !strings.Contains(got, "?text=") {
		t.Fatalf("expected encoded text parameter, got %q", got)
	}
	if strings.ContainsAny(strings.SplitN(got, "?text=", 2)[1], " é") {
		t.Fatalf("message should be URL-encoded, got %q", got)
	}
}

func TestLinkEmptyNumber(t *testing.T) {
	if got := Link("  ", "hi"); got != "" {
		t.Fatalf("expected empty link for empty number, got %q", got)
	}
}
