package currency

import (
	"math"
	"strings"
	"testing"
)

func TestFormatUnknownCodeFallback(t *testing.T) {
	if got := Format(12.345, "ZZZ"); got != "ZZZ 12.35" {
		t.Fatalf("Format = %q, want %q", got, "ZZZ 12.35")
	}
}

func TestFormatKnownCode(t *testing.T) {
	got := Format(1234.5, "USD")
	if got == "" {
		t.Fatal("Format returned empty string")
	}
	// The formatter must not use the plain-code fallback for ISO currencies.
	if strings.HasPrefix(got, "USD ") {
		t.Fatalf("Format = %q, expected symbol formatting", got)
	}
	if !strings.Contains(got, "$") {
		t.Fatalf("Format = %q, want the narrow USD symbol", got)
	}
}

func TestFormatNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		if got := Format(v, "ZZZ"); got != "ZZZ 0.00" {
			t.Fatalf("Format(%v) = %q, want %q", v, got, "ZZZ 0.00")
		}
	}
}
