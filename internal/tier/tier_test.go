package tier_test

import (
	"testing"

	"lendwire/internal/tier"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		amount   float64
		expected tier.Tier
	}{
		{1, tier.Small},
		{9_999, tier.Small},
		{9_999.99, tier.Small},
		{10_000, tier.Medium},
		{25_000, tier.Medium},
		{49_999, tier.Medium},
		{50_000, tier.Large},
		{120_000, tier.Large},
		{10_000_000, tier.Large},
	}
	for _, tc := range cases {
		if got := tier.Classify(tc.amount); got != tc.expected {
			t.Fatalf("Classify(%v) = %s, expected %s", tc.amount, got, tc.expected)
		}
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	th := tier.Thresholds{Small: 500, Large: 2_000}
	if got := th.Classify(499); got != tier.Small {
		t.Fatalf("expected small, got %s", got)
	}
	if got := th.Classify(500); got != tier.Medium {
		t.Fatalf("expected medium, got %s", got)
	}
	if got := th.Classify(2_000); got != tier.Large {
		t.Fatalf("expected large, got %s", got)
	}
}

func TestDescription(t *testing.T) {
	th := tier.DefaultThresholds()
	cases := []struct {
		tr       tier.Tier
		expected string
	}{
		{tier.Small, "< $10,000"},
		{tier.Medium, "$10,000 - $49,999"},
		{tier.Large, ">= $50,000"},
	}
	for _, tc := range cases {
		if got := th.Description(tc.tr); got != tc.expected {
			t.Fatalf("Description(%s) = %q, expected %q", tc.tr, got, tc.expected)
		}
	}
}

func TestColorsAreStable(t *testing.T) {
	for _, tr := range tier.AllTiers() {
		if tr.Color() == "" {
			t.Fatalf("tier %s missing color", tr)
		}
	}
	if tier.Tier("bogus").Color() != "" {
		t.Fatal("unknown tier should have no color")
	}
}

func TestFormatAmount(t *testing.T) {
	if got := tier.FormatAmount(1_234_567); got != "$1,234,567" {
		t.Fatalf("FormatAmount = %q", got)
	}
}
