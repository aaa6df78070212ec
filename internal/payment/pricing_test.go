package payment

import (
	"testing"
	"time"
)

func TestPriceTable(t *testing.T) {
	cases := []struct {
		feature string
		billing string
		want    int
	}{
		{FeaturePremium, BillingMonthly, 2000},
		{FeaturePremium, BillingYearly, 19200},
		{GemFeature("Bronze"), BillingMonthly, 500},
		{GemFeature("Bronze"), BillingYearly, 4800},
		{GemFeature("Silver"), BillingMonthly, 1000},
		{GemFeature("Silver"), BillingYearly, 9600},
		{GemFeature("Gold"), BillingMonthly, 2000},
		{GemFeature("Gold"), BillingYearly, 19200},
		{GemFeature("Diamond"), BillingMonthly, 5000},
		{GemFeature("Diamond"), BillingYearly, 48000},
	}
	for _, tc := range cases {
		got, err := PriceFor(tc.feature, tc.billing)
		if err != nil {
			t.Errorf("PriceFor(%s, %s): %v", tc.feature, tc.billing, err)
			continue
		}
		if got != tc.want {
			t.Errorf("PriceFor(%s, %s) = %d, want %d", tc.feature, tc.billing, got, tc.want)
		}
	}
}

func TestPriceForUnknown(t *testing.T) {
	if _, err := PriceFor("gem:Ruby", BillingMonthly); err == nil {
		t.Error("unknown gem must not price")
	}
	if _, err := PriceFor(FeaturePremium, "weekly"); err == nil {
		t.Error("unknown billing period must not price")
	}
}

func TestExpiryFrom(t *testing.T) {
	start := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	monthly := ExpiryFrom(start, BillingMonthly)
	if got := monthly.Sub(start); got != 30*24*time.Hour {
		t.Errorf("monthly window = %v, want 720h", got)
	}

	yearly := ExpiryFrom(start, BillingYearly)
	want := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	if !yearly.Equal(want) {
		t.Errorf("yearly expiry = %v, want %v", yearly, want)
	}
}
