// Package payment verifies client-completed Flutterwave transactions
// server-side and owns the fixed price table for paid features.
package payment

import (
	"errors"
	"time"
)

// Billing periods accepted by the upgrade and gem endpoints.
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
)

// Feature keys for the price table.  Gems are namespaced under their level
// name; the premium subscription has a single key.
const (
	FeaturePremium = "premium"
)

// ErrUnknownPrice is returned when a feature/billing pair has no entry.
var ErrUnknownPrice = errors.New("unknown feature or billing period")

// prices is the fixed lookup table in naira, keyed by feature then billing
// period.  Yearly gem prices are ~20% off twelve monthly payments.
var prices = map[string]map[string]int{
	FeaturePremium: {BillingMonthly: 2000, BillingYearly: 19200},
	"gem:Bronze":   {BillingMonthly: 500, BillingYearly: 4800},
	"gem:Silver":   {BillingMonthly: 1000, BillingYearly: 9600},
	"gem:Gold":     {BillingMonthly: 2000, BillingYearly: 19200},
	"gem:Diamond":  {BillingMonthly: 5000, BillingYearly: 48000},
}

// PriceFor returns the amount due for a feature and billing period.
func PriceFor(feature, billing string) (int, error) {
	byBilling, ok := prices[feature]
	if !ok {
		return 0, ErrUnknownPrice
	}
	amount, ok := byBilling[billing]
	if !ok {
		return 0, ErrUnknownPrice
	}
	return amount, nil
}

// GemFeature builds the price-table key for a gem level.
func GemFeature(gem string) string { return "gem:" + gem }

// ExpiryFrom computes when a paid window ends: 30 days for monthly billing,
// one calendar year for yearly.
func ExpiryFrom(start time.Time, billing string) time.Time {
	if billing == BillingYearly {
		return start.AddDate(1, 0, 0)
	}
	return start.Add(30 * 24 * time.Hour)
}
