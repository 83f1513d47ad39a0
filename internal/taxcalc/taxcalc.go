// Package taxcalc derives consumption tax and withholding figures.
//
// Stored values keep full float64 precision. The Display helpers apply the
// floor rounding used on screens and printed summaries; callers must not
// write their results back into a record.
package taxcalc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Breakdown splits a tax-inclusive amount.
type Breakdown struct {
	TaxExcluded float64
	Tax         float64
}

// Derive splits amount at ratePercent. It reports false, and no breakdown
// should be stored, when the rate is absent or not positive.
func Derive(amount float64, ratePercent *float64) (Breakdown, bool) {
	if ratePercent == nil || *ratePercent <= 0 {
		return Breakdown{}, false
	}
	excluded := amount / (1 + *ratePercent/100)
	return Breakdown{TaxExcluded: excluded, Tax: amount - excluded}, true
}

// DeriveWithholding returns the withholding to record. An explicit amount
// always wins; otherwise a rate applies only when the withholding flag is on.
func DeriveWithholding(amount float64, flag *bool, explicit, ratePercent *float64) *float64 {
	if explicit != nil {
		v := *explicit
		return &v
	}
	if flag == nil || !*flag || ratePercent == nil {
		return nil
	}
	v := amount * (*ratePercent / 100)
	return &v
}

// DisplayTax is the consumption tax shown to the user:
// floor(amount * rate / (100 + rate)).
func DisplayTax(amount, ratePercent float64) decimal.Decimal {
	if ratePercent <= 0 {
		return decimal.Zero
	}
	rate := decimal.NewFromFloat(ratePercent)
	return decimal.NewFromFloat(amount).Mul(rate).Div(hundred.Add(rate)).Floor()
}

// DisplayWithholding is the withholding shown to the user:
// floor(amount * rate / 100).
func DisplayWithholding(amount, ratePercent float64) decimal.Decimal {
	rate := decimal.NewFromFloat(ratePercent)
	return decimal.NewFromFloat(amount).Mul(rate).Div(hundred).Floor()
}
