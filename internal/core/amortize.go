package core

import "github.com/shopspring/decimal"

// AmortizationPeriods is the fixed term every liability is amortized over:
// 30 years of monthly payments. It is not configurable per liability type.
const AmortizationPeriods = 360

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
	periods = decimal.NewFromInt(AmortizationPeriods)
)

// MonthlyPayment computes the fixed monthly payment that retires principal
// over AmortizationPeriods at the given annual percentage rate.
// A zero rate degrades to principal/360. Inputs are not validated here;
// that is the caller's responsibility.
func MonthlyPayment(principal, annualRatePercent decimal.Decimal) decimal.Decimal {
	r := annualRatePercent.Div(hundred).Div(twelve)
	if r.IsZero() {
		return principal.Div(periods)
	}
	compound := one.Add(r).Pow(periods)
	return principal.Mul(r.Mul(compound)).Div(compound.Sub(one))
}

// MonthlyIncome computes the passive monthly income an asset yields at the
// given annual percentage rate: value * rate / 100 / 12.
func MonthlyIncome(value, annualRatePercent decimal.Decimal) decimal.Decimal {
	return value.Mul(annualRatePercent).Div(hundred).Div(twelve)
}
