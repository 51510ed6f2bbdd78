// Package amort computes loan amortization figures and fixed-deposit maturity
// values. Functions are pure; callers round results to 2 decimal places at the
// point they become durable.
package amort

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// FlatSchedule returns the flat-interest total payable and monthly installment
// for a loan:
//
//	totalPayable = principal * (1 + rate/100 * tenureYears)
//	emi          = totalPayable / (tenureYears * 12)
func FlatSchedule(principal decimal.Decimal, tenureYears int, annualRate decimal.Decimal) (totalPayable, emi decimal.Decimal) {
	years := decimal.NewFromInt(int64(tenureYears))
	totalPayable = principal.Mul(decimal.NewFromInt(1).Add(annualRate.Div(hundred).Mul(years)))
	emi = totalPayable.Div(years.Mul(monthsInYear))
	return totalPayable, emi
}

// AnnuityEMI returns the reducing-balance monthly installment
//
//	emi = P * r * (1+r)^n / ((1+r)^n - 1)
//
// with r the monthly rate annualRate/1200. The power term is computed in
// float64 and converted back for monetary arithmetic.
func AnnuityEMI(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	monthlyRate := annualRate.Div(hundred).Div(monthsInYear)
	if monthlyRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(months)))
	}
	factor := math.Pow(1+monthlyRate.InexactFloat64(), float64(months))
	numerator := principal.Mul(monthlyRate).Mul(decimal.NewFromFloat(factor))
	return numerator.Div(decimal.NewFromFloat(factor - 1))
}

// FDMaturity returns the monthly-compounded maturity value
// principal * (1 + rate/1200)^months.
func FDMaturity(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	monthlyRate := annualRate.Div(hundred).Div(monthsInYear)
	factor := math.Pow(1+monthlyRate.InexactFloat64(), float64(months))
	return principal.Mul(decimal.NewFromFloat(factor))
}

// PrematureMaturity returns the settlement value of a deposit withdrawn before
// maturity: principal * (1 + penalizedRate/100)^(months/12), i.e. annual
// compounding over the fractional tenure at the already-penalized rate.
func PrematureMaturity(principal, penalizedRate decimal.Decimal, months int) decimal.Decimal {
	factor := math.Pow(1+penalizedRate.Div(hundred).InexactFloat64(), float64(months)/12.0)
	return principal.Mul(decimal.NewFromFloat(factor))
}
