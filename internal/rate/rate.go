// Package rate determines the interest rate for a loan and the rate of return
// for a fixed deposit. All functions are pure and total.
package rate

import "github.com/shopspring/decimal"

const seniorAge = 60

var (
	loanRateSenior = decimal.NewFromFloat(9.5)
	loanRateLow    = decimal.NewFromInt(10)
	loanRateMid    = decimal.NewFromFloat(9.5)
	loanRateHigh   = decimal.NewFromInt(9)

	loanTierLow = decimal.NewFromInt(500_000)
	loanTierMid = decimal.NewFromInt(1_000_000)

	fdRateShort = decimal.NewFromInt(6)
	fdRateMid   = decimal.NewFromInt(7)
	fdRateLong  = decimal.NewFromInt(8)

	fdSeniorBonus = decimal.NewFromFloat(0.5)
)

// Loan returns the annual interest rate in percent for a loan of the given
// principal and tenure. Senior citizens get a fixed rate regardless of tier.
func Loan(principal decimal.Decimal, tenureYears, age int) decimal.Decimal {
	if age >= seniorAge {
		return loanRateSenior
	}
	switch {
	case principal.LessThanOrEqual(loanTierLow):
		return loanRateLow
	case principal.LessThanOrEqual(loanTierMid):
		return loanRateMid
	default:
		return loanRateHigh
	}
}

// FixedDeposit returns the annual rate of return in percent for a deposit of
// the given tenure, tiered by tenure with a senior-citizen bonus on top.
func FixedDeposit(tenureMonths, age int) decimal.Decimal {
	var r decimal.Decimal
	switch {
	case tenureMonths <= 12:
		r = fdRateShort
	case tenureMonths <= 24:
		r = fdRateMid
	default:
		r = fdRateLong
	}
	if age >= seniorAge {
		r = r.Add(fdSeniorBonus)
	}
	return r
}
