package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Loan pricing constants for advance pay loans.
var (
	// PaymentMultiplier prices the provisional payment at 112.5% of the
	// requested amount.
	PaymentMultiplier = decimal.NewFromFloat(1.125)

	// FinanceChargeRate is the flat finance charge applied to an approved
	// loan amount.
	FinanceChargeRate = decimal.NewFromFloat(0.125)
)

// DollarsToCents converts a whole-dollar amount to minor currency units.
func DollarsToCents(dollars int64) int64 {
	return dollars * 100
}

// ProvisionalPaymentCents computes the provisional payment for a requested
// loan amount in cents, truncating any fractional cent.
func ProvisionalPaymentCents(loanAmountDollars int64) int64 {
	raw := decimal.NewFromInt(loanAmountDollars).Mul(PaymentMultiplier).Mul(decimal.NewFromInt(100))
	return raw.Truncate(0).IntPart()
}

// FinanceCharge computes the flat finance charge for an approved loan amount.
func FinanceCharge(loanAmount int64) decimal.Decimal {
	return decimal.NewFromInt(loanAmount).Mul(FinanceChargeRate)
}

// MaskAccountNumber keeps the last four characters of an account number and
// replaces everything before them with '*', preserving the original length.
// Inputs of four characters or fewer are returned unchanged.
func MaskAccountNumber(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return accountNumber
	}
	return strings.Repeat("*", len(accountNumber)-4) + accountNumber[len(accountNumber)-4:]
}

// LoanDueDate calculates the due date for an approved advance pay loan,
// fourteen days after the transaction date.
func LoanDueDate(tranDate time.Time) time.Time {
	return tranDate.AddDate(0, 0, 14)
}
