// Package message formats the vendor disclosure templates inserted with each
// new-loan inquiry. Templates carry {token} placeholders that are replaced
// with loan-specific values; formatting is pure and never fails.
package message

import (
	"strconv"
	"strings"

	"github.com/dkellogg/advancepay-service/internal/domain"
)

// Placeholder tokens recognized in insertion message templates.
const (
	TokenAccountNumber = "{AccountNumber}"
	TokenLoanAmount    = "{LoanAmount}"
	TokenDepositSuffix = "{DepositSuffix}"
	TokenApplicantName = "{ApplicantName}"
)

// FormatLOCH populates the loan origination charge disclosure.
func FormatLOCH(template string, accountNumber int64, loanAmountCents int64, depositSuffix string) string {
	r := strings.NewReplacer(
		TokenAccountNumber, strconv.FormatInt(accountNumber, 10),
		TokenLoanAmount, strconv.FormatInt(loanAmountCents, 10),
		TokenDepositSuffix, depositSuffix,
	)
	return r.Replace(template)
}

// FormatLOMD populates the loan origination member disclosure.
func FormatLOMD(template string, accountNumber int64, loanAmountCents int64, depositSuffix string) string {
	r := strings.NewReplacer(
		TokenAccountNumber, strconv.FormatInt(accountNumber, 10),
		TokenLoanAmount, strconv.FormatInt(loanAmountCents, 10),
		TokenDepositSuffix, depositSuffix,
	)
	return r.Replace(template)
}

// FormatMMCH populates the member change disclosure with the applicant's name.
func FormatMMCH(template string, accountNumber int64, applicant domain.LoanApplicant) string {
	name := strings.TrimSpace(applicant.FirstName + " " + applicant.LastName)
	r := strings.NewReplacer(
		TokenAccountNumber, strconv.FormatInt(accountNumber, 10),
		TokenApplicantName, name,
	)
	return r.Replace(template)
}

// FormatLOFE populates the loan fee disclosure.
func FormatLOFE(template string, accountNumber int64, loanAmountCents int64) string {
	r := strings.NewReplacer(
		TokenAccountNumber, strconv.FormatInt(accountNumber, 10),
		TokenLoanAmount, strconv.FormatInt(loanAmountCents, 10),
	)
	return r.Replace(template)
}
