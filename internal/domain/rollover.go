package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rollover status values derived from the qualification flag
const (
	RolloverIneligible RolloverStatus = iota
	RolloverProcessing
	RolloverQualified
)

// RolloverStatus classifies a rollover record as ineligible, processing or
// qualified. The zero value is ineligible.
type RolloverStatus int

func (s RolloverStatus) String() string {
	switch s {
	case RolloverProcessing:
		return "processing"
	case RolloverQualified:
		return "qualified"
	default:
		return "ineligible"
	}
}

// RolloverRecord represents a row of pro_advancepay_rollover. The table is
// owned by the upstream qualification process; this service only reads it.
type RolloverRecord struct {
	Account         int64            `json:"account" db:"acct"`
	LoanSuffix      *int             `json:"loan_suffix" db:"sfx"`
	Qualify         *int             `json:"qualify" db:"qualify"`
	Note            string           `json:"note" db:"note"`
	ResponseCode    *string          `json:"response_code" db:"resp_code"`
	LoanFee         *decimal.Decimal `json:"loan_fee" db:"loan_fee"`
	OriginalBalance *decimal.Decimal `json:"original_balance" db:"orig_bal"`
}

// ClassifyRollover derives the rollover status from the qualification flag.
// The qualification process only ever writes 0 or 1: 0 means not qualified for
// the reasons in the note field, except that loans already being processed
// keep qualify = 0 with the note set to "Rollover".
func ClassifyRollover(record *RolloverRecord) RolloverStatus {
	if record.Qualify == nil {
		return RolloverIneligible
	}

	if *record.Qualify == 0 && !strings.EqualFold(record.Note, "Rollover") {
		return RolloverIneligible
	}

	if *record.Qualify == 1 {
		return RolloverQualified
	}

	return RolloverProcessing
}

// QualificationDetails carries the loan terms shown alongside a rollover offer.
type QualificationDetails struct {
	FinanceCharge      decimal.Decimal `json:"finance_charge"`
	OriginalLoanAmount decimal.Decimal `json:"original_loan_amount"`
}

// RolloverInfo is one entry of a rollover listing for a member account.
type RolloverInfo struct {
	LoanSuffix           int                  `json:"loan_suffix"`
	Status               RolloverStatus       `json:"status"`
	StatusLabel          string               `json:"status_label"`
	QualificationDetails QualificationDetails `json:"qualification_details"`
}

// RolloverAction is the append-only row written once a rollover submission has
// been logged successfully. PostResult and NewInserted are markers consumed by
// the downstream posting process.
type RolloverAction struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Account      int64     `json:"account" db:"acct"`
	LoanSuffix   int       `json:"loan_suffix" db:"sfx"`
	ResponseCode *string   `json:"response_code" db:"resp_code"`
	PostResult   string    `json:"post_result" db:"post_result"`
	NewInserted  string    `json:"new_inserted" db:"new_inserted"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RolloverRequestLog is the audit row written by the logging subscriber for
// every rollover request event.
type RolloverRequestLog struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CorrelationID uuid.UUID `json:"correlation_id" db:"correlation_id"`
	Account       int64     `json:"account" db:"acct"`
	LoanSuffix    int       `json:"loan_suffix" db:"sfx"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type SubmitRolloverRequest struct {
	MemberAccountNumber string `json:"member_account_number" validate:"required,numeric"`
	LoanSuffix          int    `json:"loan_suffix" validate:"gte=0"`
}

// RolloverSubmission is the outcome of a rollover submission. Business
// failures are reported through the result, never as a raw error.
type RolloverSubmission struct {
	Success       bool      `json:"success"`
	FailureReason string    `json:"failure_reason,omitempty"`
	FailureCode   string    `json:"failure_code,omitempty"`
	ErrorDetail   string    `json:"error_detail,omitempty"`
	TimedOut      bool      `json:"timed_out,omitempty"`
	CorrelationID uuid.UUID `json:"correlation_id,omitempty"`
}

type RolloverListResponse struct {
	MemberAccountNumber string          `json:"member_account_number"`
	Rollovers           []*RolloverInfo `json:"rollovers"`
}

type RolloverEligibilityResponse struct {
	MemberAccountNumber string `json:"member_account_number"`
	LoanSuffix          string `json:"loan_suffix"`
	Eligible            bool   `json:"eligible"`
}
