package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Decision codes written by the external decisioning engine.
// 0 = approved; 1 = teletrack denied; 2 = core posting failed; 3 = input error / unknown.
const (
	DecisionCodeApproved = "0"
	DecisionCodeDenied   = "1"
	DecisionCodeFailed   = "2"
	DecisionCodeUnknown  = "3"
)

const (
	DecisionApproved = "approved"
	DecisionDenied   = "denied"
	DecisionFailure  = "failure"
)

// Fixed inquiry fields required by the decisioning engine.
const (
	InquiryCaseID     = "Online Banking"
	InquiryCollateral = 300
	InquiryBranch     = 41
)

// LoanApplicant carries the applicant fields submitted with a new-loan inquiry.
type LoanApplicant struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Birthdate string `json:"birthdate" validate:"required"`
	SSN       string `json:"ssn" validate:"required"`
	Address1  string `json:"address_1" validate:"required"`
	Address2  string `json:"address_2"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zip_code" validate:"required,numeric"`
	HomePhone string `json:"home_phone"`
	WorkPhone string `json:"work_phone"`
	Employer  string `json:"employer"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// InsertionMessages holds the vendor disclosure templates populated per
// inquiry before insertion.
type InsertionMessages struct {
	LOCH string `json:"loch_insertion_message"`
	LOMD string `json:"lomd_insertion_message"`
	MMCH string `json:"mmch_insertion_message"`
	LOFE string `json:"lofe_insertion_message"`
}

// LoanInquiry represents a row of pro_teletrack_inquiry. The service inserts
// the row; the decisioning engine later clears NewInserted and fills the
// decision columns in place.
type LoanInquiry struct {
	RecID           int64      `json:"rec_id" db:"rec_id"`
	FirstName       string     `json:"first_name" db:"fname"`
	LastName        string     `json:"last_name" db:"lname"`
	Birthdate       string     `json:"birthdate" db:"bd"`
	SSN             string     `json:"ssn" db:"ssn"`
	Address1        string     `json:"address_1" db:"add1"`
	Address2        string     `json:"address_2" db:"add2"`
	City            string     `json:"city" db:"city"`
	State           string     `json:"state" db:"st"`
	Zip             int64      `json:"zip" db:"zip"`
	HomePhone       string     `json:"home_phone" db:"hphone"`
	WorkPhone       string     `json:"work_phone" db:"wphone"`
	Employer        string     `json:"employer" db:"employer"`
	Account         int64      `json:"account" db:"acct"`
	Amount          *int64     `json:"amount" db:"amount"`
	TransferSource  int16      `json:"transfer_payment_source" db:"transfer_pymt_source"`
	CaseID          string     `json:"case_id" db:"case_id"`
	Collateral      int        `json:"collateral" db:"collateral"`
	PaymentAmount   *int64     `json:"payment_amount" db:"pymt_amt"`
	Email           string     `json:"email" db:"email"`
	Branch          int        `json:"branch" db:"branch"`
	LOCH            string     `json:"loch" db:"loch"`
	LOMD            string     `json:"lomd" db:"lomd"`
	MMCH            string     `json:"mmch" db:"mmch"`
	LOFE            string     `json:"lofe" db:"lofe"`
	LOCHTransSource string     `json:"loch_trans_source" db:"loch_trans_source"`
	NewInserted     string     `json:"new_inserted" db:"new_inserted"`
	TranDate        *time.Time `json:"tran_date" db:"tran_date"`
	NewSuffix       *int       `json:"new_suffix" db:"new_suffix"`
	Decision        *string    `json:"decision" db:"decision"`
	OpenCOS         *string    `json:"open_cos" db:"open_cos"`
	SkipGuard       *string    `json:"skip_guard" db:"skip_guard"`
	ConsumerDispute *string    `json:"consumer_dispute" db:"consumer_dispute"`
	SocialGuard     *string    `json:"social_guard" db:"social_guard"`
}

// Resolved reports whether the decisioning engine has finished with the row.
func (q *LoanInquiry) Resolved() bool {
	return !strings.EqualFold(q.NewInserted, "Y")
}

// LoanApproval carries the approval details returned for an approved inquiry.
type LoanApproval struct {
	LoanInformation       string          `json:"loan_information"`
	LoanDate              time.Time       `json:"loan_date"`
	LoanAmount            int64           `json:"loan_amount"`
	FinanceCharge         decimal.Decimal `json:"finance_charge"`
	DueDate               time.Time       `json:"due_date"`
	PaymentAmount         int64           `json:"payment_amount"`
	AnnualPercentageRate  decimal.Decimal `json:"annual_percentage_rate"`
	TransferPaymentSuffix string          `json:"transfer_payment_suffix"`
}

// LoanDenial carries the guard flags that explain a denied inquiry.
type LoanDenial struct {
	HasChargeOff       bool `json:"has_charge_off"`
	HasSkipGuard       bool `json:"has_skip_guard"`
	HasConsumerDispute bool `json:"has_consumer_dispute"`
	HasSocialGuard     bool `json:"has_social_guard"`
}

// LoanDecision is the classified outcome of a loan inquiry. Message is one of
// approved, denied or failure; TimedOut distinguishes an exhausted poll budget
// from a decision-engine failure.
type LoanDecision struct {
	Message  string        `json:"decision_message"`
	TimedOut bool          `json:"timed_out,omitempty"`
	Approval *LoanApproval `json:"approval_information,omitempty"`
	Denial   *LoanDenial   `json:"denied_information,omitempty"`
}

// NewLoanEligible represents a row of pro_advancepay_newloan_eligible.
type NewLoanEligible struct {
	Account       *int64 `json:"account" db:"account"`
	MaxLoanAmount *int64 `json:"max_loan_amount" db:"max_loan_amount"`
}

// DTOs for requests and responses

type LoanInquiryRequest struct {
	MemberAccountNumber string            `json:"member_account_number" validate:"required,numeric"`
	LoanAmount          int64             `json:"loan_amount" validate:"required,gt=0"`
	DepositSuffix       string            `json:"deposit_suffix" validate:"required,numeric"`
	LoanApplicant       LoanApplicant     `json:"loan_applicant" validate:"required"`
	InsertionMessages   InsertionMessages `json:"insertion_messages"`
}

type LoanConditionsResponse struct {
	MaximumLoanAmount int64  `json:"maximum_loan_amount"`
	LoanTerms         string `json:"loan_terms"`
}

type AccountEligibilityResponse struct {
	Payload []string `json:"payload"`
}
