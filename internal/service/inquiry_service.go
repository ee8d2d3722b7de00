package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dkellogg/advancepay-service/internal/config"
	"github.com/dkellogg/advancepay-service/internal/domain"
	"github.com/dkellogg/advancepay-service/internal/message"
	"github.com/dkellogg/advancepay-service/internal/repository"
	customError "github.com/dkellogg/advancepay-service/pkg/errors"
	"github.com/dkellogg/advancepay-service/pkg/utils"
)

// AnnualPercentageRate is the fixed nominal APR disclosed with an approved
// advance pay loan.
var AnnualPercentageRate = decimal.NewFromFloat(325.89)

var errDecisionPending = errors.New("decision engine has not resolved the inquiry")

// InquiryService submits new-loan inquiries and waits for the external
// decisioning engine to resolve them.
type InquiryService struct {
	repo   repository.InquiryRepository
	config *config.Config
	logger *zap.Logger
}

func NewInquiryService(repo repository.InquiryRepository, cfg *config.Config, logger *zap.Logger) *InquiryService {
	return &InquiryService{
		repo:   repo,
		config: cfg,
		logger: logger,
	}
}

// RequestDecision runs the full inquiry workflow: insert the inquiry row, then
// poll until the decision engine resolves it and classify the outcome. Every
// failure path, including submission errors and an exhausted poll budget,
// comes back as a failure decision rather than an error.
func (s *InquiryService) RequestDecision(ctx context.Context, request *domain.LoanInquiryRequest) *domain.LoanDecision {
	recID, err := s.SubmitInquiry(ctx, request)
	if err != nil {
		s.logger.Error("loan inquiry submission failed",
			zap.String("member_account_number", request.MemberAccountNumber),
			zap.Error(err),
		)
		return &domain.LoanDecision{Message: domain.DecisionFailure}
	}

	account, _ := strconv.ParseInt(request.MemberAccountNumber, 10, 64)

	return s.AwaitDecision(ctx, recID, account, request.DepositSuffix)
}

// SubmitInquiry formats the vendor insertion messages, prices the requested
// loan and inserts the inquiry row. It returns the store-assigned record id
// the decision can be polled under.
func (s *InquiryService) SubmitInquiry(ctx context.Context, request *domain.LoanInquiryRequest) (int64, error) {
	account, err := strconv.ParseInt(request.MemberAccountNumber, 10, 64)
	if err != nil {
		return 0, customError.WrapValidationError("member_account_number", err)
	}

	zip, err := strconv.ParseInt(request.LoanApplicant.ZipCode, 10, 64)
	if err != nil {
		return 0, customError.WrapValidationError("zip_code", err)
	}

	transferSource, err := strconv.ParseInt(request.DepositSuffix, 10, 16)
	if err != nil {
		return 0, customError.WrapValidationError("deposit_suffix", err)
	}

	applicant := request.LoanApplicant
	amountCents := utils.DollarsToCents(request.LoanAmount)
	paymentAmount := utils.ProvisionalPaymentCents(request.LoanAmount)

	inquiry := &domain.LoanInquiry{
		FirstName:      applicant.FirstName,
		LastName:       applicant.LastName,
		Birthdate:      applicant.Birthdate,
		SSN:            applicant.SSN,
		Address1:       applicant.Address1,
		Address2:       applicant.Address2,
		City:           applicant.City,
		State:          applicant.State,
		Zip:            zip,
		HomePhone:      applicant.HomePhone,
		WorkPhone:      applicant.WorkPhone,
		Employer:       applicant.Employer,
		Account:        account,
		Amount:         &amountCents,
		TransferSource: int16(transferSource),
		CaseID:         domain.InquiryCaseID,
		Collateral:     domain.InquiryCollateral,
		PaymentAmount:  &paymentAmount,
		Email:          applicant.Email,
		Branch:         domain.InquiryBranch,
		LOCH:           message.FormatLOCH(request.InsertionMessages.LOCH, account, amountCents, request.DepositSuffix),
		LOMD:           message.FormatLOMD(request.InsertionMessages.LOMD, account, amountCents, request.DepositSuffix),
		MMCH:           message.FormatMMCH(request.InsertionMessages.MMCH, account, applicant),
		LOFE:           message.FormatLOFE(request.InsertionMessages.LOFE, account, amountCents),
	}

	recID, err := s.repo.Create(ctx, inquiry)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	s.logger.Info("loan inquiry submitted",
		zap.Int64("rec_id", recID),
		zap.Int64("account", account),
		zap.Int64("amount_cents", amountCents),
	)

	return recID, nil
}

// AwaitDecision polls the inquiry row on a fixed cadence until the decision
// engine clears its processing marker, then classifies the terminal decision
// code. Exhausting the poll budget yields a timed-out failure, distinct from
// an engine denial.
func (s *InquiryService) AwaitDecision(ctx context.Context, recID int64, accountNumber int64, depositSuffix string) *domain.LoanDecision {
	interval := s.config.Inquiry.PollInterval
	attempts := s.config.Inquiry.PollAttempts

	// The decision engine needs at least one interval before the first
	// read can be useful.
	select {
	case <-time.After(interval):
	case <-ctx.Done():
		return &domain.LoanDecision{Message: domain.DecisionFailure, TimedOut: true}
	}

	var resolved *domain.LoanInquiry

	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(interval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		inquiry, err := s.repo.GetByRecID(ctx, recID)
		if err != nil {
			// Transient read failures consume poll attempts like any
			// other unresolved observation.
			return retry.RetryableError(err)
		}
		if !inquiry.Resolved() {
			return retry.RetryableError(errDecisionPending)
		}
		resolved = inquiry
		return nil
	})
	if err != nil {
		s.logger.Warn("loan decision polling exhausted",
			zap.Int64("rec_id", recID),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return &domain.LoanDecision{Message: domain.DecisionFailure, TimedOut: true}
	}

	return s.classifyDecision(resolved, accountNumber, depositSuffix)
}

func (s *InquiryService) classifyDecision(inquiry *domain.LoanInquiry, accountNumber int64, depositSuffix string) *domain.LoanDecision {
	code := ""
	if inquiry.Decision != nil {
		code = *inquiry.Decision
	}

	switch code {
	case domain.DecisionCodeApproved:
		return &domain.LoanDecision{
			Message:  domain.DecisionApproved,
			Approval: buildApproval(inquiry, accountNumber, depositSuffix),
		}
	case domain.DecisionCodeDenied:
		return &domain.LoanDecision{
			Message: domain.DecisionDenied,
			Denial:  buildDenial(inquiry),
		}
	default:
		s.logger.Warn("loan decision failed",
			zap.Int64("rec_id", inquiry.RecID),
			zap.String("decision_code", code),
		)
		return &domain.LoanDecision{Message: domain.DecisionFailure}
	}
}

func buildApproval(inquiry *domain.LoanInquiry, accountNumber int64, depositSuffix string) *domain.LoanApproval {
	masked := utils.MaskAccountNumber(strconv.FormatInt(accountNumber, 10))

	newSuffix := 0
	if inquiry.NewSuffix != nil {
		newSuffix = *inquiry.NewSuffix
	}

	approval := &domain.LoanApproval{
		LoanInformation:       fmt.Sprintf("Account No: %s; loan Suffix: %d", masked, newSuffix),
		AnnualPercentageRate:  AnnualPercentageRate,
		TransferPaymentSuffix: masked + "-" + depositSuffix,
	}

	if inquiry.TranDate != nil {
		approval.LoanDate = *inquiry.TranDate
		approval.DueDate = utils.LoanDueDate(*inquiry.TranDate)
	}

	if inquiry.Amount != nil && *inquiry.Amount > 0 {
		approval.LoanAmount = *inquiry.Amount
		approval.FinanceCharge = utils.FinanceCharge(*inquiry.Amount)
	}

	if inquiry.PaymentAmount != nil && *inquiry.PaymentAmount > 0 {
		approval.PaymentAmount = *inquiry.PaymentAmount
	}

	return approval
}

func buildDenial(inquiry *domain.LoanInquiry) *domain.LoanDenial {
	flagSet := func(flag *string) bool {
		return flag != nil && *flag == "1"
	}

	return &domain.LoanDenial{
		HasChargeOff:       flagSet(inquiry.OpenCOS),
		HasSkipGuard:       flagSet(inquiry.SkipGuard),
		HasConsumerDispute: flagSet(inquiry.ConsumerDispute),
		HasSocialGuard:     flagSet(inquiry.SocialGuard),
	}
}

// GetLoanConditions returns the maximum advance pay loan amount for the
// account in cents, with a success/failure marker in the loan terms field.
func (s *InquiryService) GetLoanConditions(ctx context.Context, memberAccountNumber string) *domain.LoanConditionsResponse {
	response := &domain.LoanConditionsResponse{LoanTerms: "failure"}

	account, err := strconv.ParseInt(memberAccountNumber, 10, 64)
	if err != nil {
		return response
	}

	eligible, err := s.repo.GetEligibilityByAccount(ctx, account)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.LoanTerms = "success"
			return response
		}
		s.logger.Error("loan conditions lookup failed",
			zap.Int64("account", account),
			zap.Error(err),
		)
		return response
	}

	if eligible.MaxLoanAmount != nil && *eligible.MaxLoanAmount > 0 {
		// Amount is stored in dollars. Convert to cents.
		response.MaximumLoanAmount = utils.DollarsToCents(*eligible.MaxLoanAmount)
	}
	response.LoanTerms = "success"

	return response
}

// GetAccountEligibility returns the new-loan eligibility payload for a member:
// the eligible account number and its maximum loan amount, as strings, with
// empty strings when no eligibility row exists.
func (s *InquiryService) GetAccountEligibility(ctx context.Context, memberUUID int64) (*domain.AccountEligibilityResponse, error) {
	payload := []string{"", ""}

	eligible, err := s.repo.GetEligibilityByAccount(ctx, memberUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.AccountEligibilityResponse{Payload: payload}, nil
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if eligible.Account != nil {
		payload[0] = strconv.FormatInt(*eligible.Account, 10)
	}
	if eligible.MaxLoanAmount != nil {
		payload[1] = strconv.FormatInt(*eligible.MaxLoanAmount, 10)
	}

	return &domain.AccountEligibilityResponse{Payload: payload}, nil
}
